package proc

import (
	"context"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v4/host"
	gnet "github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/pranshuparmar/witr/pkg/model"
)

// fetchProcess builds the portable part of a record through gopsutil.
// Only the existence check is fatal; every other field is best effort.
func fetchProcess(ctx context.Context, pid int) (model.Process, error) {
	if pid <= 0 {
		return model.Process{}, errors.Wrapf(ErrProcessNotFound, "pid %d", pid)
	}

	p, err := process.NewProcessWithContext(ctx, int32(pid))
	if err != nil {
		if errors.Is(err, process.ErrorProcessNotRunning) {
			return model.Process{}, errors.Wrapf(ErrProcessNotFound, "pid %d", pid)
		}
		return model.Process{}, errors.Wrapf(ErrUnknown, "pid %d: %v", pid, err)
	}

	log := zerolog.Ctx(ctx)
	rec := model.Process{PID: pid, Status: model.StatusOther}

	if name, err := p.NameWithContext(ctx); err == nil {
		rec.Command = name
	} else {
		// the process may have exited between the existence check and now
		if ok, _ := process.PidExistsWithContext(ctx, int32(pid)); !ok {
			return model.Process{}, errors.Wrapf(ErrProcessNotFound, "pid %d", pid)
		}
		log.Debug().Err(err).Int("pid", pid).Msg("read process name")
	}

	if ppid, err := p.PpidWithContext(ctx); err == nil {
		rec.PPID = int(ppid)
	}

	if args, err := p.CmdlineSliceWithContext(ctx); err == nil {
		rec.Args = args
		rec.Cmdline = strings.TrimSpace(strings.Join(args, " "))
	}
	if exe, err := p.ExeWithContext(ctx); err == nil {
		rec.Exe = exe
	}
	if uids, err := p.UidsWithContext(ctx); err == nil && len(uids) > 0 {
		rec.UID = strconv.FormatUint(uint64(uids[0]), 10)
	}
	if user, err := p.UsernameWithContext(ctx); err == nil {
		rec.User = user
	}
	if ms, err := p.CreateTimeWithContext(ctx); err == nil && ms > 0 {
		rec.StartedAt = time.UnixMilli(ms)
	}
	if cwd, err := p.CwdWithContext(ctx); err == nil {
		rec.WorkingDir = cwd
	}
	if status, err := p.StatusWithContext(ctx); err == nil {
		rec.Status = mapStatus(status)
	}
	if cpu, err := p.CPUPercentWithContext(ctx); err == nil {
		rec.CPUPercent = cpu
	}
	if mem, err := p.MemoryInfoWithContext(ctx); err == nil && mem != nil {
		rec.MemoryRSS = mem.RSS
	}
	if env, err := p.EnvironWithContext(ctx); err == nil {
		for _, e := range env {
			if e != "" {
				rec.Env = append(rec.Env, e)
			}
		}
	}

	return rec, nil
}

// mapStatus folds gopsutil status letters into the record's lifecycle set.
func mapStatus(status []string) model.ProcessStatus {
	if len(status) == 0 {
		return model.StatusOther
	}
	switch status[0] {
	case process.Running:
		return model.StatusRunning
	case process.Sleep, process.Idle, process.Wait, process.Lock:
		return model.StatusSleeping
	case process.Stop:
		return model.StatusStopped
	case process.Zombie:
		return model.StatusZombie
	}
	return model.StatusOther
}

func listPIDs(ctx context.Context) ([]int, error) {
	raw, err := process.PidsWithContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list pids")
	}
	pids := make([]int, 0, len(raw))
	for _, p := range raw {
		if p > 0 {
			pids = append(pids, int(p))
		}
	}
	return pids, nil
}

func hostBootTime(ctx context.Context) time.Time {
	secs, err := host.BootTimeWithContext(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("read boot time")
		return time.Time{}
	}
	return time.Unix(int64(secs), 0)
}

// connectionInfo converts a gopsutil connection into a socket record and its
// "pid:port" id.
func connectionInfo(c gnet.ConnectionStat) (model.SocketID, model.SocketInfo, bool) {
	if c.Laddr.Port == 0 || c.Pid <= 0 {
		return "", model.SocketInfo{}, false
	}

	info := model.SocketInfo{
		Protocol:  "tcp",
		Port:      int(c.Laddr.Port),
		State:     NormalizeState(c.Status),
		LocalAddr: c.Laddr.IP,
	}
	if info.LocalAddr == "" || info.LocalAddr == "*" {
		info.LocalAddr = "0.0.0.0"
	}
	if c.Raddr.IP != "" {
		info.RemoteAddr = net.JoinHostPort(c.Raddr.IP, strconv.FormatUint(uint64(c.Raddr.Port), 10))
	}
	Explain(&info)

	id := model.SocketID(strconv.Itoa(int(c.Pid)) + ":" + strconv.Itoa(info.Port))
	return id, info, true
}

// addConnections adds gopsutil connections to table, suffixing repeated
// "pid:port" ids the same way DecodeLsof does. When ids is non-nil the
// assigned ids are appended in input order.
func addConnections(table map[model.SocketID]model.SocketInfo, ids *[]model.SocketID, conns []gnet.ConnectionStat) {
	seen := make(map[model.SocketID]int)
	for _, c := range conns {
		base, info, ok := connectionInfo(c)
		if !ok {
			continue
		}
		id := base
		seen[base]++
		if n := seen[base]; n > 1 {
			id = model.SocketID(string(base) + "#" + strconv.Itoa(n))
		}
		table[id] = info
		if ids != nil {
			*ids = append(*ids, id)
		}
	}
}
