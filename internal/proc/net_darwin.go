//go:build darwin

package proc

import (
	"context"
	"os/exec"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/pranshuparmar/witr/pkg/model"
)

// lsof flags: -i TCP all TCP sockets, -n/-P no name resolution, -F machine
// readable pid, fd, protocol, name and TCP info fields.
var lsofArgs = []string{"-i", "TCP", "-n", "-P", "-F", "pfPnT"}

func (p *darwinProvider) ConnectionTable(ctx context.Context) map[model.SocketID]model.SocketInfo {
	out, err := exec.CommandContext(ctx, "lsof", lsofArgs...).Output()
	if err != nil && len(out) == 0 {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("lsof connection table")
		return map[model.SocketID]model.SocketInfo{}
	}
	return DecodeLsof(string(out))
}

// SocketIDs returns "pid:port" ids for the sockets of pid in lsof order.
func (p *darwinProvider) SocketIDs(ctx context.Context, pid int) []model.SocketID {
	args := append([]string{"-a", "-p", strconv.Itoa(pid)}, lsofArgs...)
	out, err := exec.CommandContext(ctx, "lsof", args...).Output()
	if err != nil && len(out) == 0 {
		zerolog.Ctx(ctx).Debug().Err(err).Int("pid", pid).Msg("lsof sockets")
		return nil
	}

	var ids []model.SocketID
	for _, e := range decodeLsofEntries(string(out)) {
		if e.pid == pid {
			ids = append(ids, e.id)
		}
	}
	return ids
}
