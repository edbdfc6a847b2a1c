//go:build linux

package proc

import (
	"context"
	"os"
	"os/exec"
	"strconv"
	"time"

	cache "github.com/Code-Hex/go-generics-cache"
	"github.com/rs/zerolog"

	"github.com/pranshuparmar/witr/internal/container"
	"github.com/pranshuparmar/witr/pkg/model"
)

type linuxProvider struct {
	procRoot string
	users    *cache.Cache[string, string]
	ttl      time.Duration
}

func newPlatformProvider(o providerOptions) Provider {
	return &linuxProvider{
		procRoot: "/proc",
		users:    cache.New[string, string](),
		ttl:      o.lookupTTL,
	}
}

func (p *linuxProvider) path(pid int, name string) string {
	return p.procRoot + "/" + strconv.Itoa(pid) + "/" + name
}

func (p *linuxProvider) FetchProcess(ctx context.Context, pid int) (model.Process, error) {
	rec, err := fetchProcess(ctx, pid)
	if err != nil {
		return model.Process{}, err
	}
	if rec.UID == "" {
		if uid, ok := p.ownerUID(pid); ok {
			rec.UID = uid
		}
	}
	if rec.User == "" && rec.UID != "" {
		rec.User = p.username(ctx, rec.UID)
	}
	return rec, nil
}

func (p *linuxProvider) ListPIDs(ctx context.Context) ([]int, error) {
	return listPIDs(ctx)
}

func (p *linuxProvider) DetectContainer(ctx context.Context, pid int) (string, bool) {
	raw, err := os.ReadFile(p.path(pid, "cgroup"))
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Int("pid", pid).Msg("read cgroup")
		return "", false
	}
	info, ok := container.FromCgroup(string(raw))
	if !ok {
		return "", false
	}
	return info.ID, true
}

func (p *linuxProvider) DetectServiceUnit(ctx context.Context, pid int) (string, bool) {
	// systemctl exits non-zero for inactive units but still prints the status
	out, err := exec.CommandContext(ctx, "systemctl", "status", "--no-pager", strconv.Itoa(pid)).Output()
	if len(out) == 0 {
		if err != nil {
			zerolog.Ctx(ctx).Debug().Err(err).Int("pid", pid).Msg("systemctl status")
		}
		return "", false
	}
	return parseSystemctlStatus(string(out))
}

func (p *linuxProvider) ServiceDetails(ctx context.Context, unit string) ServiceDetails {
	out, err := exec.CommandContext(ctx, "systemctl", "show", "-p", "NRestarts", "-p", "FragmentPath", unit).Output()
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("unit", unit).Msg("systemctl show")
		return ServiceDetails{}
	}
	return parseSystemdShow(string(out))
}
