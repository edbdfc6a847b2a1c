//go:build darwin

package proc

import (
	"context"
	"os/user"
	"time"

	cache "github.com/Code-Hex/go-generics-cache"
	"github.com/rs/zerolog"

	"github.com/pranshuparmar/witr/internal/launchd"
	"github.com/pranshuparmar/witr/pkg/model"
)

type darwinProvider struct {
	users *cache.Cache[string, string]
	jobs  *cache.Cache[string, *launchd.Info]
	ttl   time.Duration
}

func newPlatformProvider(o providerOptions) Provider {
	return &darwinProvider{
		users: cache.New[string, string](),
		jobs:  cache.New[string, *launchd.Info](),
		ttl:   o.lookupTTL,
	}
}

func (p *darwinProvider) FetchProcess(ctx context.Context, pid int) (model.Process, error) {
	rec, err := fetchProcess(ctx, pid)
	if err != nil {
		return model.Process{}, err
	}
	if rec.User == "" && rec.UID != "" {
		rec.User = p.username(rec.UID)
	}
	return rec, nil
}

func (p *darwinProvider) username(uid string) string {
	if uid == "0" {
		return "root"
	}
	if name, ok := p.users.Get(uid); ok {
		return name
	}
	name := uid
	if u, err := user.LookupId(uid); err == nil {
		name = u.Username
	}
	p.users.Set(uid, name, cache.WithExpiration(p.ttl))
	return name
}

func (p *darwinProvider) ListPIDs(ctx context.Context) ([]int, error) {
	return listPIDs(ctx)
}

func (p *darwinProvider) BootTime(ctx context.Context) time.Time {
	return hostBootTime(ctx)
}

// DetectContainer always reports false: Docker Desktop runs containers in a
// VM whose processes are not visible to the host.
func (p *darwinProvider) DetectContainer(context.Context, int) (string, bool) {
	return "", false
}

func (p *darwinProvider) DetectServiceUnit(ctx context.Context, pid int) (string, bool) {
	info, err := launchd.Lookup(ctx, pid)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Int("pid", pid).Msg("launchd lookup")
		return "", false
	}
	p.jobs.Set(info.Label, info, cache.WithExpiration(p.ttl))
	return info.Label, true
}

func (p *darwinProvider) ServiceDetails(_ context.Context, label string) ServiceDetails {
	info, ok := p.jobs.Get(label)
	if !ok {
		return ServiceDetails{}
	}
	return ServiceDetails{UnitFile: info.PlistPath, Triggers: info.Triggers()}
}
