// Package inspect assembles a full inspection of one process: ancestry,
// sockets, origin and warnings. It also runs host-wide security scans and
// the watch loop on top of the same pipeline.
package inspect

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pranshuparmar/witr/internal/gitinfo"
	"github.com/pranshuparmar/witr/internal/logger"
	"github.com/pranshuparmar/witr/internal/proc"
	"github.com/pranshuparmar/witr/internal/process"
	"github.com/pranshuparmar/witr/internal/source"
	"github.com/pranshuparmar/witr/pkg/model"
)

// ContainerNamer turns a container id into a human name.
type ContainerNamer interface {
	Name(ctx context.Context, id string) (string, bool)
}

// Inspector runs inspections against one provider. It owns the host
// snapshot and refreshes it when stale.
type Inspector struct {
	provider proc.Provider
	snapshot *proc.Snapshot
	git      *gitinfo.Detector
	docker   ContainerNamer
	opts     source.Options
	now      func() time.Time
}

type Option func(*Inspector)

// WithContainerNamer enables container name lookups.
func WithContainerNamer(n ContainerNamer) Option {
	return func(i *Inspector) {
		i.docker = n
	}
}

func WithSourceOptions(opts source.Options) Option {
	return func(i *Inspector) {
		i.opts = opts
	}
}

func WithGitDetector(d *gitinfo.Detector) Option {
	return func(i *Inspector) {
		i.git = d
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(i *Inspector) {
		i.now = now
	}
}

func New(provider proc.Provider, snapshot *proc.Snapshot, opts ...Option) *Inspector {
	i := &Inspector{
		provider: provider,
		snapshot: snapshot,
		opts:     source.DefaultOptions(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.git == nil {
		i.git = gitinfo.NewDetector(snapshot.MaxAge())
	}
	return i
}

// Snapshot returns the host snapshot the inspector reads from.
func (i *Inspector) Snapshot() *proc.Snapshot {
	return i.snapshot
}

// Inspect explains pid. Only a missing target is an error; every other
// failure degrades the result.
func (i *Inspector) Inspect(ctx context.Context, t model.Target, pid int) (model.Result, error) {
	i.snapshot.RefreshIfStale(ctx)
	return i.inspect(ctx, t, pid)
}

func (i *Inspector) inspect(ctx context.Context, t model.Target, pid int) (model.Result, error) {
	raw, err := i.provider.FetchProcess(ctx, pid)
	if err != nil {
		return model.Result{}, err
	}
	target, svc := i.enrichTarget(ctx, raw)

	chain := process.ResolveAncestry(ctx, pid, func(ctx context.Context, p int) (model.Process, error) {
		if p == pid {
			return target, nil
		}
		anc, err := i.provider.FetchProcess(ctx, p)
		if err != nil {
			return model.Process{}, err
		}
		return i.enrich(ctx, anc), nil
	})

	now := i.now()
	res := model.Result{
		Target:          t,
		ResolvedTarget:  target.Command,
		Process:         target,
		Ancestry:        chain,
		Source:          source.Detect(target, chain),
		Warnings:        source.Warnings(target, chain, now, i.opts),
		RestartCount:    source.RestartCount(target, chain, svc.Restarts),
		FileContext:     i.provider.FileContext(ctx, pid),
		ResourceContext: i.provider.ResourceContext(ctx, pid),
	}
	if len(svc.Triggers) > 0 {
		if res.Source.Details == nil {
			res.Source.Details = map[string]string{}
		}
		res.Source.Details["triggers"] = strings.Join(svc.Triggers, "; ")
	}
	if svc.Restarts > 0 {
		if res.Source.Details == nil {
			res.Source.Details = map[string]string{}
		}
		res.Source.Details["restarts"] = strconv.Itoa(svc.Restarts)
	}
	return res, nil
}

// enrich attaches the cheap per-process facts: sockets from the snapshot,
// health and the forked label.
func (i *Inspector) enrich(ctx context.Context, p model.Process) model.Process {
	p.Sockets = proc.Correlate(i.provider.SocketIDs(ctx, p.PID), i.snapshot.Table())
	p.ListeningPorts, p.BindAddresses = proc.ListeningPorts(p.Sockets)
	p.Health = source.Health(p, i.now(), i.opts.Thresholds)
	p.Forked = source.Forked(p)
	return p
}

// enrichTarget also resolves container, service unit and git working tree,
// which only matter for the process being explained.
func (i *Inspector) enrichTarget(ctx context.Context, p model.Process) (model.Process, proc.ServiceDetails) {
	log := logger.Logger(ctx)
	p = i.enrich(ctx, p)

	if id, ok := i.provider.DetectContainer(ctx, p.PID); ok {
		p.Container = id
		if i.docker != nil {
			if name, ok := i.docker.Name(ctx, id); ok {
				p.ContainerName = name
			}
		}
	}

	var svc proc.ServiceDetails
	if unit, ok := i.provider.DetectServiceUnit(ctx, p.PID); ok {
		p.Service = unit
		svc = i.provider.ServiceDetails(ctx, unit)
		p.ServiceFile = svc.UnitFile
	}

	if info, ok := i.git.Lookup(p.WorkingDir); ok {
		p.GitRepo = info.Repo
		p.GitBranch = info.Branch
	}

	log.Debug().
		Int("pid", p.PID).
		Int("sockets", len(p.Sockets)).
		Str("container", p.Container).
		Str("service", p.Service).
		Msg("process enriched")
	return p, svc
}

// Children lists the direct children of pid, lowest pid first.
func (i *Inspector) Children(ctx context.Context, pid int) []model.Process {
	pids, err := i.provider.ListPIDs(ctx)
	if err != nil {
		logger.Logger(ctx).Debug().Err(err).Msg("list pids for children")
		return nil
	}

	var children []model.Process
	for _, candidate := range pids {
		if candidate == pid {
			continue
		}
		p, err := i.provider.FetchProcess(ctx, candidate)
		if err != nil || p.PPID != pid {
			continue
		}
		children = append(children, p)
	}
	sort.Slice(children, func(a, b int) bool { return children[a].PID < children[b].PID })
	return children
}
