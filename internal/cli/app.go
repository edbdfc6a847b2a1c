package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pranshuparmar/witr/internal/config"
	"github.com/pranshuparmar/witr/internal/container"
	"github.com/pranshuparmar/witr/internal/inspect"
	"github.com/pranshuparmar/witr/internal/logger"
	"github.com/pranshuparmar/witr/internal/proc"
	"github.com/pranshuparmar/witr/internal/source"
	"github.com/pranshuparmar/witr/internal/target"
)

// app is everything one command invocation needs.
type app struct {
	cfg       config.Config
	provider  proc.Provider
	inspector *inspect.Inspector
	resolver  *target.Resolver
	docker    *container.DockerResolver

	out    io.Writer
	errOut io.Writer
	color  bool
	argv   []string
	now    func() time.Time
}

func newApp(cmd *cobra.Command, opts *options, newProvider providerFactory) (*app, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	logger.InitLogger(level)

	a, err := buildApp(cmd.Context(), cfg, newProvider(cfg))
	if err != nil {
		return nil, err
	}
	a.out = cmd.OutOrStdout()
	a.errOut = cmd.ErrOrStderr()
	a.color = colorEnabled(opts, a.out)
	return a, nil
}

func buildApp(ctx context.Context, cfg config.Config, provider proc.Provider) (*app, error) {
	paths, err := source.CompilePaths(cfg.Security.SuspiciousPaths)
	if err != nil {
		return nil, errors.Wrap(err, "security.suspicious_paths")
	}

	srcOpts := source.Options{
		Thresholds: source.Thresholds{
			HighMemBytes:   cfg.Health.HighMemBytes(),
			HighCPUPercent: cfg.Health.HighCPUPercent,
			LongRunning:    cfg.Health.LongRunning(),
		},
		SuspiciousPaths: paths,
	}

	a := &app{
		cfg:      cfg,
		provider: provider,
		out:      os.Stdout,
		errOut:   os.Stderr,
		argv:     os.Args,
		now:      time.Now,
	}

	inOpts := []inspect.Option{inspect.WithSourceOptions(srcOpts)}
	if cfg.Docker.ResolveNames {
		docker, err := container.NewDockerResolver(cfg.Docker.Timeout)
		if err != nil {
			logger.Logger(ctx).Debug().Err(err).Msg("container names disabled")
		} else {
			a.docker = docker
			inOpts = append(inOpts, inspect.WithContainerNamer(docker))
		}
	}

	snapshot := proc.NewSnapshot(provider, cfg.Snapshot.MaxAge)
	a.inspector = inspect.New(provider, snapshot, inOpts...)
	a.resolver = target.NewResolver(provider, snapshot)
	return a, nil
}

func (a *app) Close() error {
	if a.docker == nil {
		return nil
	}
	return a.docker.Close()
}

// colorEnabled honours --no-color and NO_COLOR, and only colors terminals.
func colorEnabled(opts *options, w io.Writer) bool {
	if opts.noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
