// Package cli wires configuration, the process provider and the inspector
// behind the witr command line.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/pranshuparmar/witr/internal/config"
	"github.com/pranshuparmar/witr/internal/proc"
	"github.com/pranshuparmar/witr/pkg/model"
)

// BuildInfo is injected at link time by main.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

type options struct {
	pid  string
	port string

	short    bool
	tree     bool
	children bool
	json     bool
	yaml     bool
	warnings bool
	noColor  bool
	env      bool

	configFile string
	logLevel   string
}

// providerFactory builds the OS adapter once configuration is known.
type providerFactory func(cfg config.Config) proc.Provider

func defaultProvider(cfg config.Config) proc.Provider {
	return proc.NewProvider(proc.WithLookupTTL(cfg.Snapshot.MaxAge))
}

func NewRoot(info BuildInfo) *cobra.Command {
	return newRoot(info, defaultProvider)
}

func newRoot(info BuildInfo, newProvider providerFactory) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "witr [name]",
		Short: "witr: why is this running?",
		Long: "witr explains where a running process came from: its ancestry, " +
			"the supervisor or service that started it, the sockets it holds " +
			"and anything about it that looks wrong.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(cmd, opts, args, newProvider)
		},
	}

	cmd.Version = info.String()
	cmd.SetVersionTemplate("{{.Version}}\n")

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.pid, "pid", "", "Explain a specific PID")
	pf.StringVar(&opts.port, "port", "", "Explain port usage")
	pf.BoolVar(&opts.json, "json", false, "Output result as JSON")
	pf.BoolVar(&opts.yaml, "yaml", false, "Output result as YAML")
	pf.BoolVar(&opts.noColor, "no-color", false, "Disable colorized output")
	pf.StringVar(&opts.configFile, "config", "", "Path to witr.yaml")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level: debug|info|warn|error (default from config)")

	f := cmd.Flags()
	f.BoolVar(&opts.short, "short", false, "One-line summary")
	f.BoolVar(&opts.tree, "tree", false, "Show full process ancestry tree")
	f.BoolVar(&opts.children, "children", false, "Show direct child processes")
	f.BoolVar(&opts.warnings, "warnings", false, "Show only warnings")
	f.BoolVar(&opts.env, "env", false, "Show only environment variables for the process")

	cmd.MarkFlagsMutuallyExclusive("pid", "port")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")

	cmd.AddCommand(newScanCmd(opts, newProvider))
	cmd.AddCommand(newWatchCmd(opts, newProvider))
	cmd.AddCommand(newVersionCmd(info))

	return cmd
}

// target picks the query in the order --pid, --port, positional name. It
// reports false when nothing was given.
func (o *options) target(args []string) (model.Target, bool) {
	switch {
	case o.pid != "":
		return model.Target{Type: model.TargetPID, Value: o.pid}, true
	case o.port != "":
		return model.Target{Type: model.TargetPort, Value: o.port}, true
	case len(args) > 0:
		return model.Target{Type: model.TargetName, Value: args[0]}, true
	}
	return model.Target{}, false
}

func newVersionCmd(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version and build details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := cmd.OutOrStdout().Write([]byte(info.String() + "\n"))
			return err
		},
	}
}

func (b BuildInfo) String() string {
	v, c, d := b.Version, b.Commit, b.Date
	if v == "" {
		v = "dev"
	}
	if c == "" {
		c = "unknown"
	}
	if d == "" {
		d = "unknown"
	}
	return "witr " + v + " (commit " + c + ", built " + d + ")"
}
