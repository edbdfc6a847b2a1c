package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/pranshuparmar/witr/internal/tui"
)

func newWatchCmd(opts *options, newProvider providerFactory) *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "watch [name]",
		Short: "Re-inspect a process on a fixed interval in a live dashboard",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, ok := opts.target(args)
			if !ok {
				_ = cmd.Usage()
				return exitWith(1, "")
			}

			a, err := newApp(cmd, opts, newProvider)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			pid, err := a.resolveOne(ctx, t, false)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("interval") {
				interval = a.cfg.Watch.Interval
			}
			return tui.Run(ctx, a.inspector, t, pid, interval)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "Time between inspections (default from config)")
	return cmd
}
