package cli

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/pranshuparmar/witr/internal/inspect"
	"github.com/pranshuparmar/witr/internal/logger"
	"github.com/pranshuparmar/witr/internal/metrics"
	"github.com/pranshuparmar/witr/internal/output"
)

type scanFlags struct {
	promTextfile   string
	maxProcesses   int
	concurrency    int
	failOnCritical bool
}

func newScanCmd(opts *options, newProvider providerFactory) *cobra.Command {
	sf := &scanFlags{}
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Inspect every process and report the ones with warnings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, opts, sf, newProvider)
		},
	}

	f := cmd.Flags()
	f.StringVar(&sf.promTextfile, "prom-textfile", "", "Write scan metrics to this node_exporter textfile")
	f.IntVar(&sf.maxProcesses, "max-processes", 0, "Inspect at most this many processes (default from config, 0 = all)")
	f.IntVar(&sf.concurrency, "concurrency", 0, "Processes inspected in parallel (default from config)")
	f.BoolVar(&sf.failOnCritical, "fail-on-critical", false, "Exit with code 2 when a critical finding is reported")

	return cmd
}

func runScan(cmd *cobra.Command, opts *options, sf *scanFlags, newProvider providerFactory) error {
	a, err := newApp(cmd, opts, newProvider)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	scanOpts := inspect.ScanOptions{
		PerProcessTimeout: a.cfg.Scan.PerProcessTimeout,
		MaxProcesses:      a.cfg.Scan.MaxProcesses,
		Concurrency:       a.cfg.Scan.Concurrency,
	}
	if cmd.Flags().Changed("max-processes") {
		scanOpts.MaxProcesses = sf.maxProcesses
	}
	if cmd.Flags().Changed("concurrency") {
		scanOpts.Concurrency = sf.concurrency
	}

	report, scanErr := a.inspector.Scan(ctx, scanOpts)
	if report == nil {
		return errors.Wrap(scanErr, "scan")
	}
	if scanErr != nil {
		logger.Logger(ctx).Warn().Err(scanErr).Int("scanned", report.Scanned).Msg("scan interrupted, reporting partial results")
	}

	if sf.promTextfile != "" {
		collector := metrics.NewScanCollector()
		collector.Update(report.Stats())
		if err := collector.WriteTextfile(sf.promTextfile); err != nil {
			return errors.Wrap(err, "write metrics textfile")
		}
	}

	switch {
	case opts.json:
		err = output.WriteJSON(a.out, report)
	case opts.yaml:
		err = output.WriteYAML(a.out, report)
	default:
		output.RenderSecurityReport(a.out, report, a.color)
	}
	if err != nil {
		return err
	}

	if scanErr != nil {
		return errors.Wrap(scanErr, "scan")
	}
	if sf.failOnCritical && report.HasCritical() {
		return exitWith(2, "")
	}
	return nil
}
