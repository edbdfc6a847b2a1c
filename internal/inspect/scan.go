package inspect

import (
	"context"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/pranshuparmar/witr/internal/logger"
	"github.com/pranshuparmar/witr/internal/metrics"
	"github.com/pranshuparmar/witr/internal/source"
	"github.com/pranshuparmar/witr/pkg/model"
)

// ScanOptions bound a host-wide scan.
type ScanOptions struct {
	// PerProcessTimeout caps one inspection. Zero means no cap.
	PerProcessTimeout time.Duration
	// MaxProcesses stops after that many pids. Zero means all.
	MaxProcesses int
	// Concurrency is the number of inspections in flight.
	Concurrency int
}

// ScanReport holds every process that produced at least one warning.
type ScanReport struct {
	ID         string         `json:"id" yaml:"id"`
	StartedAt  time.Time      `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time      `json:"finished_at" yaml:"finished_at"`
	Scanned    int            `json:"scanned" yaml:"scanned"`
	Failed     int            `json:"failed" yaml:"failed"`
	Critical   int            `json:"critical" yaml:"critical"`
	Warning    int            `json:"warning" yaml:"warning"`
	Findings   []model.Result `json:"findings" yaml:"findings"`
}

// Stats converts the report for the metrics collector.
func (r *ScanReport) Stats() metrics.ScanStats {
	return metrics.ScanStats{
		Scanned:  r.Scanned,
		Flagged:  len(r.Findings),
		Failed:   r.Failed,
		Critical: r.Critical,
		Warning:  r.Warning,
		Duration: r.FinishedAt.Sub(r.StartedAt),
		Finished: r.FinishedAt,
	}
}

// Scan inspects every process on the host with a per-process deadline.
// Processes that exit mid-scan are skipped silently; other failures are
// counted and logged. A cancelled ctx returns the partial report with the
// context error.
func (i *Inspector) Scan(ctx context.Context, opts ScanOptions) (*ScanReport, error) {
	log := logger.Logger(ctx)

	report := &ScanReport{
		ID:        uuid.NewString(),
		StartedAt: i.now(),
	}

	pids, err := i.provider.ListPIDs(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list processes")
	}
	sort.Ints(pids)
	if opts.MaxProcesses > 0 && len(pids) > opts.MaxProcesses {
		pids = pids[:opts.MaxProcesses]
	}

	i.snapshot.Refresh(ctx)

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	var mu sync.Mutex
	self := os.Getpid()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, pid := range pids {
		if pid == self {
			continue
		}
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			pctx := gctx
			if opts.PerProcessTimeout > 0 {
				var cancel context.CancelFunc
				pctx, cancel = context.WithTimeout(gctx, opts.PerProcessTimeout)
				defer cancel()
			}

			t := model.Target{Type: model.TargetPID, Value: strconv.Itoa(pid)}
			res, err := i.inspect(pctx, t, pid)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, ErrProcessNotFound):
				log.Debug().Int("pid", pid).Msg("process exited during scan")
				return nil
			case err != nil:
				report.Failed++
				log.Warn().Err(err).Int("pid", pid).Msg("inspect failed")
				return nil
			}
			report.Scanned++
			if len(res.Warnings) == 0 {
				return nil
			}
			for _, w := range res.Warnings {
				if source.IsCritical(w) {
					report.Critical++
				} else {
					report.Warning++
				}
			}
			report.Findings = append(report.Findings, res)
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(report.Findings, func(a, b int) bool {
		return report.Findings[a].Process.PID < report.Findings[b].Process.PID
	})
	report.FinishedAt = i.now()

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

// HasCritical reports whether any finding carries a critical warning.
func (r *ScanReport) HasCritical() bool {
	return r.Critical > 0
}
