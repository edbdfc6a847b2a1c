package metrics

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// ScanCollector holds the gauges describing one security scan. It owns a
// private registry so repeated scans in one process never collide.
type ScanCollector struct {
	registry *prometheus.Registry

	scanned   prometheus.Gauge
	flagged   prometheus.Gauge
	failed    prometheus.Gauge
	warnings  *prometheus.GaugeVec
	duration  prometheus.Gauge
	timestamp prometheus.Gauge
}

func NewScanCollector() *ScanCollector {
	c := &ScanCollector{
		registry: prometheus.NewRegistry(),
		scanned: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "witr",
			Subsystem: "scan",
			Name:      "processes_scanned",
			Help:      "Processes inspected by the last security scan.",
		}),
		flagged: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "witr",
			Subsystem: "scan",
			Name:      "processes_flagged",
			Help:      "Processes with at least one warning.",
		}),
		failed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "witr",
			Subsystem: "scan",
			Name:      "processes_failed",
			Help:      "Processes that could not be inspected.",
		}),
		warnings: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "witr",
			Subsystem: "scan",
			Name:      "warnings",
			Help:      "Warnings found by the last security scan.",
		}, []string{"severity"}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "witr",
			Subsystem: "scan",
			Name:      "duration_seconds",
			Help:      "Wall time of the last security scan.",
		}),
		timestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "witr",
			Subsystem: "scan",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last security scan finished.",
		}),
	}
	c.registry.MustRegister(c.scanned, c.flagged, c.failed, c.warnings, c.duration, c.timestamp)
	return c
}

// ScanStats are the numbers one scan produces.
type ScanStats struct {
	Scanned  int
	Flagged  int
	Failed   int
	Critical int
	Warning  int
	Duration time.Duration
	Finished time.Time
}

func (c *ScanCollector) Update(s ScanStats) {
	c.scanned.Set(float64(s.Scanned))
	c.flagged.Set(float64(s.Flagged))
	c.failed.Set(float64(s.Failed))
	c.warnings.WithLabelValues("critical").Set(float64(s.Critical))
	c.warnings.WithLabelValues("warning").Set(float64(s.Warning))
	c.duration.Set(s.Duration.Seconds())
	c.timestamp.Set(float64(s.Finished.Unix()))
}

// Gatherer exposes the registry, mainly for tests.
func (c *ScanCollector) Gatherer() prometheus.Gatherer {
	return c.registry
}

// WriteTextfile writes the metrics in the text exposition format for the
// node_exporter textfile collector. The file is replaced atomically.
func (c *ScanCollector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return errors.Wrapf(err, "write metrics to %s", path)
	}
	return nil
}
