package source

import (
	"time"

	"github.com/pranshuparmar/witr/pkg/model"
)

const (
	mib = 1024 * 1024
	day = 24 * time.Hour
)

// Thresholds are the limits above which a process is flagged.
type Thresholds struct {
	HighMemBytes   uint64
	HighCPUPercent float64
	LongRunning    time.Duration
}

// DefaultThresholds flags more than 1024 MiB resident, more than 80% CPU
// and more than 90 days of uptime.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HighMemBytes:   1024 * mib,
		HighCPUPercent: 80.0,
		LongRunning:    90 * day,
	}
}

// Health returns the first matching label of zombie, stopped, high-mem,
// high-cpu, long-running, falling back to healthy. All comparisons are
// strictly greater than.
func Health(p model.Process, now time.Time, th Thresholds) string {
	switch {
	case p.Status == model.StatusZombie:
		return model.HealthZombie
	case p.Status == model.StatusStopped:
		return model.HealthStopped
	case p.MemoryRSS > th.HighMemBytes:
		return model.HealthHighMem
	case p.CPUPercent > th.HighCPUPercent:
		return model.HealthHighCPU
	case p.Age(now) > th.LongRunning:
		return model.HealthLongRunning
	}
	return model.HealthHealthy
}
