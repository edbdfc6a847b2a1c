//go:build linux

package proc

import (
	"context"
	"os"
	"time"
)

// BootTime reads btime from /proc/stat, falling back to gopsutil.
func (p *linuxProvider) BootTime(ctx context.Context) time.Time {
	if raw, err := os.ReadFile(p.procRoot + "/stat"); err == nil {
		if t, ok := parseBootTime(string(raw)); ok {
			return t
		}
	}
	return hostBootTime(ctx)
}
