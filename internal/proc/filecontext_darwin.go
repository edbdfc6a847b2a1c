//go:build darwin

package proc

import (
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pranshuparmar/witr/pkg/model"
)

// FileContext counts the descriptors lsof reports for pid and the files it
// holds locks on. The limit is the launchd maxfiles soft limit.
func (p *darwinProvider) FileContext(ctx context.Context, pid int) *model.FileContext {
	out, err := exec.CommandContext(ctx, "lsof", "-p", strconv.Itoa(pid), "-F", "fln").Output()
	if err != nil && len(out) == 0 {
		zerolog.Ctx(ctx).Debug().Err(err).Int("pid", pid).Msg("lsof files")
		return nil
	}

	open, locked := parseLsofFiles(string(out))
	return &model.FileContext{
		OpenFiles:   open,
		FileLimit:   maxFilesLimit(ctx),
		LockedFiles: locked,
	}
}

// maxFilesLimit reads the soft limit from `launchctl limit maxfiles`
// ("maxfiles 256 unlimited"), falling back to the shell's ulimit.
func maxFilesLimit(ctx context.Context) int {
	if out, err := exec.CommandContext(ctx, "launchctl", "limit", "maxfiles").Output(); err == nil {
		for _, line := range strings.Split(string(out), "\n") {
			if !strings.Contains(line, "maxfiles") {
				continue
			}
			if limit, ok := parseMaxFilesLine(line); ok {
				return limit
			}
		}
	}
	if out, err := exec.CommandContext(ctx, "sh", "-c", "ulimit -n").Output(); err == nil {
		if limit, err := strconv.Atoi(strings.TrimSpace(string(out))); err == nil {
			return limit
		}
	}
	return 0
}

// parseMaxFilesLine returns the soft limit column. "unlimited" is reported
// as 0, which FileContext treats as no limit.
func parseMaxFilesLine(line string) (int, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, false
	}
	if strings.EqualFold(fields[1], "unlimited") {
		return 0, true
	}
	limit, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, false
	}
	return limit, true
}
