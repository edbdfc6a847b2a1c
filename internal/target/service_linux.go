//go:build linux

package target

import (
	"context"
	"os/exec"
	"strconv"
	"strings"
)

// serviceMainPID asks systemd for the main pid of name or name.service.
func serviceMainPID(ctx context.Context, name string) (int, bool) {
	svcName := name
	if !strings.HasSuffix(svcName, ".service") {
		svcName += ".service"
	}
	out, err := exec.CommandContext(ctx, "systemctl", "show", "-p", "MainPID", "--value", "--", svcName).Output()
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil || pid == 0 {
		return 0, false
	}
	return pid, true
}
