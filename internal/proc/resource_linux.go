//go:build linux

package proc

import (
	"context"
	"os/exec"

	"github.com/rs/zerolog"

	"github.com/pranshuparmar/witr/pkg/model"
)

// ResourceContext reports systemd inhibitor locks taken by pid.
func (p *linuxProvider) ResourceContext(ctx context.Context, pid int) *model.ResourceContext {
	out, err := exec.CommandContext(ctx, "systemd-inhibit", "--list", "--no-pager", "--no-legend").Output()
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("systemd-inhibit")
		return nil
	}
	what := parseInhibitors(string(out), pid)
	if len(what) == 0 {
		return nil
	}
	return &model.ResourceContext{PreventsSleep: true, Inhibits: what}
}
