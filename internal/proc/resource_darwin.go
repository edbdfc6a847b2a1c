//go:build darwin

package proc

import (
	"context"
	"os/exec"

	"github.com/rs/zerolog"

	"github.com/pranshuparmar/witr/pkg/model"
)

// ResourceContext reports power assertions held by pid.
func (p *darwinProvider) ResourceContext(ctx context.Context, pid int) *model.ResourceContext {
	out, err := exec.CommandContext(ctx, "pmset", "-g", "assertions").Output()
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("pmset assertions")
		return nil
	}
	what := parsePmsetAssertions(string(out), pid)
	if len(what) == 0 {
		return nil
	}
	return &model.ResourceContext{PreventsSleep: true, Inhibits: what}
}
