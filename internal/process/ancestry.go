// Package process walks parent links from a process to the root of its
// ancestry.
package process

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/pranshuparmar/witr/pkg/model"
)

// FetchFunc returns the record for one pid.
type FetchFunc func(ctx context.Context, pid int) (model.Process, error)

// ResolveAncestry follows parent links from pid and returns the chain
// root-first with pid last. A fetch error ends the walk and keeps what was
// collected, so a vanished ancestor only truncates the chain. Revisiting a
// pid ends the walk without appending it again. The chain is empty only if
// pid itself could not be fetched.
func ResolveAncestry(ctx context.Context, pid int, fetch FetchFunc) []model.Process {
	var chain []model.Process
	seen := make(map[int]bool)

	current := pid
	for current > 0 {
		if seen[current] {
			break // loop protection
		}
		seen[current] = true

		if ctx.Err() != nil {
			break
		}

		p, err := fetch(ctx, current)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Err(err).Int("pid", current).Msg("ancestry truncated")
			break
		}
		chain = append(chain, p)

		if !p.HasParent() {
			break
		}
		current = p.PPID
	}

	return reverse(chain)
}

func reverse(in []model.Process) []model.Process {
	for i, j := 0, len(in)-1; i < j; i, j = i+1, j-1 {
		in[i], in[j] = in[j], in[i]
	}
	return in
}
