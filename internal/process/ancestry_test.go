package process

import (
	"context"
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pranshuparmar/witr/pkg/model"
)

var errGone = errors.New("gone")

// table builds a fetcher over a pid -> ppid map. Pids absent from the map
// fail like a process that exited.
func table(parents map[int]int) (FetchFunc, *int) {
	calls := 0
	return func(_ context.Context, pid int) (model.Process, error) {
		calls++
		ppid, ok := parents[pid]
		if !ok {
			return model.Process{}, errGone
		}
		return model.Process{PID: pid, PPID: ppid, Command: fmt.Sprintf("p%d", pid)}, nil
	}, &calls
}

func pids(chain []model.Process) []int {
	out := make([]int, 0, len(chain))
	for _, p := range chain {
		out = append(out, p.PID)
	}
	return out
}

func TestResolveAncestryAcyclic(t *testing.T) {
	t.Parallel()

	for k := 1; k <= 12; k++ {
		t.Run(fmt.Sprintf("length %d", k), func(t *testing.T) {
			t.Parallel()

			// pid i has parent i-1; pid 1 is the root
			parents := map[int]int{}
			want := make([]int, 0, k)
			for i := 1; i <= k; i++ {
				parents[i] = i - 1
				want = append(want, i)
			}

			fetch, _ := table(parents)
			chain := ResolveAncestry(context.Background(), k, fetch)
			require.Len(t, chain, k)
			assert.Equal(t, want, pids(chain))
			assert.Equal(t, k, chain[len(chain)-1].PID)

			for i := 1; i < len(chain); i++ {
				assert.Equal(t, chain[i-1].PID, chain[i].PPID, "parent link at %d", i)
			}
		})
	}
}

func TestResolveAncestryCycles(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		parents map[int]int
		start   int
		want    []int
	}{
		"self parent": {
			parents: map[int]int{7: 7},
			start:   7,
			want:    []int{7},
		},
		"two cycle": {
			parents: map[int]int{10: 20, 20: 10},
			start:   10,
			want:    []int{20, 10},
		},
		"cycle above target": {
			parents: map[int]int{5: 4, 4: 3, 3: 2, 2: 4},
			start:   5,
			want:    []int{2, 3, 4, 5},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			fetch, calls := table(tc.parents)
			chain := ResolveAncestry(context.Background(), tc.start, fetch)
			assert.Equal(t, tc.want, pids(chain))
			assert.LessOrEqual(t, *calls, len(tc.parents), "fetched a pid twice")

			seen := map[int]bool{}
			for _, p := range chain {
				assert.False(t, seen[p.PID], "duplicate pid %d", p.PID)
				seen[p.PID] = true
			}
		})
	}
}

func TestResolveAncestryTruncation(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		parents map[int]int
		start   int
		want    []int
	}{
		"vanished ancestor": {
			parents: map[int]int{300: 200, 200: 100},
			start:   300,
			want:    []int{200, 300},
		},
		"root has no parent": {
			parents: map[int]int{1: 0},
			start:   1,
			want:    []int{1},
		},
		"target missing": {
			parents: map[int]int{1: 0},
			start:   42,
			want:    []int{},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			fetch, _ := table(tc.parents)
			chain := ResolveAncestry(context.Background(), tc.start, fetch)
			assert.Equal(t, tc.want, pids(chain))
		})
	}
}

func TestResolveAncestryCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetch, calls := table(map[int]int{2: 1, 1: 0})
	assert.Empty(t, ResolveAncestry(ctx, 2, fetch))
	assert.Zero(t, *calls)
}
