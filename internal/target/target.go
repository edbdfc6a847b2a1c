// Package target turns what the user typed (a pid, a port or a name) into
// the pids to inspect.
package target

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/pranshuparmar/witr/internal/proc"
	"github.com/pranshuparmar/witr/pkg/model"
)

// ErrOwnerNotDetected means a listening socket exists but no visible process
// holds it, usually because the caller lacks permission to read other
// users' descriptors.
var ErrOwnerNotDetected = errors.New("socket found but owning process not detected")

// AmbiguousError is returned by name resolution when the name matches a
// running service and other processes at once.
type AmbiguousError struct {
	Name       string
	ServicePID int
	PIDs       []int
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous target %q matches %d processes", e.Name, len(e.PIDs))
}

// Resolver resolves targets against one provider and host snapshot.
type Resolver struct {
	provider proc.Provider
	snapshot *proc.Snapshot

	self, parent int
	servicePID   func(ctx context.Context, name string) (int, bool)
}

func NewResolver(provider proc.Provider, snapshot *proc.Snapshot) *Resolver {
	return &Resolver{
		provider:   provider,
		snapshot:   snapshot,
		self:       os.Getpid(),
		parent:     os.Getppid(),
		servicePID: serviceMainPID,
	}
}

// Resolve returns the candidate pids for t in ascending order. Only a
// missing process or listener is reported as proc.ErrProcessNotFound.
func (r *Resolver) Resolve(ctx context.Context, t model.Target) ([]int, error) {
	switch t.Type {
	case model.TargetPID:
		pid, err := strconv.Atoi(strings.TrimSpace(t.Value))
		if err != nil || pid <= 0 {
			return nil, errors.Errorf("invalid pid %q", t.Value)
		}
		return r.ResolvePID(ctx, pid)
	case model.TargetPort:
		port, err := strconv.Atoi(strings.TrimSpace(t.Value))
		if err != nil || port <= 0 || port > 65535 {
			return nil, errors.Errorf("invalid port %q", t.Value)
		}
		return r.ResolvePort(ctx, port)
	case model.TargetName:
		return r.ResolveName(ctx, t.Value)
	}
	return nil, errors.Errorf("unknown target type %q", t.Type)
}

func (r *Resolver) ResolvePID(ctx context.Context, pid int) ([]int, error) {
	if _, err := r.provider.FetchProcess(ctx, pid); err != nil {
		return nil, err
	}
	return []int{pid}, nil
}

func sortedKeys(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for pid := range set {
		out = append(out, pid)
	}
	sort.Ints(out)
	return out
}
