package target

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/pranshuparmar/witr/internal/logger"
	"github.com/pranshuparmar/witr/internal/proc"
)

// ResolveName matches name case-insensitively as a substring of each
// process name, then of its command line. witr itself, its parent and grep
// are never matched. A running service of the same name is preferred when
// it is the only match; a service plus unrelated processes is ambiguous.
func (r *Resolver) ResolveName(ctx context.Context, name string) ([]int, error) {
	lowerName := strings.ToLower(strings.TrimSpace(name))
	if lowerName == "" {
		return nil, errors.New("empty process name")
	}

	pids, err := r.provider.ListPIDs(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list processes")
	}

	matched := make(map[int]bool)
	for _, pid := range pids {
		if pid == r.self || pid == r.parent || lowerName == strconv.Itoa(pid) {
			continue
		}
		p, err := r.provider.FetchProcess(ctx, pid)
		if err != nil {
			logger.Logger(ctx).Debug().Err(err).Int("pid", pid).Msg("skip process during name lookup")
			continue
		}
		if matches(strings.ToLower(p.Command), lowerName) || matches(strings.ToLower(p.Cmdline), lowerName) {
			matched[pid] = true
		}
	}

	if len(matched) == 0 {
		return nil, errors.Wrapf(proc.ErrProcessNotFound, "no running process or service named %q", name)
	}

	servicePID, hasService := r.servicePID(ctx, name)
	if !hasService {
		return sortedKeys(matched), nil
	}

	unique := map[int]bool{servicePID: true}
	for pid := range matched {
		unique[pid] = true
	}
	if len(unique) > 1 {
		return nil, &AmbiguousError{Name: name, ServicePID: servicePID, PIDs: sortedKeys(unique)}
	}
	return []int{servicePID}, nil
}

func matches(haystack, needle string) bool {
	return strings.Contains(haystack, needle) && !strings.Contains(haystack, "grep")
}
