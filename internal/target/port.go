package target

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/pranshuparmar/witr/internal/logger"
	"github.com/pranshuparmar/witr/internal/proc"
	"github.com/pranshuparmar/witr/pkg/model"
)

// ResolvePort returns the lowest pid holding a LISTEN socket on port. Forked
// workers sharing the socket have higher pids than the process that bound it.
func (r *Resolver) ResolvePort(ctx context.Context, port int) ([]int, error) {
	r.snapshot.RefreshIfStale(ctx)

	ids := make(map[model.SocketID]bool)
	for id, info := range r.snapshot.Table() {
		if info.Port == port && info.State == "LISTEN" {
			ids[id] = true
		}
	}
	if len(ids) == 0 {
		return nil, errors.Wrapf(proc.ErrProcessNotFound, "no process listening on port %d", port)
	}

	owners := make(map[int]bool)
	for id := range ids {
		if pid, ok := ownerHint(id); ok {
			owners[pid] = true
		}
	}

	if len(owners) == 0 {
		pids, err := r.provider.ListPIDs(ctx)
		if err != nil {
			logger.Logger(ctx).Debug().Err(err).Msg("list pids for port lookup")
		}
		for _, pid := range pids {
			for _, id := range r.provider.SocketIDs(ctx, pid) {
				if ids[id] {
					owners[pid] = true
					break
				}
			}
		}
	}

	if len(owners) == 0 {
		return nil, ErrOwnerNotDetected
	}
	return sortedKeys(owners)[:1], nil
}

// ownerHint extracts the pid from a "pid:port" socket id. Inode ids carry no
// owner and report false.
func ownerHint(id model.SocketID) (int, bool) {
	head, _, found := strings.Cut(string(id), ":")
	if !found {
		return 0, false
	}
	pid, err := strconv.Atoi(head)
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}
