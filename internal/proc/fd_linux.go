//go:build linux

package proc

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"

	"github.com/pranshuparmar/witr/pkg/model"
)

// SocketIDs returns the socket inodes behind /proc/<pid>/fd in ascending fd
// order.
func (p *linuxProvider) SocketIDs(ctx context.Context, pid int) []model.SocketID {
	var ids []model.SocketID
	for _, link := range p.fdLinks(ctx, pid) {
		if inode, ok := strings.CutPrefix(link.target, "socket:["); ok {
			ids = append(ids, model.SocketID(strings.TrimSuffix(inode, "]")))
		}
	}
	return ids
}

type fdLink struct {
	path   string
	target string
}

func (p *linuxProvider) fdLinks(ctx context.Context, pid int) []fdLink {
	fdPath := p.path(pid, "fd")

	entries, err := os.ReadDir(fdPath)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Int("pid", pid).Msg("read fd dir")
		return nil
	}

	// ReadDir sorts by name, which puts fd 10 before fd 2.
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sortFDNames(names)

	links := make([]fdLink, 0, len(names))
	for _, name := range names {
		path := filepath.Join(fdPath, name)
		target, err := os.Readlink(path)
		if err != nil {
			continue
		}
		links = append(links, fdLink{path: path, target: target})
	}
	return links
}

// sortFDNames orders descriptor names numerically. Non-numeric names sort
// last, by name.
func sortFDNames(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		a, errA := strconv.Atoi(names[i])
		b, errB := strconv.Atoi(names[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		return names[i] < names[j]
	})
}

// inodePaths maps the inode of every regular file pid has open to its path.
func (p *linuxProvider) inodePaths(ctx context.Context, pid int) map[uint64]string {
	paths := make(map[uint64]string)
	for _, link := range p.fdLinks(ctx, pid) {
		if !strings.HasPrefix(link.target, "/") {
			continue
		}
		var st unix.Stat_t
		if err := unix.Stat(link.path, &st); err != nil {
			continue
		}
		paths[st.Ino] = link.target
	}
	return paths
}
