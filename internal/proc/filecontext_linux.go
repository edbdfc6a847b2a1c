//go:build linux

package proc

import (
	"context"
	"os"

	"github.com/pranshuparmar/witr/pkg/model"
)

// FileContext counts open descriptors, reads the soft fd limit and lists
// the files pid holds locks on. Returns nil when the fd table is unreadable.
func (p *linuxProvider) FileContext(ctx context.Context, pid int) *model.FileContext {
	entries, err := os.ReadDir(p.path(pid, "fd"))
	if err != nil {
		return nil
	}

	fc := &model.FileContext{OpenFiles: len(entries)}
	if raw, err := os.ReadFile(p.path(pid, "limits")); err == nil {
		fc.FileLimit = parseMaxOpenFiles(string(raw))
	}

	raw, err := os.ReadFile(p.procRoot + "/locks")
	if err != nil {
		return fc
	}
	locks := parseLocks(string(raw), pid)
	if len(locks) == 0 {
		return fc
	}

	paths := p.inodePaths(ctx, pid)
	for _, l := range locks {
		name, ok := paths[l.Inode]
		if !ok {
			continue
		}
		if !contains(fc.LockedFiles, name) {
			fc.LockedFiles = append(fc.LockedFiles, name)
		}
	}
	return fc
}
