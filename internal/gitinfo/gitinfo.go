// Package gitinfo finds the git working tree a directory belongs to.
package gitinfo

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	cache "github.com/Code-Hex/go-generics-cache"
)

// Info names a repository and its checked-out branch. A detached HEAD is
// reported as the abbreviated commit hash.
type Info struct {
	Repo   string
	Branch string
}

// Detector looks up working trees and remembers answers per directory for
// a bounded time, since every process in a chain tends to share a cwd.
type Detector struct {
	ttl   time.Duration
	cache *cache.Cache[string, Info]
}

// NewDetector returns a Detector reusing answers for ttl.
func NewDetector(ttl time.Duration) *Detector {
	return &Detector{ttl: ttl, cache: cache.New[string, Info]()}
}

// Lookup walks up from dir until it finds a .git entry.
func (d *Detector) Lookup(dir string) (Info, bool) {
	if dir == "" || !filepath.IsAbs(dir) {
		return Info{}, false
	}
	dir = filepath.Clean(dir)
	if info, ok := d.cache.Get(dir); ok {
		return info, info.Repo != ""
	}

	info := find(dir)
	d.cache.Set(dir, info, cache.WithExpiration(d.ttl))
	return info, info.Repo != ""
}

func find(dir string) Info {
	for {
		gitPath := filepath.Join(dir, ".git")
		if fi, err := os.Stat(gitPath); err == nil {
			gitDir := gitPath
			if !fi.IsDir() {
				// worktrees and submodules use a "gitdir: <path>" file
				gitDir = resolveGitFile(gitPath)
			}
			info := Info{Repo: filepath.Base(dir)}
			if head, err := os.ReadFile(filepath.Join(gitDir, "HEAD")); err == nil {
				info.Branch = ParseHead(string(head))
			}
			return info
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Info{}
		}
		dir = parent
	}
}

func resolveGitFile(path string) string {
	raw, err := os.ReadFile(path)
	if err != nil {
		return path
	}
	target, ok := strings.CutPrefix(strings.TrimSpace(string(raw)), "gitdir: ")
	if !ok {
		return path
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	return target
}

// ParseHead turns the content of .git/HEAD into a branch name.
func ParseHead(head string) string {
	head = strings.TrimSpace(head)
	if ref, ok := strings.CutPrefix(head, "ref: "); ok {
		return strings.TrimPrefix(ref, "refs/heads/")
	}
	if len(head) > 7 {
		return head[:7]
	}
	return head
}
