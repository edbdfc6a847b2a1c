//go:build darwin

package launchd

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrNotManaged is returned when no named launchd job owns the process.
var ErrNotManaged = errors.New("process not managed by a named launchd job")

var plistSearchPaths = []string{
	"~/Library/LaunchAgents",
	"/Library/LaunchAgents",
	"/Library/LaunchDaemons",
	"/System/Library/LaunchAgents",
	"/System/Library/LaunchDaemons",
}

// Lookup returns the launchd job for pid, with plist details when the plist
// can be found and parsed.
func Lookup(ctx context.Context, pid int) (*Info, error) {
	label, domain, err := serviceLabel(ctx, pid)
	if err != nil {
		return nil, err
	}

	info := &Info{Label: label, Domain: domain}
	path := findPlistPath(label)
	if path == "" {
		return info, nil
	}
	info.PlistPath = path

	out, err := exec.CommandContext(ctx, "plutil", "-convert", "xml1", "-o", "-", path).Output()
	if err != nil {
		return info, nil
	}
	if err := ParsePlistXML(out, info); err != nil {
		return info, nil
	}
	info.Label = label
	info.Domain = domain
	info.PlistPath = path
	return info, nil
}

func serviceLabel(ctx context.Context, pid int) (string, string, error) {
	out, err := exec.CommandContext(ctx, "launchctl", "blame", strconv.Itoa(pid)).Output()
	if err == nil {
		if label, domain, ok := ParseBlame(string(out)); ok {
			return label, domain, nil
		}
	}

	list, err := exec.CommandContext(ctx, "launchctl", "list").Output()
	if err != nil {
		return "", "", errors.Wrap(err, "launchctl list")
	}
	if label, domain, ok := ParseList(string(list), pid); ok {
		return label, domain, nil
	}
	return "", "", errors.Wrapf(ErrNotManaged, "pid %d", pid)
}

func findPlistPath(label string) string {
	homeDir, _ := os.UserHomeDir()

	for _, searchPath := range plistSearchPaths {
		dir := searchPath
		if strings.HasPrefix(dir, "~") {
			dir = filepath.Join(homeDir, dir[1:])
		}
		path := filepath.Join(dir, label+".plist")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}
