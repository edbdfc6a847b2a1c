package source

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"

	"github.com/pranshuparmar/witr/pkg/model"
)

// deletedMarker is appended by the kernel to the exe link of a process
// whose binary was unlinked.
const deletedMarker = " (deleted)"

// Prefixes of security warnings that the security report treats as critical.
const (
	PrefixReverseShell  = "POTENTIAL REVERSE SHELL"
	PrefixBinaryDeleted = "BINARY DELETED"
)

// DefaultSuspiciousPaths are world-writable locations binaries should not
// run from.
var DefaultSuspiciousPaths = []string{"/tmp/**", "/var/tmp/**", "/dev/shm/**"}

// Options configure Warnings.
type Options struct {
	Thresholds      Thresholds
	SuspiciousPaths []glob.Glob
}

// DefaultOptions uses DefaultThresholds and DefaultSuspiciousPaths.
func DefaultOptions() Options {
	paths, _ := CompilePaths(DefaultSuspiciousPaths)
	return Options{Thresholds: DefaultThresholds(), SuspiciousPaths: paths}
}

// CompilePaths compiles path globs with '/' as separator, so "*" stays
// within a directory and "**" crosses directories.
func CompilePaths(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, errors.Wrapf(err, "compile path pattern %q", pattern)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// Warnings lists everything worth flagging about p, in a fixed order:
// health, root, public listeners, deleted binary, suspicious location,
// uptime, reverse shell. chain is the ancestry root-first ending in p.
func Warnings(p model.Process, chain []model.Process, now time.Time, opts Options) []string {
	warnings := []string{}

	if health := Health(p, now, opts.Thresholds); health != model.HealthHealthy {
		warnings = append(warnings, "Process is "+health)
	}

	if p.UID == "0" {
		warnings = append(warnings, "Running as root")
	}

	for _, addr := range publicListeners(p) {
		warnings = append(warnings, "Listening publicly on "+addr)
	}

	exe := p.Exe
	if strings.HasSuffix(exe, deletedMarker) {
		exe = strings.TrimSuffix(exe, deletedMarker)
		warnings = append(warnings, fmt.Sprintf("%s: %s was removed from disk while running", PrefixBinaryDeleted, exe))
	}

	if exe != "" {
		for _, g := range opts.SuspiciousPaths {
			if g.Match(exe) {
				warnings = append(warnings, fmt.Sprintf("SUSPICIOUS LOCATION: %s runs from a world-writable directory", exe))
				break
			}
		}
	}

	if opts.Thresholds.LongRunning > 0 && p.Age(now) > opts.Thresholds.LongRunning {
		days := int(opts.Thresholds.LongRunning / day)
		warnings = append(warnings, fmt.Sprintf("Process has been running for over %d days", days))
	}

	if parent, ok := reverseShellParent(p, chain); ok {
		warnings = append(warnings, fmt.Sprintf("%s: Shell spawned by web server process '%s'", PrefixReverseShell, parent))
	}

	return warnings
}

// publicListeners returns "addr:port" for every socket bound to a wildcard
// address, first from the socket list then from the listening-port
// projection, without repeats.
func publicListeners(p model.Process) []string {
	var out []string
	seen := make(map[string]bool)

	add := func(addr string, port int) {
		if port <= 0 || !isWildcard(addr) {
			return
		}
		key := addr + ":" + strconv.Itoa(port)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, key)
	}

	for _, s := range p.Sockets {
		add(s.LocalAddr, s.Port)
	}
	for i, port := range p.ListeningPorts {
		if i < len(p.BindAddresses) {
			add(p.BindAddresses[i], port)
		}
	}
	return out
}

func isWildcard(addr string) bool {
	if addr == "0.0.0.0" || addr == "::" {
		return true
	}
	ip := net.ParseIP(addr)
	return ip != nil && ip.IsUnspecified()
}

// reverseShellParent reports the parent name when p is a shell whose
// immediate parent is a web server or runtime.
func reverseShellParent(p model.Process, chain []model.Process) (string, bool) {
	if !IsShell(p.Command) || len(chain) < 2 {
		return "", false
	}
	parent := chain[len(chain)-2]
	if !IsWebProcess(parent.Command) {
		return "", false
	}
	return parent.Command, true
}

// IsCritical reports whether a warning belongs in the critical tier of a
// security report.
func IsCritical(warning string) bool {
	return strings.HasPrefix(warning, PrefixReverseShell) ||
		strings.HasPrefix(warning, PrefixBinaryDeleted) ||
		strings.Contains(warning, "CRITICAL")
}
