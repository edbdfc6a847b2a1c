package proc

import (
	"bufio"
	"path/filepath"
	"strconv"
	"strings"
)

// parseSystemctlStatus extracts the unit name from the "Loaded:" line of
// `systemctl status <pid>`. Per-user manager units (user@*.service) are not
// attributed since every login session lives under one.
func parseSystemctlStatus(out string) (string, bool) {
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "Loaded:") || !strings.Contains(line, ".service") {
			continue
		}
		start := strings.Index(line, "(/")
		if start == -1 {
			continue
		}
		end := strings.Index(line[start:], ";")
		if end == -1 {
			continue
		}
		name := filepath.Base(line[start+1 : start+end])
		if !strings.HasSuffix(name, ".service") || strings.HasPrefix(name, "user@") {
			return "", false
		}
		return name, true
	}
	return "", false
}

// parseSystemdShow reads `systemctl show -p NRestarts -p FragmentPath` output.
func parseSystemdShow(out string) ServiceDetails {
	var d ServiceDetails
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "=")
		if !ok {
			continue
		}
		switch key {
		case "NRestarts":
			if n, err := strconv.Atoi(value); err == nil {
				d.Restarts = n
			}
		case "FragmentPath":
			if value != "/dev/null" {
				d.UnitFile = value
			}
		}
	}
	return d
}
