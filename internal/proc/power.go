package proc

import (
	"bufio"
	"strconv"
	"strings"
)

// parseInhibitors returns what pid inhibits according to
// `systemd-inhibit --list --no-pager --no-legend`. WHO may contain spaces so
// the row is anchored on the PID column, which follows UID and USER.
//
//	GNOME Shell  1000 user 1234 gnome-shell    handle-lid-switch  External monitor  block
func parseInhibitors(out string, pid int) []string {
	var what []string
	want := strconv.Itoa(pid)

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		parts := strings.Fields(scanner.Text())
		for i := 2; i+2 < len(parts); i++ {
			if parts[i] != want {
				continue
			}
			if _, err := strconv.Atoi(parts[i-2]); err != nil {
				continue
			}
			for _, w := range strings.Split(parts[i+2], ":") {
				if w != "" && !contains(what, w) {
					what = append(what, w)
				}
			}
			break
		}
	}
	return what
}

func contains(slice []string, s string) bool {
	for _, item := range slice {
		if item == s {
			return true
		}
	}
	return false
}

// pmsetAssertions are the power assertion types that keep a Mac awake.
var pmsetAssertions = []string{
	"PreventSystemSleep",
	"PreventUserIdleSystemSleep",
	"PreventUserIdleDisplaySleep",
	"NoIdleSleepAssertion",
	"NoDisplaySleepAssertion",
}

// parsePmsetAssertions returns the sleep-preventing assertions pid holds
// according to `pmset -g assertions`.
//
//	pid 412(caffeinate): [0x0001a] 00:10:02 PreventUserIdleSystemSleep named: "caffeinate"
func parsePmsetAssertions(out string, pid int) []string {
	var what []string
	marker := "pid " + strconv.Itoa(pid) + "("

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, marker) {
			continue
		}
		for _, a := range pmsetAssertions {
			if strings.Contains(line, a) && !contains(what, a) {
				what = append(what, a)
			}
		}
	}
	return what
}
