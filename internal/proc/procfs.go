package proc

import (
	"bufio"
	"strconv"
	"strings"
	"time"
)

// lookupPasswd returns the login name for uid from /etc/passwd content.
func lookupPasswd(passwd, uid string) (string, bool) {
	scanner := bufio.NewScanner(strings.NewReader(passwd))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, ":")
		if len(fields) > 2 && fields[2] == uid && fields[0] != "" {
			return fields[0], true
		}
	}
	return "", false
}

// parseBootTime reads the btime line of /proc/stat.
func parseBootTime(stat string) (time.Time, bool) {
	scanner := bufio.NewScanner(strings.NewReader(stat))
	for scanner.Scan() {
		parts := strings.Fields(scanner.Text())
		if len(parts) < 2 || parts[0] != "btime" {
			continue
		}
		sec, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return time.Time{}, false
		}
		return time.Unix(sec, 0), true
	}
	return time.Time{}, false
}

// parseMaxOpenFiles returns the soft "Max open files" limit from
// /proc/<pid>/limits, or 0 when unknown or unlimited.
func parseMaxOpenFiles(limits string) int {
	scanner := bufio.NewScanner(strings.NewReader(limits))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "Max open files") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 4 {
			return 0
		}
		n, err := strconv.Atoi(parts[3])
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}

// fileLock is one /proc/locks row held by a process.
type fileLock struct {
	Kind   string // POSIX, FLOCK, OFDLCK
	Access string // READ, WRITE
	Inode  uint64
}

// parseLocks returns the locks in /proc/locks owned by pid. Rows of blocked
// waiters ("->") are skipped.
//
//	1: POSIX  ADVISORY  WRITE 1234 08:01:1835043 0 EOF
func parseLocks(locks string, pid int) []fileLock {
	var out []fileLock
	want := strconv.Itoa(pid)

	scanner := bufio.NewScanner(strings.NewReader(locks))
	for scanner.Scan() {
		parts := strings.Fields(scanner.Text())
		if len(parts) < 6 || parts[1] == "->" || parts[4] != want {
			continue
		}
		id := strings.Split(parts[5], ":")
		if len(id) != 3 {
			continue
		}
		inode, err := strconv.ParseUint(id[2], 10, 64)
		if err != nil {
			continue
		}
		out = append(out, fileLock{Kind: parts[1], Access: parts[3], Inode: inode})
	}
	return out
}
