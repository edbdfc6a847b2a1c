package proc

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/pranshuparmar/witr/pkg/model"
)

// lsofEntry keeps listing order, which a map cannot.
type lsofEntry struct {
	pid  int
	id   model.SocketID
	info model.SocketInfo
}

// DecodeLsof decodes `lsof -i TCP -n -P -F pfPnT` output into a table keyed
// by "pid:port". When one process owns several sockets on the same local
// port (a listener and its accepted connections) the later ones get a
// "#n" suffix so none of them is lost.
func DecodeLsof(raw string) map[model.SocketID]model.SocketInfo {
	entries := decodeLsofEntries(raw)
	table := make(map[model.SocketID]model.SocketInfo, len(entries))
	for _, e := range entries {
		table[e.id] = e.info
	}
	return table
}

func decodeLsofEntries(raw string) []lsofEntry {
	var (
		entries  []lsofEntry
		pid      int
		protocol string
		pending  *model.SocketInfo
	)
	seen := make(map[model.SocketID]int)

	flush := func() {
		if pending == nil {
			return
		}
		info := *pending
		pending = nil
		info.State = NormalizeState(info.State)
		Explain(&info)

		base := model.SocketID(strconv.Itoa(pid) + ":" + strconv.Itoa(info.Port))
		id := base
		seen[base]++
		if n := seen[base]; n > 1 {
			id = model.SocketID(string(base) + "#" + strconv.Itoa(n))
		}
		entries = append(entries, lsofEntry{pid: pid, id: id, info: info})
	}

	scanner := bufio.NewScanner(strings.NewReader(raw))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		value := line[1:]
		switch line[0] {
		case 'p':
			flush()
			n, err := strconv.Atoi(value)
			if err != nil {
				pid = 0
				continue
			}
			pid = n
		case 'f':
			flush()
		case 'P':
			protocol = strings.ToLower(value)
		case 'n':
			flush()
			if pid <= 0 {
				continue
			}
			local, remote, _ := strings.Cut(value, "->")
			addr, port := parseNetstatAddr(local)
			if port <= 0 {
				continue
			}
			pending = &model.SocketInfo{
				Protocol:   protocol,
				Port:       port,
				LocalAddr:  addr,
				RemoteAddr: remote,
			}
		case 'T':
			if pending != nil {
				if state, ok := strings.CutPrefix(value, "ST="); ok {
					pending.State = state
				}
			}
		}
	}
	flush()

	return entries
}

// parseNetstatAddr parses addresses like "*:8080", "*.8080",
// "127.0.0.1:8080", "127.0.0.1.8080" and "[::1]:8080".
func parseNetstatAddr(addr string) (string, int) {
	if strings.HasPrefix(addr, "[") {
		bracketEnd := strings.LastIndex(addr, "]")
		if bracketEnd == -1 {
			return "", 0
		}
		ip := addr[1:bracketEnd]
		rest := addr[bracketEnd+1:]
		if len(rest) > 1 && (rest[0] == ':' || rest[0] == '.') {
			if port, err := strconv.Atoi(rest[1:]); err == nil {
				if ip == "" {
					ip = "::"
				}
				return ip, port
			}
		}
		return "", 0
	}

	if strings.HasPrefix(addr, "*") {
		if len(addr) > 2 && (addr[1] == ':' || addr[1] == '.') {
			if port, err := strconv.Atoi(addr[2:]); err == nil {
				return "0.0.0.0", port
			}
		}
		return "", 0
	}

	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		if port, err := strconv.Atoi(addr[idx+1:]); err == nil {
			return addr[:idx], port
		}
	}

	// BSD netstat separates the port with a dot
	if idx := strings.LastIndex(addr, "."); idx != -1 {
		if port, err := strconv.Atoi(addr[idx+1:]); err == nil {
			return addr[:idx], port
		}
	}

	return "", 0
}

// lsofLockChars are the lock-status characters lsof reports in its "l"
// field for a file under a read, write or mixed lock.
const lsofLockChars = "rRwWuUxXN"

// parseLsofFiles counts descriptors in `lsof -p <pid> -F fln` output and
// collects the names of files that carry a lock.
func parseLsofFiles(raw string) (int, []string) {
	var (
		open   int
		locked []string
		lock   bool
	)

	scanner := bufio.NewScanner(strings.NewReader(raw))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		switch line[0] {
		case 'f':
			open++
			lock = false
		case 'l':
			lock = len(line) > 1 && strings.ContainsRune(lsofLockChars, rune(line[1]))
		case 'n':
			if lock && !contains(locked, line[1:]) {
				locked = append(locked, line[1:])
			}
		}
	}
	return open, locked
}
