package proc

import "github.com/pranshuparmar/witr/pkg/model"

// Correlate looks up each socket id of a process in the decoded table.
// Listing order is kept. Ids missing from the table belong to sockets that
// closed between enumeration and the table read and are dropped. Exact
// duplicate records are dropped; the same port in a different state is kept.
func Correlate(ids []model.SocketID, table map[model.SocketID]model.SocketInfo) []model.SocketInfo {
	var out []model.SocketInfo
	seen := make(map[model.SocketInfo]bool)
	for _, id := range ids {
		info, ok := table[id]
		if !ok || seen[info] {
			continue
		}
		seen[info] = true
		out = append(out, info)
	}
	return out
}

// ListeningPorts returns the distinct ports of LISTEN sockets and the bind
// address each was first seen on, in listing order.
func ListeningPorts(sockets []model.SocketInfo) ([]int, []string) {
	var (
		ports []int
		addrs []string
	)
	seen := make(map[int]bool)
	for _, s := range sockets {
		if s.State != "LISTEN" || seen[s.Port] {
			continue
		}
		seen[s.Port] = true
		ports = append(ports, s.Port)
		addrs = append(addrs, s.LocalAddr)
	}
	return ports, addrs
}
