package model

// SocketID correlates a process to a connection-table row. It is a kernel
// socket inode on Linux and a synthetic "pid:port" key elsewhere. Only
// meaningful within one snapshot.
type SocketID string

// SocketInfo holds information about a socket's state
type SocketInfo struct {
	Protocol   string `json:"protocol,omitempty" yaml:"protocol,omitempty"`
	Port       int    `json:"port" yaml:"port"`
	State      string `json:"state" yaml:"state"` // LISTEN, TIME_WAIT, CLOSE_WAIT, ESTABLISHED, etc.
	LocalAddr  string `json:"local_addr" yaml:"local_addr"`
	RemoteAddr string `json:"remote_addr,omitempty" yaml:"remote_addr,omitempty"`

	// Human-readable explanation of the state
	Explanation string `json:"explanation" yaml:"explanation"`
	// Suggested workaround if applicable
	Workaround string `json:"workaround,omitempty" yaml:"workaround,omitempty"`
}
