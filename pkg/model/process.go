package model

import "time"

// ProcessStatus is the lifecycle state reported by the OS.
type ProcessStatus string

const (
	StatusRunning  ProcessStatus = "running"
	StatusSleeping ProcessStatus = "sleeping"
	StatusStopped  ProcessStatus = "stopped"
	StatusZombie   ProcessStatus = "zombie"
	StatusOther    ProcessStatus = "other"
)

// Health labels, first match wins (see source.Health).
const (
	HealthHealthy     = "healthy"
	HealthZombie      = "zombie"
	HealthStopped     = "stopped"
	HealthHighMem     = "high-mem"
	HealthHighCPU     = "high-cpu"
	HealthLongRunning = "long-running"
)

// Forked labels.
const (
	Forked    = "forked"
	NotForked = "not-forked"
)

// Process is one process as seen at snapshot time. PPID 0 means the parent
// is absent or unknown. Values are never mutated once handed out by a
// fetcher.
type Process struct {
	PID       int           `json:"pid" yaml:"pid"`
	PPID      int           `json:"ppid,omitempty" yaml:"ppid,omitempty"`
	Command   string        `json:"command" yaml:"command"`
	Args      []string      `json:"args,omitempty" yaml:"args,omitempty"`
	Cmdline   string        `json:"cmdline,omitempty" yaml:"cmdline,omitempty"`
	Exe       string        `json:"exe,omitempty" yaml:"exe,omitempty"`
	UID       string        `json:"uid,omitempty" yaml:"uid,omitempty"`
	User      string        `json:"user,omitempty" yaml:"user,omitempty"`
	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	Status    ProcessStatus `json:"status" yaml:"status"`

	CPUPercent float64 `json:"cpu_percent" yaml:"cpu_percent"`
	MemoryRSS  uint64  `json:"memory_rss" yaml:"memory_rss"`

	WorkingDir    string `json:"working_dir,omitempty" yaml:"working_dir,omitempty"`
	GitRepo       string `json:"git_repo,omitempty" yaml:"git_repo,omitempty"`
	GitBranch     string `json:"git_branch,omitempty" yaml:"git_branch,omitempty"`
	Container     string `json:"container,omitempty" yaml:"container,omitempty"`
	ContainerName string `json:"container_name,omitempty" yaml:"container_name,omitempty"`
	Service       string `json:"service,omitempty" yaml:"service,omitempty"`
	ServiceFile   string `json:"service_file,omitempty" yaml:"service_file,omitempty"`

	// Network context
	Sockets        []SocketInfo `json:"sockets,omitempty" yaml:"sockets,omitempty"`
	ListeningPorts []int        `json:"listening_ports,omitempty" yaml:"listening_ports,omitempty"`
	BindAddresses  []string     `json:"bind_addresses,omitempty" yaml:"bind_addresses,omitempty"`

	// Health status ("healthy", "zombie", "stopped", "high-mem", "high-cpu", "long-running")
	Health string `json:"health" yaml:"health"`

	// Forked status ("forked", "not-forked")
	Forked string `json:"forked" yaml:"forked"`

	// Environment variables (key=value)
	Env []string `json:"env,omitempty" yaml:"env,omitempty"`
}

// HasParent reports whether the parent link is known.
func (p Process) HasParent() bool {
	return p.PPID > 0
}

// Age returns how long the process has been running at now.
func (p Process) Age(now time.Time) time.Duration {
	if p.StartedAt.IsZero() {
		return 0
	}
	return now.Sub(p.StartedAt)
}
