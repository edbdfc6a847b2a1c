package model

// ResourceContext holds resource usage context for a process
type ResourceContext struct {
	// Whether the process is preventing system sleep
	PreventsSleep bool `json:"prevents_sleep" yaml:"prevents_sleep"`

	// What is being inhibited ("sleep", "idle", "handle-lid-switch", ...)
	Inhibits []string `json:"inhibits,omitempty" yaml:"inhibits,omitempty"`
}
