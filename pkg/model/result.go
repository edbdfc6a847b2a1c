package model

type Result struct {
	Target         Target    `json:"target" yaml:"target"`
	ResolvedTarget string    `json:"resolved_target" yaml:"resolved_target"`
	Process        Process   `json:"process" yaml:"process"`
	RestartCount   int       `json:"restart_count" yaml:"restart_count"`
	Ancestry       []Process `json:"ancestry" yaml:"ancestry"`
	Source         Source    `json:"source" yaml:"source"`
	Warnings       []string  `json:"warnings" yaml:"warnings"`

	// FileContext holds file descriptor and lock info
	FileContext *FileContext `json:"file_context,omitempty" yaml:"file_context,omitempty"`

	// ResourceContext holds sleep inhibition info
	ResourceContext *ResourceContext `json:"resource_context,omitempty" yaml:"resource_context,omitempty"`
}

// Parent returns the immediate parent from the ancestry chain, if known.
func (r Result) Parent() (Process, bool) {
	if len(r.Ancestry) < 2 {
		return Process{}, false
	}
	return r.Ancestry[len(r.Ancestry)-2], true
}
