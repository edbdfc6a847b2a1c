package model

// FileContext holds file-related context for a process
type FileContext struct {
	// Number of open file descriptors
	OpenFiles int `json:"open_files" yaml:"open_files"`

	// Soft file descriptor limit for the process, 0 if unknown
	FileLimit int `json:"file_limit" yaml:"file_limit"`

	// Files with locks held by this process
	LockedFiles []string `json:"locked_files,omitempty" yaml:"locked_files,omitempty"`
}

// NearLimit reports whether open descriptors exceed 80% of the limit.
func (f FileContext) NearLimit() bool {
	return f.FileLimit > 0 && f.OpenFiles*5 > f.FileLimit*4
}
