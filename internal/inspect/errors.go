package inspect

import "github.com/pranshuparmar/witr/internal/proc"

// Failure kinds surfaced by inspection. Test with errors.Is.
var (
	ErrProcessNotFound = proc.ErrProcessNotFound
	ErrUnknown         = proc.ErrUnknown
)
