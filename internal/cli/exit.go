package cli

import "fmt"

// ExitError is returned by commands that have already reported the problem
// to the user and only need main to exit with code.
type ExitError struct {
	code    int
	message string
}

func exitWith(code int, message string) *ExitError {
	return &ExitError{code: code, message: message}
}

func (e *ExitError) Error() string {
	if e == nil {
		return ""
	}
	if e.message != "" {
		return e.message
	}
	return fmt.Sprintf("exit %d", e.code)
}

func (e *ExitError) Code() int {
	if e == nil {
		return 1
	}
	return e.code
}

// Message is what main should still print to stderr, if anything.
func (e *ExitError) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}
