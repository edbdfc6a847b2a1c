package output

import (
	"fmt"
	"io"
)

type ansiString string

// Printer writes terminal-safe output to an io.Writer
// sanitizing any string-like arguments (string, []byte, error, fmt.Stringer).
// Color codes are only emitted when the printer was created with color on.
type Printer struct {
	w     io.Writer
	color bool
}

func NewPrinter(w io.Writer, colorEnabled bool) Printer {
	return Printer{w: w, color: colorEnabled}
}

// c returns code when color is enabled and nothing otherwise.
func (p Printer) c(code ansiString) ansiString {
	if !p.color {
		return ""
	}
	return code
}

// paint sanitizes s and wraps it in code and a reset.
func (p Printer) paint(code ansiString, s string) painted {
	s = SanitizeTerminal(s)
	if !p.color {
		return painted(s)
	}
	return painted(string(code) + s + string(colorReset))
}

func (p Printer) Printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, sanitizePrintArgs(args)...)
}

func (p Printer) Print(args ...any) {
	fmt.Fprint(p.w, sanitizePrintArgs(args)...)
}

func (p Printer) Println(args ...any) {
	fmt.Fprintln(p.w, sanitizePrintArgs(args)...)
}

func sanitizePrintArgs(args []any) []any {
	if len(args) == 0 {
		return nil
	}
	out := make([]any, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case ansiString: // our own ansiString type is allowed to render as-is
			out[i] = string(v)
		case painted:
			out[i] = string(v)
		case string:
			out[i] = SanitizeTerminal(v)
		case []byte:
			out[i] = SanitizeTerminal(string(v))
		case error:
			out[i] = SanitizeTerminal(v.Error())
		case fmt.Stringer:
			out[i] = SanitizeTerminal(v.String())
		default:
			out[i] = a
		}
	}
	return out
}

// painted is text already sanitized and colored by paint.
type painted string

// SafeTerminalWriter sanitizes all bytes written to it so the output is safe to
// display in an interactive terminal, it should be used to print anything that
// we don't control (like processes' args, env vars, ...)
type SafeTerminalWriter struct {
	W io.Writer
}

func (w SafeTerminalWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	_, err := io.WriteString(w.W, SanitizeTerminal(string(p)))
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

func NewSafeTerminalWriter(w io.Writer) io.Writer {
	return SafeTerminalWriter{W: w}
}
