package output

import (
	"io"

	"github.com/pranshuparmar/witr/internal/source"
	"github.com/pranshuparmar/witr/pkg/model"
)

// RenderWarnings prints only the warnings of r, critical ones in red.
func RenderWarnings(w io.Writer, r model.Result, colorEnabled bool) {
	p := NewPrinter(w, colorEnabled)

	if len(r.Warnings) == 0 {
		p.Printf("%sNo warnings for %s (pid %d).%s\n", p.c(colorGreen), displayName(r.Process), r.Process.PID, p.c(colorReset))
		return
	}
	for _, warning := range r.Warnings {
		code := colorYellow
		if source.IsCritical(warning) {
			code = colorBoldRed
		}
		p.Printf("%s⚠%s  %s\n", p.c(code), p.c(colorReset), warning)
	}
}
