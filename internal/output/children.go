package output

import (
	"io"

	"github.com/pranshuparmar/witr/pkg/model"
)

// PrintChildren lists the direct children of root.
func PrintChildren(w io.Writer, root model.Process, children []model.Process, colorEnabled bool) {
	p := NewPrinter(w, colorEnabled)

	p.Printf("%sChildren%s of %s (%spid %d%s):\n", p.c(colorMagenta), p.c(colorReset), displayName(root), p.c(colorDim), root.PID, p.c(colorReset))

	if len(children) == 0 {
		p.Printf("%sNo child processes found.%s\n", p.c(colorGreen), p.c(colorReset))
		return
	}
	printChildLines(p, "  ", children)
}
