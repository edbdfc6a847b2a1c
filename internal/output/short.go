package output

import (
	"io"

	"github.com/pranshuparmar/witr/internal/source"
	"github.com/pranshuparmar/witr/pkg/model"
)

// RenderShort prints the ancestry on one line, target highlighted, followed
// by the attributed source.
func RenderShort(w io.Writer, r model.Result, colorEnabled bool) {
	p := NewPrinter(w, colorEnabled)

	for i, proc := range r.Ancestry {
		if i > 0 {
			p.Printf("%s → %s", p.c(colorMagenta), p.c(colorReset))
		}

		nameColor := ansiString("")
		if i == len(r.Ancestry)-1 {
			nameColor = colorGreen
		}
		p.Printf("%s%s%s (%spid %d%s)", p.c(nameColor), proc.Command, p.c(colorReset), p.c(colorDim), proc.PID, p.c(colorReset))
	}
	p.Printf("  [%s]\n", source.Describe(r.Source))
}
