package output

import (
	"io"
	"strings"

	"github.com/pranshuparmar/witr/pkg/model"
)

// childLimit caps how many children a tree lists.
const childLimit = 10

// PrintTree prints the ancestry as an indented tree, then the target's
// direct children one level below it.
func PrintTree(w io.Writer, chain []model.Process, children []model.Process, colorEnabled bool) {
	p := NewPrinter(w, colorEnabled)

	for i, proc := range chain {
		indent := strings.Repeat("  ", i)
		if i > 0 {
			p.Printf("%s%s└─ %s", indent, p.c(colorMagenta), p.c(colorReset))
		}

		cmdColor := ansiString("")
		if i == len(chain)-1 {
			cmdColor = colorGreen
		}
		p.Printf("%s%s%s (%spid %d%s)", p.c(cmdColor), proc.Command, p.c(colorReset), p.c(colorDim), proc.PID, p.c(colorReset))
		if len(proc.ListeningPorts) > 0 {
			p.Printf(" %s%s%s", p.c(colorCyan), portList(proc.ListeningPorts), p.c(colorReset))
		}
		p.Println()
	}

	printChildLines(p, strings.Repeat("  ", len(chain)), children)
}

func printChildLines(p Printer, indent string, children []model.Process) {
	count := len(children)
	for i, child := range children {
		if i >= childLimit {
			p.Printf("%s%s└─ %s... and %d more\n", indent, p.c(colorMagenta), p.c(colorReset), count-childLimit)
			break
		}

		connector := "├─ "
		if i == count-1 {
			connector = "└─ "
		}
		p.Printf("%s%s%s%s%s (%spid %d%s)\n", indent, p.c(colorMagenta), connector, p.c(colorReset), displayName(child), p.c(colorDim), child.PID, p.c(colorReset))
	}
}

// displayName prefers the short command name and falls back to the
// command line.
func displayName(proc model.Process) string {
	switch {
	case proc.Command != "":
		return proc.Command
	case proc.Cmdline != "":
		return proc.Cmdline
	}
	return "unknown"
}
