package output

import (
	"io"

	"github.com/pranshuparmar/witr/internal/inspect"
	"github.com/pranshuparmar/witr/internal/source"
)

// RenderSecurityReport prints one block per warning, critical first in
// severity color, followed by summary counts.
func RenderSecurityReport(w io.Writer, report *inspect.ScanReport, colorEnabled bool) {
	p := NewPrinter(w, colorEnabled)

	p.Printf("%sSECURITY SCAN REPORT%s\n", p.c(colorBlue+colorBold), p.c(colorReset))
	p.Printf("%s====================%s\n", p.c(colorBlue+colorBold), p.c(colorReset))
	p.Printf("%sScan %s: %d processes inspected%s\n\n", p.c(colorDim), report.ID, report.Scanned, p.c(colorReset))

	if len(report.Findings) == 0 {
		p.Printf("%sNo security issues found. System looks clean (based on basic heuristics).%s\n", p.c(colorGreen), p.c(colorReset))
		return
	}

	for _, res := range report.Findings {
		for _, warning := range res.Warnings {
			label, code := "WARNING", colorBoldYel
			if source.IsCritical(warning) {
				label, code = "CRITICAL", colorBoldRed
			}
			p.Printf("[%s%s%s] PID %d (%s%s%s)\n", p.c(code), label, p.c(colorReset), res.Process.PID, p.c(colorCyan), displayName(res.Process), p.c(colorReset))
			if parent, ok := res.Parent(); ok {
				p.Printf("  Parent: %s (%d)\n", displayName(parent), parent.PID)
			}
			p.Printf("  Issue : %s\n\n", warning)
		}
	}

	p.Println("Summary:")
	if report.Critical > 0 {
		p.Printf("  Critical Issues: %s%d%s\n", p.c(colorBoldRed), report.Critical, p.c(colorReset))
	}
	p.Printf("  Warnings       : %d\n", report.Warning)
	if report.Failed > 0 {
		p.Printf("  Not inspected  : %d\n", report.Failed)
	}
}
