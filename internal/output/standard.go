package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/pranshuparmar/witr/internal/container"
	"github.com/pranshuparmar/witr/internal/source"
	"github.com/pranshuparmar/witr/pkg/model"
)

// socketLimit caps how many non-listening sockets are listed.
const socketLimit = 8

// RenderStandard prints the full explanation of one inspection.
func RenderStandard(w io.Writer, r model.Result, now time.Time, colorEnabled bool) {
	p := NewPrinter(w, colorEnabled)
	proc := r.Process

	p.Printf("%s      : %s\n\n", p.paint(colorBlue+colorBold, "Target"), targetLabel(r))

	p.Printf("%s     : %s (%spid %d%s)", p.paint(colorBlue+colorBold, "Process"), displayName(proc), p.c(colorDim), proc.PID, p.c(colorReset))
	if proc.Health != "" && proc.Health != model.HealthHealthy {
		p.Printf(" %s", p.paint(colorYellow, "["+proc.Health+"]"))
	}
	if proc.Forked == model.Forked {
		p.Printf(" %s", p.paint(colorYellow, "{forked}"))
	}
	p.Println()

	if user := userLabel(proc); user != "" {
		p.Printf("%s        : %s\n", p.paint(colorCyan, "User"), user)
	}
	if proc.Container != "" {
		label := container.ShortID(proc.Container)
		if proc.ContainerName != "" {
			label = proc.ContainerName + " (" + label + ")"
		}
		p.Printf("%s   : %s\n", p.paint(colorCyan, "Container"), label)
	}
	if proc.Service != "" {
		p.Printf("%s     : %s", p.paint(colorCyan, "Service"), proc.Service)
		if r.RestartCount > 0 {
			p.Printf(" %s", p.paint(colorRed, fmt.Sprintf("(Restarts: %d)", r.RestartCount)))
		}
		p.Println()
		if proc.ServiceFile != "" {
			p.Printf("%s   : %s\n", p.paint(colorCyan, "Unit File"), proc.ServiceFile)
		}
		if triggers := r.Source.Details["triggers"]; triggers != "" {
			p.Printf("%s    : %s\n", p.paint(colorCyan, "Triggers"), triggers)
		}
	}
	if cmd := commandLine(proc); cmd != "" {
		p.Printf("%s     : %s\n", p.paint(colorGreen, "Command"), cmd)
	}
	if !proc.StartedAt.IsZero() {
		p.Printf("%s     : %s %s\n", p.paint(colorCyan, "Started"), RelativeTime(proc.StartedAt, now), p.paint(colorDim, "("+AbsoluteTime(proc.StartedAt)+")"))
	}
	if proc.MemoryRSS > 0 || proc.CPUPercent > 0 {
		p.Printf("%s   : %s RSS, %.1f%% CPU\n", p.paint(colorCyan, "Resources"), humanize.IBytes(proc.MemoryRSS), proc.CPUPercent)
	}

	p.Printf("\n%s: ", p.paint(colorBlue+colorBold, "Why It Exists"))
	for i, anc := range r.Ancestry {
		if i > 0 {
			p.Print(" → ")
		}
		p.Printf("%s %s", displayName(anc), p.paint(colorDim, fmt.Sprintf("(pid %d)", anc.PID)))
	}
	p.Println()
	p.Println()

	p.Printf("%s      : %s\n", p.paint(colorCyan, "Source"), source.Describe(r.Source))

	if proc.WorkingDir != "" || proc.GitRepo != "" || len(proc.Sockets) > 0 {
		p.Println()
	}
	if proc.WorkingDir != "" {
		p.Printf("%s : %s\n", p.paint(colorGreen, "Working Dir"), proc.WorkingDir)
	}
	if proc.GitRepo != "" {
		p.Printf("%s    : %s", p.paint(colorCyan, "Git Repo"), proc.GitRepo)
		if proc.GitBranch != "" {
			p.Printf(" %s", p.paint(colorDim, "("+proc.GitBranch+")"))
		}
		p.Println()
	}
	renderSockets(p, proc.Sockets)

	renderFileContext(p, r.FileContext)
	renderResourceContext(p, r.ResourceContext)

	if len(r.Warnings) > 0 {
		p.Printf("\n%s:\n", p.paint(colorRed, "Warnings"))
		for _, warning := range r.Warnings {
			p.Printf("  • %s\n", warning)
		}
	}
}

func renderSockets(p Printer, sockets []model.SocketInfo) {
	first := true
	var other []model.SocketInfo
	for _, s := range sockets {
		if s.State != "LISTEN" {
			other = append(other, s)
			continue
		}
		label := "             "
		if first {
			label = p.paint(colorGreen, "Listening").String() + "   :"
			first = false
		}
		p.Printf("%s %s\n", painted(label), hostPort(s.LocalAddr, s.Port))
	}

	for i, s := range other {
		if i >= socketLimit {
			p.Printf("              ... and %d more\n", len(other)-socketLimit)
			break
		}
		label := "             "
		if i == 0 {
			label = p.paint(colorCyan, "Sockets").String() + "     :"
		}
		p.Printf("%s %s", painted(label), hostPort(s.LocalAddr, s.Port))
		if s.RemoteAddr != "" {
			p.Printf(" → %s", s.RemoteAddr)
		}
		p.Printf(" %s\n", p.paint(colorYellow, s.State))
		if s.Explanation != "" {
			p.Printf("              %s\n", p.paint(colorDim, s.Explanation))
		}
		if s.Workaround != "" {
			p.Printf("              %s\n", p.paint(colorDim, "Hint: "+s.Workaround))
		}
	}
}

func renderFileContext(p Printer, fc *model.FileContext) {
	if fc == nil {
		return
	}
	p.Println()
	if fc.FileLimit > 0 {
		p.Printf("%s  : %d of %d", p.paint(colorCyan, "Open Files"), fc.OpenFiles, fc.FileLimit)
		if fc.NearLimit() {
			p.Printf(" %s", p.paint(colorRed, "(near limit)"))
		}
		p.Println()
	} else {
		p.Printf("%s  : %d\n", p.paint(colorCyan, "Open Files"), fc.OpenFiles)
	}
	for i, f := range fc.LockedFiles {
		if i == 0 {
			p.Printf("%s       : %s\n", p.paint(colorCyan, "Locks"), f)
			continue
		}
		p.Printf("              %s\n", f)
	}
}

func renderResourceContext(p Printer, rc *model.ResourceContext) {
	if rc == nil || !rc.PreventsSleep {
		return
	}
	line := "prevents sleep"
	if len(rc.Inhibits) > 0 {
		line += " (" + strings.Join(rc.Inhibits, ", ") + ")"
	}
	p.Printf("%s       : %s\n", p.paint(colorYellow, "Power"), line)
}

func (s painted) String() string {
	return string(s)
}

func targetLabel(r model.Result) string {
	if r.Target.Value == "" {
		return r.ResolvedTarget
	}
	switch r.Target.Type {
	case model.TargetPort:
		return "port " + r.Target.Value
	case model.TargetPID:
		return "pid " + r.Target.Value
	}
	return r.Target.Value
}

func userLabel(proc model.Process) string {
	switch {
	case proc.User != "" && proc.UID != "":
		return proc.User + " (uid " + proc.UID + ")"
	case proc.User != "":
		return proc.User
	case proc.UID != "":
		return "uid " + proc.UID
	}
	return ""
}

func commandLine(proc model.Process) string {
	if proc.Cmdline != "" {
		return proc.Cmdline
	}
	return strings.Join(proc.Args, " ")
}

func hostPort(addr string, port int) string {
	if strings.Contains(addr, ":") {
		return "[" + addr + "]:" + strconv.Itoa(port)
	}
	return addr + ":" + strconv.Itoa(port)
}

func portList(ports []int) string {
	parts := make([]string, 0, len(ports))
	for _, port := range ports {
		parts = append(parts, ":"+strconv.Itoa(port))
	}
	return strings.Join(parts, " ")
}
