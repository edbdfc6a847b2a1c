package output

import (
	"io"

	"github.com/pranshuparmar/witr/pkg/model"
)

// EnvView is the JSON and YAML shape of --env output.
type EnvView struct {
	PID     int      `json:"pid" yaml:"pid"`
	Command string   `json:"command" yaml:"command"`
	Env     []string `json:"env" yaml:"env"`
}

func NewEnvView(proc model.Process) EnvView {
	env := proc.Env
	if env == nil {
		env = []string{}
	}
	return EnvView{PID: proc.PID, Command: proc.Cmdline, Env: env}
}

// RenderEnvOnly prints only the command and environment variables for a process
func RenderEnvOnly(w io.Writer, proc model.Process, colorEnabled bool) {
	p := NewPrinter(w, colorEnabled)

	p.Printf("%sCommand%s     : %s\n", p.c(colorGreen), p.c(colorReset), proc.Cmdline)
	if len(proc.Env) == 0 {
		p.Printf("%sNo environment variables found.%s\n", p.c(colorRed), p.c(colorReset))
		return
	}
	p.Printf("%sEnvironment%s :\n", p.c(colorBlue), p.c(colorReset))
	for _, env := range proc.Env {
		p.Printf("  %s\n", env)
	}
}
