package source

import (
	"strings"

	"github.com/pranshuparmar/witr/pkg/model"
)

// knownSupervisors maps supervisor daemon names to the display name used
// for attribution. Init systems are not listed; they are handled by the
// service and system rules.
var knownSupervisors = map[string]string{
	"supervisord":  "supervisord",
	"s6-supervise": "s6",
	"s6-svscan":    "s6",
	"runsv":        "runit",
	"runsvdir":     "runit",
	"supervise":    "daemontools",
	"monit":        "monit",
	"circusd":      "circus",
	"god":          "god",
	"forever":      "forever",
	"nssm":         "nssm",
}

// matchAncestor applies the name heuristics to one ancestor in order: pm2,
// then process supervisors, then cron.
func matchAncestor(p model.Process) (model.Source, bool) {
	name := strings.ToLower(p.Command)

	if strings.Contains(name, "pm2") {
		return model.Source{Type: model.SourcePM2, Name: "pm2"}, true
	}
	if strings.Contains(name, "supervisord") {
		return model.Source{Type: model.SourceSupervisor, Name: "supervisord"}, true
	}
	if label, ok := knownSupervisors[name]; ok {
		return model.Source{Type: model.SourceSupervisor, Name: label}, true
	}
	if strings.Contains(name, "cron") {
		return model.Source{Type: model.SourceCron, Name: "cron"}, true
	}
	return model.Source{}, false
}
