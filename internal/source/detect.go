// Package source attributes a process to the thing that started it and
// derives health and security warnings from the same facts.
package source

import (
	"strings"

	"github.com/pranshuparmar/witr/pkg/model"
)

// launchdPrefixes are the reverse-DNS prefixes launchd job labels use.
var launchdPrefixes = []string{"com.", "org.", "io.", "net.", "dev.", "homebrew."}

// Detect returns the single most likely origin of p. Rules are tried in
// order and the first match wins:
//
//  1. a service unit ending in ".service" is systemd
//  2. a service label with a reverse-DNS prefix is launchd
//  3. a container id is docker
//  4. an ancestor (root first, excluding p) named like pm2, a process
//     supervisor or cron
//  5. a parent of 1 or no parent is system
//  6. anything else was started manually
//
// chain is the ancestry root-first with p as its last element.
func Detect(p model.Process, chain []model.Process) model.Source {
	src := detect(p, chain)

	details := map[string]string{}
	if p.ServiceFile != "" {
		details["unit_file"] = p.ServiceFile
	}
	if p.ContainerName != "" {
		details["container_name"] = p.ContainerName
	}
	if p.GitRepo != "" {
		details["git_repo"] = p.GitRepo
		if p.GitBranch != "" {
			details["git_branch"] = p.GitBranch
		}
	}
	if len(details) > 0 {
		src.Details = details
	}
	return src
}

func detect(p model.Process, chain []model.Process) model.Source {
	if strings.HasSuffix(p.Service, ".service") {
		return model.Source{Type: model.SourceSystemd, Name: p.Service}
	}
	if p.Service != "" && hasLaunchdPrefix(p.Service) {
		return model.Source{Type: model.SourceLaunchd, Name: p.Service}
	}
	if p.Container != "" {
		return model.Source{Type: model.SourceDocker, Name: p.Container}
	}

	for _, a := range ancestors(p, chain) {
		if src, ok := matchAncestor(a); ok {
			return src
		}
	}

	if p.PPID == 1 || p.PPID == 0 {
		return model.Source{Type: model.SourceSystem}
	}
	return model.Source{Type: model.SourceManual}
}

func hasLaunchdPrefix(label string) bool {
	for _, prefix := range launchdPrefixes {
		if strings.Contains(label, prefix) {
			return true
		}
	}
	return false
}

// ancestors drops p from the tail of chain.
func ancestors(p model.Process, chain []model.Process) []model.Process {
	if n := len(chain); n > 0 && chain[n-1].PID == p.PID {
		return chain[:n-1]
	}
	return chain
}

// RestartCount prefers the service manager's counter. Without one it counts
// how many direct ancestors run the same command as p, which is how
// wrapper scripts that re-exec themselves show up.
func RestartCount(p model.Process, chain []model.Process, serviceRestarts int) int {
	if serviceRestarts > 0 {
		return serviceRestarts
	}
	count := 0
	anc := ancestors(p, chain)
	for i := len(anc) - 1; i >= 0; i-- {
		if anc[i].Command != p.Command {
			break
		}
		count++
	}
	return count
}

// Forked labels p "not-forked" when init (or nothing) is its parent and
// "forked" otherwise.
func Forked(p model.Process) string {
	if p.PPID == 1 || p.PPID == 0 {
		return model.NotForked
	}
	return model.Forked
}

// Describe renders a source for one-line display, e.g. "systemd (nginx.service)".
func Describe(s model.Source) string {
	if s.Name == "" {
		return string(s.Type)
	}
	return string(s.Type) + " (" + s.Name + ")"
}
