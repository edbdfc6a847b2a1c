// Package launchd resolves the launchd job that owns a process and reads
// the trigger settings from its plist.
package launchd

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Info contains parsed information about a launchd job.
type Info struct {
	Label     string
	PlistPath string
	Domain    string // system, user or gui/<uid>

	RunAtLoad        bool
	KeepAlive        bool
	StartInterval    int // seconds
	WatchPaths       []string
	QueueDirectories []string

	Program          string
	ProgramArguments []string
}

// ParseBlame parses one line of `launchctl blame <pid>`. Real services look
// like "system/com.example.job" or "gui/501/com.example.agent"; anything
// without a slash is a blame reason such as "speculative".
func ParseBlame(out string) (label, domain string, ok bool) {
	line := strings.TrimSpace(out)
	if line == "" || !strings.Contains(line, "/") {
		return "", "", false
	}

	domain, label, _ = strings.Cut(line, "/")
	if domain == "gui" || domain == "user" {
		if uid, rest, found := strings.Cut(label, "/"); found {
			domain += "/" + uid
			label = rest
		}
	}
	if label == "" {
		return "", "", false
	}
	return label, domain, true
}

// ParseList finds pid in `launchctl list` output (PID Status Label).
func ParseList(out string, pid int) (label, domain string, ok bool) {
	want := strconv.Itoa(pid)
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 || fields[0] != want {
			continue
		}
		label = fields[2]
		domain = "user"
		if strings.HasPrefix(label, "com.apple.") {
			domain = "system"
		}
		return label, domain, true
	}
	return "", "", false
}

// ParsePlistXML fills info from an XML plist. Only keys of the root dict
// are read.
func ParsePlistXML(data []byte, info *Info) error {
	decoder := xml.NewDecoder(strings.NewReader(string(data)))

	var currentKey string
	var dictDepth int

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "dict":
				dictDepth++
				if dictDepth > 1 {
					currentKey = ""
				}
			case "key":
				if dictDepth == 1 {
					var key string
					if err := decoder.DecodeElement(&key, &t); err != nil {
						return errors.Wrap(err, "decode plist key")
					}
					currentKey = key
				}
			case "string", "integer":
				if dictDepth == 1 && currentKey != "" {
					var val string
					if err := decoder.DecodeElement(&val, &t); err != nil {
						return errors.Wrapf(err, "decode plist %s", currentKey)
					}
					setScalar(info, currentKey, val)
					currentKey = ""
				}
			case "true", "false":
				if dictDepth == 1 && currentKey != "" {
					setBool(info, currentKey, t.Name.Local == "true")
					currentKey = ""
				}
			case "array":
				if dictDepth == 1 && currentKey != "" {
					setArray(info, currentKey, parseArray(decoder))
					currentKey = ""
				}
			}
		case xml.EndElement:
			if t.Name.Local == "dict" {
				dictDepth--
			}
		}
	}

	return nil
}

func parseArray(decoder *xml.Decoder) []string {
	var result []string
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "array" {
				depth++
			} else if t.Name.Local == "string" {
				var val string
				if decoder.DecodeElement(&val, &t) == nil {
					result = append(result, val)
				}
			}
		case xml.EndElement:
			if t.Name.Local == "array" {
				depth--
			}
		}
	}

	return result
}

func setScalar(info *Info, key, val string) {
	switch key {
	case "Label":
		info.Label = val
	case "Program":
		info.Program = val
	case "StartInterval":
		if i, err := strconv.Atoi(val); err == nil {
			info.StartInterval = i
		}
	}
}

func setBool(info *Info, key string, val bool) {
	switch key {
	case "RunAtLoad":
		info.RunAtLoad = val
	case "KeepAlive":
		info.KeepAlive = val
	}
}

func setArray(info *Info, key string, val []string) {
	switch key {
	case "ProgramArguments":
		info.ProgramArguments = val
	case "WatchPaths":
		info.WatchPaths = val
	case "QueueDirectories":
		info.QueueDirectories = val
	}
}

// Triggers describes what starts the job, in plist order of importance.
func (info *Info) Triggers() []string {
	var triggers []string

	if info.RunAtLoad {
		triggers = append(triggers, "RunAtLoad (starts at login/boot)")
	}
	if info.KeepAlive {
		triggers = append(triggers, "KeepAlive (restarted when it exits)")
	}
	if info.StartInterval > 0 {
		triggers = append(triggers, fmt.Sprintf("StartInterval (every %s)", formatInterval(info.StartInterval)))
	}
	for _, p := range info.WatchPaths {
		triggers = append(triggers, "WatchPaths: "+p)
	}
	for _, p := range info.QueueDirectories {
		triggers = append(triggers, "QueueDirectories: "+p)
	}

	return triggers
}

func formatInterval(seconds int) string {
	switch {
	case seconds < 60:
		return fmt.Sprintf("%ds", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%dm", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%dh", seconds/3600)
	}
	return fmt.Sprintf("%dd", seconds/86400)
}

// DomainDescription names the kind of job the domain implies.
func (info *Info) DomainDescription() string {
	switch {
	case info.Domain == "system":
		return "Launch Daemon"
	case strings.HasPrefix(info.Domain, "gui/"), strings.HasPrefix(info.Domain, "user"):
		return "Launch Agent"
	}
	return "launchd service"
}
