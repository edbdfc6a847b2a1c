package source

import "strings"

var shells = map[string]bool{
	"bash": true,
	"zsh":  true,
	"sh":   true,
	"fish": true,
	"csh":  true,
	"tcsh": true,
	"ksh":  true,
	"dash": true,
}

// webMarkers identify web servers and application runtimes that should
// never be spawning an interactive shell.
var webMarkers = []string{
	"nginx",
	"httpd",
	"apache",
	"node",
	"php",
	"gunicorn",
	"uwsgi",
	"tomcat",
	"java",
}

// IsShell reports whether a process name looks like a shell interpreter.
// Login shells are listed with a leading dash.
func IsShell(name string) bool {
	name = strings.TrimPrefix(name, "-")
	if shells[name] {
		return true
	}
	return len(name) < 5 && strings.HasSuffix(name, "sh")
}

// IsWebProcess reports whether name contains a web server or runtime marker.
func IsWebProcess(name string) bool {
	name = strings.ToLower(name)
	for _, m := range webMarkers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}
