package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/pranshuparmar/witr/internal/inspect"
	"github.com/pranshuparmar/witr/internal/source"
	"github.com/pranshuparmar/witr/pkg/model"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func sampleResult() model.Result {
	systemd := model.Process{PID: 1, Command: "systemd"}
	nginx := model.Process{
		PID:        812,
		PPID:       1,
		Command:    "nginx",
		Cmdline:    "nginx -g daemon off;",
		UID:        "0",
		User:       "root",
		StartedAt:  now.Add(-2 * time.Hour),
		Status:     model.StatusSleeping,
		MemoryRSS:  12 * 1024 * 1024,
		CPUPercent: 0.5,
		Service:    "nginx.service",
		WorkingDir: "/srv/site",
		GitRepo:    "site",
		GitBranch:  "main",
		Sockets: []model.SocketInfo{
			{Protocol: "tcp", Port: 80, LocalAddr: "0.0.0.0", State: "LISTEN", Explanation: "Waiting for incoming connections"},
			{Protocol: "tcp6", Port: 443, LocalAddr: "::", State: "LISTEN"},
			{Protocol: "tcp", Port: 80, LocalAddr: "10.0.0.5", RemoteAddr: "10.0.0.9:51000", State: "CLOSE_WAIT", Explanation: "Remote side closed", Workaround: "The application should call close() on the socket"},
		},
		ListeningPorts: []int{80, 443},
		BindAddresses:  []string{"0.0.0.0", "::"},
		Health:         model.HealthHealthy,
		Forked:         model.NotForked,
	}
	return model.Result{
		Target:         model.Target{Type: model.TargetPort, Value: "80"},
		ResolvedTarget: "nginx",
		Process:        nginx,
		RestartCount:   2,
		Ancestry:       []model.Process{systemd, nginx},
		Source:         model.Source{Type: model.SourceSystemd, Name: "nginx.service"},
		Warnings: []string{
			"Running as root",
			"Listening publicly on 0.0.0.0:80",
			"Listening publicly on :::443",
		},
		FileContext:     &model.FileContext{OpenFiles: 900, FileLimit: 1024, LockedFiles: []string{"/run/nginx.pid"}},
		ResourceContext: &model.ResourceContext{PreventsSleep: true, Inhibits: []string{"sleep"}},
	}
}

func TestRelativeTime(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		ago  time.Duration
		want string
	}{
		"seconds":    {ago: 30 * time.Second, want: "just now"},
		"future":     {ago: -time.Minute, want: "just now"},
		"one minute": {ago: 90 * time.Second, want: "1 min ago"},
		"minutes":    {ago: 5 * time.Minute, want: "5 min ago"},
		"one hour":   {ago: time.Hour, want: "1 hour ago"},
		"hours":      {ago: 2 * time.Hour, want: "2 hours ago"},
		"one day":    {ago: 25 * time.Hour, want: "1 day ago"},
		"days":       {ago: 3 * 24 * time.Hour, want: "3 days ago"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, RelativeTime(now.Add(-tc.ago), now))
		})
	}

	assert.Equal(t, "Sun 2026-03-01 12:00:00 +0000", AbsoluteTime(now))
}

func TestRenderShort(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	RenderShort(&buf, sampleResult(), false)
	assert.Equal(t, "systemd (pid 1) → nginx (pid 812)  [systemd (nginx.service)]\n", buf.String())

	buf.Reset()
	RenderShort(&buf, sampleResult(), true)
	assert.Contains(t, buf.String(), "\033[32mnginx\033[0m")
}

func TestPrintTree(t *testing.T) {
	t.Parallel()

	r := sampleResult()
	var children []model.Process
	for pid := 900; pid < 912; pid++ {
		children = append(children, model.Process{PID: pid, PPID: 812, Command: "worker"})
	}

	var buf bytes.Buffer
	PrintTree(&buf, r.Ancestry, children, false)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	assert.Equal(t, "systemd (pid 1)", lines[0])
	assert.Equal(t, "  └─ nginx (pid 812) :80 :443", lines[1])
	assert.Equal(t, "    ├─ worker (pid 900)", lines[2])
	assert.Equal(t, "    └─ ... and 2 more", lines[len(lines)-1])
	assert.Len(t, lines, 2+10+1)
}

func TestPrintChildren(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	PrintChildren(&buf, model.Process{PID: 5, Cmdline: "/usr/bin/app --serve"}, nil, false)
	assert.Equal(t, "Children of /usr/bin/app --serve (pid 5):\nNo child processes found.\n", buf.String())

	buf.Reset()
	PrintChildren(&buf, model.Process{PID: 5, Command: "app"}, []model.Process{{PID: 6, Command: "a"}, {PID: 7}}, false)
	assert.Equal(t, "Children of app (pid 5):\n  ├─ a (pid 6)\n  └─ unknown (pid 7)\n", buf.String())
}

func TestRenderStandard(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	RenderStandard(&buf, sampleResult(), now, false)
	out := buf.String()

	for _, want := range []string{
		"Target      : port 80\n",
		"Process     : nginx (pid 812)\n",
		"User        : root (uid 0)\n",
		"Service     : nginx.service (Restarts: 2)\n",
		"Command     : nginx -g daemon off;\n",
		"Started     : 2 hours ago (Sun 2026-03-01 10:00:00 +0000)\n",
		"Resources   : 12 MiB RSS, 0.5% CPU\n",
		"Why It Exists: systemd (pid 1) → nginx (pid 812)\n",
		"Source      : systemd (nginx.service)\n",
		"Working Dir : /srv/site\n",
		"Git Repo    : site (main)\n",
		"Listening   : 0.0.0.0:80\n",
		"              [::]:443\n",
		"Sockets     : 10.0.0.5:80 → 10.0.0.9:51000 CLOSE_WAIT\n",
		"Hint: The application should call close() on the socket\n",
		"Open Files  : 900 of 1024 (near limit)\n",
		"Locks       : /run/nginx.pid\n",
		"Power       : prevents sleep (sleep)\n",
		"Warnings:\n  • Running as root\n",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "\033[")
}

func TestRenderStandardSanitizes(t *testing.T) {
	t.Parallel()

	r := sampleResult()
	r.Process.Cmdline = "evil\x1b[2Jcmd"

	var buf bytes.Buffer
	RenderStandard(&buf, r, now, true)
	assert.NotContains(t, buf.String(), "\x1b[2J")
	assert.Contains(t, buf.String(), `evil\\x1b[2Jcmd`)
}

func TestRenderWarnings(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	RenderWarnings(&buf, sampleResult(), false)
	assert.Equal(t, "⚠  Running as root\n⚠  Listening publicly on 0.0.0.0:80\n⚠  Listening publicly on :::443\n", buf.String())

	buf.Reset()
	RenderWarnings(&buf, model.Result{Process: model.Process{PID: 3, Command: "sshd"}}, false)
	assert.Equal(t, "No warnings for sshd (pid 3).\n", buf.String())
}

func TestRenderEnvOnly(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	RenderEnvOnly(&buf, model.Process{Cmdline: "app", Env: []string{"HOME=/root", "X=\x07"}}, false)
	assert.Equal(t, "Command     : app\nEnvironment :\n  HOME=/root\n  X=\\\\x07\n", buf.String())

	view := NewEnvView(model.Process{PID: 9, Cmdline: "app"})
	assert.Equal(t, []string{}, view.Env)
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleResult()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	for _, key := range []string{"process", "ancestry", "source", "warnings"} {
		assert.Contains(t, decoded, key)
	}
	assert.Equal(t, map[string]any{"type": "systemd", "name": "nginx.service"}, decoded["source"])
	ancestry := decoded["ancestry"].([]any)
	assert.Equal(t, "systemd", ancestry[0].(map[string]any)["command"])
}

func TestWriteJSONStableLayout(t *testing.T) {
	t.Parallel()

	cupsd := model.Process{PID: 300, PPID: 1, Command: "cupsd", UID: "1000", Status: model.StatusRunning}
	chain := []model.Process{{PID: 1, Command: "init"}, cupsd}
	res := model.Result{
		Process:  cupsd,
		Ancestry: chain,
		Source:   source.Detect(cupsd, chain),
		Warnings: source.Warnings(cupsd, chain, now, source.DefaultOptions()),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, res))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, map[string]any{"type": "system", "name": ""}, decoded["source"])
	assert.Equal(t, []any{}, decoded["warnings"])
}

func TestWriteYAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, sampleResult()))

	var decoded struct {
		Source struct {
			Type string `yaml:"type"`
			Name string `yaml:"name"`
		} `yaml:"source"`
		Warnings []string `yaml:"warnings"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "systemd", decoded.Source.Type)
	assert.Len(t, decoded.Warnings, 3)
	assert.Contains(t, buf.String(), "\n  command: nginx\n")
}

func TestRenderSecurityReport(t *testing.T) {
	t.Parallel()

	shell := model.Result{
		Process:  model.Process{PID: 42, Command: "sh"},
		Ancestry: []model.Process{{PID: 40, Command: "nginx"}, {PID: 42, Command: "sh"}},
		Warnings: []string{
			"Running as root",
			"POTENTIAL REVERSE SHELL: Shell spawned by web server process 'nginx'",
		},
	}
	report := &inspect.ScanReport{ID: "abc", Scanned: 10, Critical: 1, Warning: 1, Findings: []model.Result{shell}}

	var buf bytes.Buffer
	RenderSecurityReport(&buf, report, false)
	out := buf.String()
	assert.Contains(t, out, "[WARNING] PID 42 (sh)\n  Parent: nginx (40)\n  Issue : Running as root\n")
	assert.Contains(t, out, "[CRITICAL] PID 42 (sh)\n")
	assert.Contains(t, out, "  Critical Issues: 1\n  Warnings       : 1\n")

	buf.Reset()
	RenderSecurityReport(&buf, &inspect.ScanReport{ID: "abc"}, false)
	assert.Contains(t, buf.String(), "No security issues found.")
}
