package proc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSystemctlStatus(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		out  string
		unit string
		ok   bool
	}{
		"service": {
			out: "● nginx.service - A high performance web server\n" +
				"     Loaded: loaded (/lib/systemd/system/nginx.service; enabled; vendor preset: enabled)\n" +
				"     Active: active (running) since Mon 2023-01-16 10:00:00 UTC\n",
			unit: "nginx.service",
			ok:   true,
		},
		"init script": {
			out: "Loaded: loaded (/etc/init.d/apache2; generated)\n",
		},
		"user manager": {
			out: "   Loaded: loaded (/lib/systemd/system/user@.service; static)\n",
		},
		"scope": {
			out: "   Loaded: loaded (/run/systemd/transient/session-2.scope; transient)\n",
		},
		"empty": {},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			unit, ok := parseSystemctlStatus(tc.out)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.unit, unit)
		})
	}
}

func TestParseSystemdShow(t *testing.T) {
	t.Parallel()

	got := parseSystemdShow("NRestarts=5\nFragmentPath=/lib/systemd/system/nginx.service\n")
	assert.Equal(t, ServiceDetails{UnitFile: "/lib/systemd/system/nginx.service", Restarts: 5}, got)

	got = parseSystemdShow("NRestarts=oops\nFragmentPath=/dev/null\n")
	assert.Equal(t, ServiceDetails{}, got)
}
