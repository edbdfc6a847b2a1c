package proc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseInhibitors(t *testing.T) {
	t.Parallel()

	out := "GNOME Shell  1000 user 1234 gnome-shell    handle-lid-switch                    External monitor attached  block\n" +
		"Chrome       1000 user 5555 chrome         sleep:idle                            Playing Audio              delay\n"

	assert.Equal(t, []string{"handle-lid-switch"}, parseInhibitors(out, 1234))
	assert.Equal(t, []string{"sleep", "idle"}, parseInhibitors(out, 5555))
	assert.Empty(t, parseInhibitors(out, 1000))
	assert.Empty(t, parseInhibitors(out, 9999))
}

func TestParsePmsetAssertions(t *testing.T) {
	t.Parallel()

	out := `Assertion status system-wide:
   PreventUserIdleSystemSleep     1
Listed by owning process:
   pid 412(caffeinate): [0x00001a2b00018f77] 00:10:02 PreventUserIdleSystemSleep named: "caffeinate command-line tool"
   pid 412(caffeinate): [0x00001a2b00018f78] 00:10:02 PreventUserIdleDisplaySleep named: "caffeinate command-line tool"
   pid 4120(zoom.us): [0x00001a2b00018f79] 00:01:00 NoDisplaySleepAssertion named: "zoom"
`
	assert.Equal(t, []string{"PreventUserIdleSystemSleep", "PreventUserIdleDisplaySleep"}, parsePmsetAssertions(out, 412))
	assert.Equal(t, []string{"NoDisplaySleepAssertion"}, parsePmsetAssertions(out, 4120))
	assert.Empty(t, parsePmsetAssertions(out, 41))
}
