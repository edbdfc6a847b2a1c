package output

import (
	"fmt"
	"time"
)

// absoluteLayout renders like "Sun 2026-03-01 10:00:00 +0000".
const absoluteLayout = "Mon 2006-01-02 15:04:05 -0700"

// RelativeTime describes how long ago start was, in whole units: "just
// now", "1 min ago", "5 min ago", "1 hour ago", "3 hours ago", "1 day ago",
// "12 days ago". Future times count as just now.
func RelativeTime(start, now time.Time) string {
	secs := int64(now.Sub(start) / time.Second)
	switch {
	case secs < 60:
		return "just now"
	case secs < 120:
		return "1 min ago"
	case secs < 3600:
		return fmt.Sprintf("%d min ago", secs/60)
	case secs < 7200:
		return "1 hour ago"
	case secs < 86400:
		return fmt.Sprintf("%d hours ago", secs/3600)
	case secs < 172800:
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", secs/86400)
}

// AbsoluteTime formats t in its own location.
func AbsoluteTime(t time.Time) string {
	return t.Format(absoluteLayout)
}
