package utils

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// DisplayTimeLayout is how stored times are shown in the site timezone.
const DisplayTimeLayout = "2006-01-02 15:04"

// InLocation converts t to loc, falling back to UTC.
func InLocation(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc)
}

// SubmittedAgo formats the distance between t and now, e.g.
// "Submitted 3 hours ago".
func SubmittedAgo(t, now time.Time) string {
	if t.After(now) {
		t = now
	}
	return fmt.Sprintf("Submitted %s", humanize.RelTime(t, now, "ago", "from now"))
}
