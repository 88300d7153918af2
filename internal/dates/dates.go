// Package dates fixes one calendar-day definition for the whole backend.
// Streak math breaks in subtle off-by-one ways when callers mix day formats,
// so everything above the HTTP boundary works with Day values only.
package dates

import (
	"fmt"
	"strings"
	"time"
)

// ReportingTZ is the timezone all "today" computations are anchored to.
// The historical deployments ran with TZ=Asia/Kolkata.
const ReportingTZ = "Asia/Kolkata"

// Layout is the canonical wire and storage form, ISO calendar date.
const Layout = "2006-01-02"

// legacyLayout is the DD-MM-YYYY form older persisted documents carry.
// Accepted on input, never emitted.
const legacyLayout = "02-01-2006"

var reportingLoc = func() *time.Location {
	loc, err := time.LoadLocation(ReportingTZ)
	if err != nil {
		return time.UTC
	}
	return loc
}()

// Day is a timezone-naive calendar date in canonical YYYY-MM-DD form.
// The zero value "" means unset.
type Day string

func Today() Day {
	return FromTime(time.Now())
}

func FromTime(t time.Time) Day {
	return Day(t.In(reportingLoc).Format(Layout))
}

// Parse accepts the canonical layout and the legacy DD-MM-YYYY layout.
func Parse(s string) (Day, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if t, err := time.Parse(Layout, s); err == nil {
		return Day(t.Format(Layout)), nil
	}
	if t, err := time.Parse(legacyLayout, s); err == nil {
		return Day(t.Format(Layout)), nil
	}
	return "", fmt.Errorf("unrecognized date %q", s)
}

func (d Day) IsZero() bool { return d == "" }

func (d Day) String() string { return string(d) }

func (d Day) Time() time.Time {
	t, err := time.Parse(Layout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// Before reports whether d is an earlier calendar day than other.
func (d Day) Before(other Day) bool {
	return !d.IsZero() && !other.IsZero() && string(d) < string(other)
}

// DaysBetween returns to minus from in whole calendar days.
// Both days being valid is the caller's responsibility; an unset side yields 0.
func DaysBetween(from, to Day) int {
	if from.IsZero() || to.IsZero() {
		return 0
	}
	diff := to.Time().Sub(from.Time())
	return int(diff.Hours() / 24)
}
