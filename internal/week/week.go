// Package week holds the reference-timezone clock and the week-boundary
// arithmetic shared by the ledger, the aggregator, and the rollup
// scheduler. All stored instants are civil times in one fixed timezone so
// elapsed-time and week-alignment computations stay consistent across
// daylight-saving changes.
package week

import (
	"fmt"
	"time"
)

// TimeLayout is the storage format for civil timestamps.
const TimeLayout = "2006-01-02 15:04:05"

// Clock produces the current time in the reference timezone. Tests inject
// a fixed now function.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock creates a Clock for the given reference location.
func NewClock(loc *time.Location) *Clock {
	return &Clock{loc: loc, now: time.Now}
}

// NewFixedClock creates a Clock whose Now always yields t in t's location.
func NewFixedClock(t time.Time) *Clock {
	return &Clock{loc: t.Location(), now: func() time.Time { return t }}
}

// Now returns the current instant in the reference timezone.
func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// Location returns the reference timezone.
func (c *Clock) Location() *time.Location {
	return c.loc
}

// MondayStart returns Monday 00:00 of t's week, in t's location.
func MondayStart(t time.Time) time.Time {
	daysBack := int(t.Weekday()-time.Monday+7) % 7
	y, m, d := t.AddDate(0, 0, -daysBack).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Label returns the archive label of t's ISO week, e.g. "KW07/2026".
func Label(t time.Time) string {
	year, wk := t.ISOWeek()
	return fmt.Sprintf("KW%02d/%d", wk, year)
}

// NextBoundary returns the next rollup instant: the upcoming Monday 00:00.
// Within the first minute after a boundary the boundary itself is returned,
// so a loop waking slightly late still fires for the week just ended.
func NextBoundary(now time.Time) time.Time {
	monday := MondayStart(now)
	if now.Sub(monday) < time.Minute {
		return monday
	}
	return monday.AddDate(0, 0, 7)
}
