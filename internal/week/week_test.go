package week

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zurich(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Zurich")
	require.NoError(t, err)
	return loc
}

func TestMondayStart(t *testing.T) {
	loc := zurich(t)

	// Wednesday mid-week.
	wed := time.Date(2026, time.February, 11, 14, 0, 0, 0, loc)
	monday := MondayStart(wed)
	assert.Equal(t, time.Date(2026, time.February, 9, 0, 0, 0, 0, loc), monday)
	assert.Equal(t, time.Monday, monday.Weekday())

	// Monday maps to itself at midnight.
	mon := time.Date(2026, time.February, 9, 23, 59, 0, 0, loc)
	assert.Equal(t, time.Date(2026, time.February, 9, 0, 0, 0, 0, loc), MondayStart(mon))

	// Sunday belongs to the preceding Monday.
	sun := time.Date(2026, time.February, 15, 3, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2026, time.February, 9, 0, 0, 0, 0, loc), MondayStart(sun))
}

func TestLabel(t *testing.T) {
	loc := zurich(t)

	assert.Equal(t, "KW07/2026", Label(time.Date(2026, time.February, 11, 14, 0, 0, 0, loc)))

	// ISO week years differ from calendar years at the edges.
	assert.Equal(t, "KW01/2026", Label(time.Date(2025, time.December, 29, 12, 0, 0, 0, loc)))
	assert.Equal(t, "KW53/2026", Label(time.Date(2027, time.January, 1, 12, 0, 0, 0, loc)))
}

func TestNextBoundary(t *testing.T) {
	loc := zurich(t)
	monday := time.Date(2026, time.February, 9, 0, 0, 0, 0, loc)

	// Mid-week targets the upcoming Monday.
	wed := time.Date(2026, time.February, 11, 14, 0, 0, 0, loc)
	assert.Equal(t, monday.AddDate(0, 0, 7), NextBoundary(wed))

	// Within the first minute after the boundary, the boundary itself is
	// still the target so a late wake-up fires for the week just ended.
	justAfter := monday.Add(30 * time.Second)
	assert.Equal(t, monday, NextBoundary(justAfter))

	// Past the first minute, the next week's Monday is the target.
	later := monday.Add(2 * time.Minute)
	assert.Equal(t, monday.AddDate(0, 0, 7), NextBoundary(later))
}

func TestFixedClock(t *testing.T) {
	loc := zurich(t)
	instant := time.Date(2026, time.February, 11, 14, 0, 0, 0, loc)

	clock := NewFixedClock(instant)
	assert.Equal(t, instant, clock.Now())
	assert.Equal(t, loc, clock.Location())
}
