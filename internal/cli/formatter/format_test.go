package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stempelbot/stempel/internal/domain"
)

func TestDuration(t *testing.T) {
	assert.Equal(t, "0m", Duration(0))
	assert.Equal(t, "45m", Duration(45))
	assert.Equal(t, "1h 0m", Duration(60))
	assert.Equal(t, "3h 20m", Duration(200))
}

func TestLeaderboardEmpty(t *testing.T) {
	out := Leaderboard("This week", nil)
	assert.Contains(t, out, "This week")
	assert.Contains(t, out, "no data yet")
}

func TestLeaderboardRanks(t *testing.T) {
	out := Leaderboard("This week", []domain.LeaderboardEntry{
		{Username: "alice", TotalMinutes: 120},
		{Username: "bob", TotalMinutes: 90},
	})
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "2h 0m")
	assert.Contains(t, out, "bob")
	assert.Contains(t, out, "1h 30m")
}

func TestBreakdownGroupsByUser(t *testing.T) {
	out := Breakdown([]domain.ActivityEntry{
		{Username: "alice", Activity: "work", TotalMinutes: 90, SessionCount: 2},
		{Username: "alice", Activity: "study", TotalMinutes: 20, SessionCount: 1},
		{Username: "bob", Activity: "work", TotalMinutes: 45, SessionCount: 1},
	})
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "bob")
	assert.Contains(t, out, "(2 sessions)")
}

func TestSummaryOmitsMissingFacts(t *testing.T) {
	out := Summary(&domain.WeeklySummary{})
	assert.Contains(t, out, "This week")
	assert.NotContains(t, out, "mvp")
	assert.NotContains(t, out, "longest session")
}
