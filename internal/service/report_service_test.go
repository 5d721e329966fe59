package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stempelbot/stempel/internal/domain"
	"github.com/stempelbot/stempel/internal/repository"
	"github.com/stempelbot/stempel/internal/service"
	"github.com/stempelbot/stempel/internal/testutil"
	"github.com/stempelbot/stempel/internal/week"
)

func TestLeaderboardWindows(t *testing.T) {
	database := testutil.NewTestDB(t)
	clock := testutil.NewTestClock(t)
	now := clock.Now()
	svc := service.NewReportService(repository.NewSQLiteReportRepo(database), clock, 0)
	ctx := context.Background()

	testutil.InsertClosedSession(t, database, "u1", "alice", "work", now.Add(-4*time.Hour), 120)
	testutil.InsertClosedSession(t, database, "u2", "bob", "work", now.Add(-3*time.Hour), 90)
	testutil.InsertWeeklyArchiveRow(t, database, "u3", "carol", "KW06/2026", 500)

	weekly, err := svc.Leaderboard(ctx, domain.WindowCurrentWeek)
	require.NoError(t, err)
	require.Len(t, weekly, 2)
	assert.Equal(t, "alice", weekly[0].Username)

	allTime, err := svc.Leaderboard(ctx, domain.WindowAllTime)
	require.NoError(t, err)
	require.Len(t, allTime, 3)
	assert.Equal(t, "carol", allTime[0].Username)
	assert.Equal(t, int64(500), allTime[0].TotalMinutes)
}

func TestLeaderboardRejectsUnknownWindow(t *testing.T) {
	database := testutil.NewTestDB(t)
	clock := testutil.NewTestClock(t)
	svc := service.NewReportService(repository.NewSQLiteReportRepo(database), clock, 0)

	_, err := svc.Leaderboard(context.Background(), domain.Window("fortnight"))
	assert.Error(t, err)
}

func TestLeaderboardLimit(t *testing.T) {
	database := testutil.NewTestDB(t)
	clock := testutil.NewTestClock(t)
	now := clock.Now()
	svc := service.NewReportService(repository.NewSQLiteReportRepo(database), clock, 2)
	ctx := context.Background()

	testutil.InsertClosedSession(t, database, "u1", "alice", "work", now.Add(-4*time.Hour), 120)
	testutil.InsertClosedSession(t, database, "u2", "bob", "work", now.Add(-3*time.Hour), 90)
	testutil.InsertClosedSession(t, database, "u3", "carol", "work", now.Add(-2*time.Hour), 60)

	entries, err := svc.Leaderboard(ctx, domain.WindowCurrentWeek)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestWeeklySummaryAssembly(t *testing.T) {
	database := testutil.NewTestDB(t)
	clock := testutil.NewTestClock(t)
	now := clock.Now()
	svc := service.NewReportService(repository.NewSQLiteReportRepo(database), clock, 0)
	ctx := context.Background()

	testutil.InsertClosedSession(t, database, "u1", "alice", "work", now.Add(-6*time.Hour), 120)
	testutil.InsertClosedSession(t, database, "u1", "alice", "study", now.Add(-3*time.Hour), 30)
	testutil.InsertClosedSession(t, database, "u2", "bob", "work", now.Add(-2*time.Hour), 45)

	summary, err := svc.WeeklySummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(195), summary.TotalMinutes)
	assert.Equal(t, int64(3), summary.TotalSessions)
	assert.Equal(t, int64(2), summary.UniqueWorkers)

	require.NotNil(t, summary.MVP)
	assert.Equal(t, "alice", summary.MVP.Username)
	assert.Equal(t, int64(150), summary.MVP.Minutes)

	require.NotNil(t, summary.TopActivity)
	assert.Equal(t, "work", summary.TopActivity.Activity)
	assert.Equal(t, int64(165), summary.TopActivity.Minutes)

	require.NotNil(t, summary.LongestSession)
	assert.Equal(t, "alice", summary.LongestSession.Username)
	assert.Equal(t, int64(120), summary.LongestSession.Minutes)

	assert.Len(t, summary.Breakdown, 3)
}

func TestWeeklySummaryEmptyWeek(t *testing.T) {
	database := testutil.NewTestDB(t)
	clock := testutil.NewTestClock(t)
	svc := service.NewReportService(repository.NewSQLiteReportRepo(database), clock, 0)

	summary, err := svc.WeeklySummary(context.Background())
	require.NoError(t, err)
	assert.Zero(t, summary.TotalMinutes)
	assert.Nil(t, summary.MVP)
	assert.Nil(t, summary.TopActivity)
	assert.Nil(t, summary.LongestSession)
	assert.Empty(t, summary.Breakdown)
}

func TestPerUserActivityMinutesWindow(t *testing.T) {
	database := testutil.NewTestDB(t)
	clock := testutil.NewTestClock(t)
	now := clock.Now()
	svc := service.NewReportService(repository.NewSQLiteReportRepo(database), clock, 0)
	ctx := context.Background()

	since := week.MondayStart(now)
	testutil.InsertClosedSession(t, database, "u1", "alice", "work", now.Add(-2*time.Hour), 60)
	// Previous week's session is excluded.
	testutil.InsertClosedSession(t, database, "u1", "alice", "work", since.Add(-time.Hour), 999)

	perUser, err := svc.PerUserActivityMinutes(ctx)
	require.NoError(t, err)
	require.Len(t, perUser["u1"], 1)
	assert.Equal(t, int64(60), perUser["u1"][0].Minutes)
}
