package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stempelbot/stempel/internal/db"
	"github.com/stempelbot/stempel/internal/domain"
	"github.com/stempelbot/stempel/internal/repository"
	"github.com/stempelbot/stempel/internal/service"
	"github.com/stempelbot/stempel/internal/testutil"
	"github.com/stempelbot/stempel/internal/week"
)

func TestArchiveSnapshotsAndClears(t *testing.T) {
	database := testutil.NewTestDB(t)
	clock := testutil.NewTestClock(t)
	now := clock.Now()
	ctx := context.Background()

	svc := service.NewRollupService(
		repository.NewSQLiteMetadataRepo(database),
		repository.NewSQLiteReportRepo(database),
		testutil.NewTestUoW(database), clock)

	testutil.InsertClosedSession(t, database, "u1", "alice", "work", now.Add(-5*time.Hour), 120)
	testutil.InsertClosedSession(t, database, "u1", "alice", "study", now.Add(-3*time.Hour), 30)
	testutil.InsertClosedSession(t, database, "u2", "bob", "work", now.Add(-2*time.Hour), 45)

	result, err := svc.Archive(ctx)
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.Equal(t, "KW07/2026", result.WeekLabel)
	assert.Equal(t, int64(2), result.UsersArchived)
	assert.Equal(t, int64(3), result.ActivityRows)
	assert.Equal(t, int64(3), result.SessionsCleared)

	require.NotNil(t, result.Summary)
	assert.Equal(t, int64(195), result.Summary.TotalMinutes)
	assert.Equal(t, int64(3), result.Summary.TotalSessions)
	require.NotNil(t, result.Summary.MVP)
	assert.Equal(t, "alice", result.Summary.MVP.Username)

	// Per-user totals moved into the archive intact.
	archive := repository.NewSQLiteArchiveRepo(database)
	rows, err := archive.WeeklyTotalsByLabel(ctx, "KW07/2026")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	totals := map[string]int64{}
	for _, row := range rows {
		totals[row.UserID] = row.TotalMin
	}
	assert.Equal(t, int64(150), totals["u1"])
	assert.Equal(t, int64(45), totals["u2"])
}

func TestArchiveConservesAllTimeTotals(t *testing.T) {
	database := testutil.NewTestDB(t)
	clock := testutil.NewTestClock(t)
	now := clock.Now()
	ctx := context.Background()
	reports := repository.NewSQLiteReportRepo(database)

	svc := service.NewRollupService(
		repository.NewSQLiteMetadataRepo(database),
		reports, testutil.NewTestUoW(database), clock)

	testutil.InsertClosedSession(t, database, "u1", "alice", "work", now.Add(-5*time.Hour), 120)
	testutil.InsertClosedSession(t, database, "u2", "bob", "study", now.Add(-2*time.Hour), 45)
	testutil.InsertWeeklyArchiveRow(t, database, "u1", "alice", "KW06/2026", 60)

	before, err := reports.AllTimeLeaderboard(ctx, 15)
	require.NoError(t, err)

	_, err = svc.Archive(ctx)
	require.NoError(t, err)

	after, err := reports.AllTimeLeaderboard(ctx, 15)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestArchiveKeepsOpenSessions(t *testing.T) {
	database := testutil.NewTestDB(t)
	clock := testutil.NewTestClock(t)
	now := clock.Now()
	ctx := context.Background()
	userID := testutil.NewTestUserID()

	sessions := repository.NewSQLiteSessionRepo(database, clock.Location())
	svc := service.NewRollupService(
		repository.NewSQLiteMetadataRepo(database),
		repository.NewSQLiteReportRepo(database),
		testutil.NewTestUoW(database), clock)

	open := &domain.Session{UserID: userID, Username: "alice", Activity: "work", StartedAt: now.Add(-time.Hour)}
	require.NoError(t, sessions.InsertOpen(ctx, open))
	testutil.InsertClosedSession(t, database, "u2", "bob", "study", now.Add(-2*time.Hour), 45)

	result, err := svc.Archive(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.SessionsCleared)

	// The open session crosses the boundary with its start instant intact.
	active, err := sessions.ActiveByUser(ctx, userID)
	require.NoError(t, err)
	assert.True(t, active.StartedAt.Equal(open.StartedAt))
}

func TestArchiveSkipsRecordedWeek(t *testing.T) {
	database := testutil.NewTestDB(t)
	clock := testutil.NewTestClock(t)
	now := clock.Now()
	ctx := context.Background()

	svc := service.NewRollupService(
		repository.NewSQLiteMetadataRepo(database),
		repository.NewSQLiteReportRepo(database),
		testutil.NewTestUoW(database), clock)

	testutil.InsertClosedSession(t, database, "u1", "alice", "work", now.Add(-2*time.Hour), 60)

	first, err := svc.Archive(ctx)
	require.NoError(t, err)
	assert.False(t, first.Skipped)

	// A second run for the same week archives nothing.
	testutil.InsertClosedSession(t, database, "u1", "alice", "work", now.Add(-time.Hour), 30)
	second, err := svc.Archive(ctx)
	require.NoError(t, err)
	assert.True(t, second.Skipped)
	assert.Equal(t, first.WeekLabel, second.WeekLabel)

	archive := repository.NewSQLiteArchiveRepo(database)
	rows, err := archive.WeeklyTotalsByLabel(ctx, first.WeekLabel)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestArchiveAtBoundaryLabelsEndedWeek(t *testing.T) {
	database := testutil.NewTestDB(t)
	now := testutil.TestTime(t)
	ctx := context.Background()

	// Fire exactly at the next Monday 00:00, as the scheduler does.
	boundary := week.MondayStart(now).AddDate(0, 0, 7)
	clock := week.NewFixedClock(boundary)

	svc := service.NewRollupService(
		repository.NewSQLiteMetadataRepo(database),
		repository.NewSQLiteReportRepo(database),
		testutil.NewTestUoW(database), clock)

	testutil.InsertClosedSession(t, database, "u1", "alice", "work", now, 60)

	result, err := svc.Archive(ctx)
	require.NoError(t, err)

	// The label and summary belong to the week that just ended, not the
	// week beginning at the boundary.
	assert.Equal(t, "KW07/2026", result.WeekLabel)
	assert.Equal(t, int64(60), result.Summary.TotalMinutes)

	var recorded string
	err = database.QueryRow(`SELECT value FROM metadata WHERE key = ?`, db.MetaLastRollupWeek).Scan(&recorded)
	require.NoError(t, err)
	assert.Equal(t, "KW07/2026", recorded)
}
