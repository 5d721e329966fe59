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
)

func TestRenameRelabelsAndMerges(t *testing.T) {
	database := testutil.NewTestDB(t)
	clock := testutil.NewTestClock(t)
	now := clock.Now()
	svc := service.NewRenameService(testutil.NewTestUoW(database), clock)
	ctx := context.Background()
	userID := testutil.NewTestUserID()

	testutil.InsertClosedSession(t, database, userID, "alice", "gardening", now.Add(-4*time.Hour), 60)
	testutil.InsertClosedSession(t, database, userID, "alice", "gardening", now.Add(-2*time.Hour), 30)
	testutil.InsertActivityArchiveRow(t, database, userID, "alice", "KW06/2026", "gardening", 60)
	testutil.InsertActivityArchiveRow(t, database, userID, "alice", "KW06/2026", "yard-work", 30)

	result, err := svc.Rename(ctx, userID, "gardening", "YardWork")
	require.NoError(t, err)
	assert.False(t, result.NoOp)
	assert.Equal(t, "yard-work", result.Canonical)
	assert.Equal(t, int64(2), result.SessionsUpdated)
	assert.Equal(t, int64(1), result.ArchiveRowsMerged)

	// Minutes are conserved: the colliding archive rows now sum under one key.
	archive := repository.NewSQLiteArchiveRepo(database)
	rows, err := archive.ActivityRowsByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "yard-work", rows[0].Activity)
	assert.Equal(t, int64(90), rows[0].TotalMin)
}

func TestRenameNoOpWhenLabelsCollide(t *testing.T) {
	database := testutil.NewTestDB(t)
	clock := testutil.NewTestClock(t)
	svc := service.NewRenameService(testutil.NewTestUoW(database), clock)

	result, err := svc.Rename(context.Background(), testutil.NewTestUserID(), "work", "Work")
	require.NoError(t, err)
	assert.True(t, result.NoOp)
	assert.Equal(t, "work", result.Canonical)
	assert.Zero(t, result.SessionsUpdated)
}

func TestRenameUnknownActivity(t *testing.T) {
	database := testutil.NewTestDB(t)
	clock := testutil.NewTestClock(t)
	svc := service.NewRenameService(testutil.NewTestUoW(database), clock)

	_, err := svc.Rename(context.Background(), testutil.NewTestUserID(), "missing", "other")
	assert.ErrorIs(t, err, domain.ErrActivityNotFound)
}

func TestRenameRejectsEmptyNewLabel(t *testing.T) {
	database := testutil.NewTestDB(t)
	clock := testutil.NewTestClock(t)
	svc := service.NewRenameService(testutil.NewTestUoW(database), clock)

	_, err := svc.Rename(context.Background(), testutil.NewTestUserID(), "work", " -- ")
	assert.ErrorIs(t, err, domain.ErrEmptyActivity)
}

func TestRenameScopedToUser(t *testing.T) {
	database := testutil.NewTestDB(t)
	clock := testutil.NewTestClock(t)
	now := clock.Now()
	svc := service.NewRenameService(testutil.NewTestUoW(database), clock)
	ctx := context.Background()
	userID := testutil.NewTestUserID()

	testutil.InsertClosedSession(t, database, userID, "alice", "work", now.Add(-2*time.Hour), 60)
	testutil.InsertClosedSession(t, database, "other", "bob", "work", now.Add(-2*time.Hour), 45)

	_, err := svc.Rename(ctx, userID, "work", "deep-work")
	require.NoError(t, err)

	sessions := repository.NewSQLiteSessionRepo(database, clock.Location())
	found, err := sessions.HasUserActivity(ctx, "other", "work")
	require.NoError(t, err)
	assert.True(t, found)
}
