package service

import (
	"context"

	"github.com/stempelbot/stempel/internal/domain"
)

// ClockOutResult reports a completed session back to the command layer.
type ClockOutResult struct {
	Minutes  int64
	Activity string
}

// RenameResult reports the outcome of a rename. NoOp means both labels
// canonicalized to the same key; nothing was mutated and the caller should
// treat this as informational.
type RenameResult struct {
	NoOp              bool
	Canonical         string
	SessionsUpdated   int64
	ArchiveRowsMerged int64
}

// RollupResult reports one archive transition. Skipped means the week label
// was already recorded by a previous transition.
type RollupResult struct {
	WeekLabel       string
	Skipped         bool
	UsersArchived   int64
	ActivityRows    int64
	SessionsCleared int64
	Summary         *domain.WeeklySummary
}

type ClockService interface {
	ClockIn(ctx context.Context, userID, username, rawActivity string) (*domain.Session, error)
	ClockOut(ctx context.Context, userID string) (*ClockOutResult, error)
	ActiveSession(ctx context.Context, userID string) (*domain.Session, error)
	WhoIsActive(ctx context.Context) ([]*domain.Session, error)
}

type ReportService interface {
	Leaderboard(ctx context.Context, window domain.Window) ([]domain.LeaderboardEntry, error)
	ActivityBreakdown(ctx context.Context, window domain.Window, userID string) ([]domain.ActivityEntry, error)
	WeeklySummary(ctx context.Context) (*domain.WeeklySummary, error)
	PerUserActivityMinutes(ctx context.Context) (map[string][]domain.ActivityMinutes, error)
}

type RenameService interface {
	Rename(ctx context.Context, userID, oldRaw, newRaw string) (*RenameResult, error)
}

type RollupService interface {
	Archive(ctx context.Context) (*RollupResult, error)
}

// RoleClassifier is the external scoring collaborator. It consumes a user's
// weekly (activity, minutes) pairs and returns a role label which this core
// neither stores nor validates.
type RoleClassifier interface {
	Classify(ctx context.Context, activities []domain.ActivityMinutes, totalMinutes int64) (string, error)
}
