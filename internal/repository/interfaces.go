package repository

import (
	"context"
	"errors"
	"time"

	"github.com/stempelbot/stempel/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// SessionRepo owns the live sessions table: lifecycle rows plus the bulk
// operations used by rename and the rollup transition.
type SessionRepo interface {
	InsertOpen(ctx context.Context, s *domain.Session) error
	ActiveByUser(ctx context.Context, userID string) (*domain.Session, error)
	HasActive(ctx context.Context, userID string) (bool, error)
	Close(ctx context.Context, id int64, endedAt time.Time, minutes int64) error
	ListActive(ctx context.Context) ([]*domain.Session, error)
	HasUserActivity(ctx context.Context, userID, activity string) (bool, error)
	RelabelActivity(ctx context.Context, userID, oldActivity, newActivity string) (int64, error)
	DeleteClosed(ctx context.Context) (int64, error)
}

// ArchiveRepo owns the weekly_archive and activity_archive tables.
type ArchiveRepo interface {
	InsertWeeklyTotals(ctx context.Context, weekLabel string) (int64, error)
	InsertActivityTotals(ctx context.Context, weekLabel string) (int64, error)
	InsertActivityRow(ctx context.Context, row *domain.ActivityArchiveRow) error
	HasUserActivity(ctx context.Context, userID, activity string) (bool, error)
	RelabelActivity(ctx context.Context, userID, oldActivity, newActivity string) (int64, error)
	MergeDuplicates(ctx context.Context, userID, activity string) (int64, error)
	WeeklyTotalsByLabel(ctx context.Context, weekLabel string) ([]domain.WeeklyArchiveRow, error)
	ActivityRowsByUser(ctx context.Context, userID string) ([]domain.ActivityArchiveRow, error)
}

// ReportRepo serves the read-only aggregation queries. Rows tied on equal
// sums come back in the store's default order; no secondary sort key is
// guaranteed.
type ReportRepo interface {
	WeeklyLeaderboard(ctx context.Context, since time.Time, limit int) ([]domain.LeaderboardEntry, error)
	AllTimeLeaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
	WeeklyBreakdown(ctx context.Context, since time.Time, userID string) ([]domain.ActivityEntry, error)
	AllTimeBreakdown(ctx context.Context, userID string) ([]domain.ActivityEntry, error)
	WeeklyTotals(ctx context.Context, since time.Time) (totalMin, totalSessions, uniqueWorkers int64, err error)
	WeeklyMVP(ctx context.Context, since time.Time) (*domain.UserTotal, error)
	WeeklyTopActivity(ctx context.Context, since time.Time) (*domain.ActivityTotal, error)
	WeeklyLongestSession(ctx context.Context, since time.Time) (*domain.SessionHighlight, error)
	PerUserActivityMinutes(ctx context.Context, since time.Time) (map[string][]domain.ActivityMinutes, error)
}

// MetadataRepo owns the key/value metadata table.
type MetadataRepo interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
