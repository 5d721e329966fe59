package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/stempelbot/stempel/internal/domain"
	"github.com/stempelbot/stempel/internal/week"
)

// TestTime is a mid-week instant (Wednesday 14:00) in the reference
// timezone used by fixtures; tests derive Monday boundaries from it.
func TestTime(t *testing.T) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Zurich")
	if err != nil {
		t.Fatalf("loading reference timezone: %v", err)
	}
	return time.Date(2026, time.February, 11, 14, 0, 0, 0, loc)
}

// NewTestClock returns a fixed clock set to TestTime.
func NewTestClock(t *testing.T) *week.Clock {
	t.Helper()
	return week.NewFixedClock(TestTime(t))
}

// NewTestUserID returns a fresh opaque user identifier.
func NewTestUserID() string {
	return uuid.New().String()
}

// SessionOption mutates a fixture session before insertion.
type SessionOption func(*domain.Session)

func WithStartedAt(t time.Time) SessionOption {
	return func(s *domain.Session) { s.StartedAt = t }
}

func WithUsername(name string) SessionOption {
	return func(s *domain.Session) { s.Username = name }
}

// InsertClosedSession writes a closed session directly, bypassing the
// lifecycle services, so window tests can control start instants exactly.
func InsertClosedSession(t *testing.T, database *sql.DB, userID, username, activity string, startedAt time.Time, minutes int64, opts ...SessionOption) int64 {
	t.Helper()
	s := &domain.Session{
		UserID:    userID,
		Username:  username,
		Activity:  activity,
		StartedAt: startedAt,
	}
	for _, opt := range opts {
		opt(s)
	}
	endedAt := s.StartedAt.Add(time.Duration(minutes) * time.Minute)

	res, err := database.Exec(
		`INSERT INTO sessions (user_id, username, activity, started_at, ended_at, minutes)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.UserID, s.Username, s.Activity,
		s.StartedAt.Format(week.TimeLayout), endedAt.Format(week.TimeLayout), minutes)
	if err != nil {
		t.Fatalf("inserting closed session fixture: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("reading fixture session id: %v", err)
	}
	return id
}

// InsertActivityArchiveRow writes an activity_archive row directly.
func InsertActivityArchiveRow(t *testing.T, database *sql.DB, userID, username, weekLabel, activity string, totalMin int64) int64 {
	t.Helper()
	res, err := database.Exec(
		`INSERT INTO activity_archive (user_id, username, week_label, activity, total_min)
		 VALUES (?, ?, ?, ?, ?)`,
		userID, username, weekLabel, activity, totalMin)
	if err != nil {
		t.Fatalf("inserting activity archive fixture: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("reading fixture archive row id: %v", err)
	}
	return id
}

// InsertWeeklyArchiveRow writes a weekly_archive row directly.
func InsertWeeklyArchiveRow(t *testing.T, database *sql.DB, userID, username, weekLabel string, totalMin int64) {
	t.Helper()
	_, err := database.Exec(
		`INSERT INTO weekly_archive (user_id, username, week_label, total_min)
		 VALUES (?, ?, ?, ?)`,
		userID, username, weekLabel, totalMin)
	if err != nil {
		t.Fatalf("inserting weekly archive fixture: %v", err)
	}
}
