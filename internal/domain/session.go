package domain

import "time"

// Session is one tracked work interval for a user. A session with EndedAt
// unset is active; Minutes is set exactly when EndedAt is set. Closed
// sessions are removed only in bulk by the weekly archive transition.
type Session struct {
	ID        int64
	UserID    string
	Username  string
	Activity  string
	StartedAt time.Time
	EndedAt   *time.Time
	Minutes   *int64
}

// Active reports whether the session is still open.
func (s *Session) Active() bool {
	return s.EndedAt == nil
}

// WeeklyArchiveRow is the per-user minute total of one archived week.
type WeeklyArchiveRow struct {
	ID        int64
	UserID    string
	Username  string
	WeekLabel string
	TotalMin  int64
}

// ActivityArchiveRow is the per-(user, week, activity) minute total of one
// archived week. Rows may collide on that key only transiently inside a
// rename or normalization transaction.
type ActivityArchiveRow struct {
	ID        int64
	UserID    string
	Username  string
	WeekLabel string
	Activity  string
	TotalMin  int64
}
