package domain

// Window selects the aggregation range for leaderboards and breakdowns.
type Window string

const (
	WindowCurrentWeek Window = "current_week"
	WindowAllTime     Window = "all_time"
)

// LeaderboardEntry is one user's minute total within a window.
type LeaderboardEntry struct {
	UserID       string
	Username     string
	TotalMinutes int64
}

// ActivityEntry is one (user, activity) total within a window. SessionCount
// is zero for contributions that come from archive rows, which do not carry
// per-session counts.
type ActivityEntry struct {
	UserID       string
	Username     string
	Activity     string
	TotalMinutes int64
	SessionCount int64
}

// ActivityMinutes is a (canonical activity, minutes) pair handed to the
// external role classifier.
type ActivityMinutes struct {
	Activity string
	Minutes  int64
}

// UserTotal pairs a username with a minute total.
type UserTotal struct {
	Username string
	Minutes  int64
}

// ActivityTotal pairs an activity with a minute total.
type ActivityTotal struct {
	Activity string
	Minutes  int64
}

// SessionHighlight identifies a single standout session.
type SessionHighlight struct {
	Username string
	Activity string
	Minutes  int64
}

// WeeklySummary covers the current week's closed sessions. The top facts
// are computed independently of each other; all are nil when the week has
// no closed sessions.
type WeeklySummary struct {
	TotalMinutes   int64
	TotalSessions  int64
	UniqueWorkers  int64
	MVP            *UserTotal
	TopActivity    *ActivityTotal
	LongestSession *SessionHighlight
	Breakdown      []ActivityEntry
}
