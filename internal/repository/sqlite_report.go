package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/stempelbot/stempel/internal/db"
	"github.com/stempelbot/stempel/internal/domain"
)

// SQLiteReportRepo implements ReportRepo over a DBTX. All queries are
// read-only single passes; grouping happens in SQL, never in mutable
// in-memory maps.
type SQLiteReportRepo struct {
	conn db.DBTX
}

// NewSQLiteReportRepo creates a ReportRepo bound to conn.
func NewSQLiteReportRepo(conn db.DBTX) *SQLiteReportRepo {
	return &SQLiteReportRepo{conn: conn}
}

func (r *SQLiteReportRepo) WeeklyLeaderboard(ctx context.Context, since time.Time, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT user_id, username, SUM(minutes) AS total FROM sessions
		 WHERE ended_at IS NOT NULL AND started_at >= ?
		 GROUP BY user_id ORDER BY total DESC LIMIT ?`,
		formatTime(since), limit)
	if err != nil {
		return nil, fmt.Errorf("querying weekly leaderboard: %w", err)
	}
	defer rows.Close()
	return scanLeaderboard(rows)
}

func (r *SQLiteReportRepo) AllTimeLeaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT user_id, username, SUM(mins) AS total FROM (
			SELECT user_id, username, SUM(minutes) AS mins FROM sessions
				WHERE ended_at IS NOT NULL GROUP BY user_id
			UNION ALL
			SELECT user_id, username, SUM(total_min) AS mins FROM weekly_archive
				GROUP BY user_id
		 ) GROUP BY user_id ORDER BY total DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("querying all-time leaderboard: %w", err)
	}
	defer rows.Close()
	return scanLeaderboard(rows)
}

func (r *SQLiteReportRepo) WeeklyBreakdown(ctx context.Context, since time.Time, userID string) ([]domain.ActivityEntry, error) {
	query := `SELECT user_id, username, activity, SUM(minutes) AS total, COUNT(*) AS sessions
		 FROM sessions
		 WHERE ended_at IS NOT NULL AND started_at >= ?`
	args := []any{formatTime(since)}
	if userID != "" {
		query += ` AND user_id = ?`
		args = append(args, userID)
	}
	query += ` GROUP BY user_id, activity ORDER BY username ASC, total DESC`

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying weekly breakdown: %w", err)
	}
	defer rows.Close()
	return scanActivityEntries(rows)
}

func (r *SQLiteReportRepo) AllTimeBreakdown(ctx context.Context, userID string) ([]domain.ActivityEntry, error) {
	// Archive rows contribute zero session counts; per-session counts are
	// not preserved across the weekly transition.
	query := `SELECT user_id, username, activity, SUM(mins) AS total, SUM(cnt) AS sessions FROM (
			SELECT user_id, username, activity, SUM(minutes) AS mins, COUNT(*) AS cnt
				FROM sessions WHERE ended_at IS NOT NULL
				GROUP BY user_id, activity
			UNION ALL
			SELECT user_id, username, activity, SUM(total_min) AS mins, 0 AS cnt
				FROM activity_archive
				GROUP BY user_id, activity
		 )`
	var args []any
	if userID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ` GROUP BY user_id, activity ORDER BY username ASC, total DESC`

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying all-time breakdown: %w", err)
	}
	defer rows.Close()
	return scanActivityEntries(rows)
}

func (r *SQLiteReportRepo) WeeklyTotals(ctx context.Context, since time.Time) (int64, int64, int64, error) {
	var totalMin, totalSessions, uniqueWorkers int64
	err := r.conn.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(minutes), 0), COUNT(*), COUNT(DISTINCT user_id)
		 FROM sessions WHERE ended_at IS NOT NULL AND started_at >= ?`,
		formatTime(since)).Scan(&totalMin, &totalSessions, &uniqueWorkers)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("querying weekly totals: %w", err)
	}
	return totalMin, totalSessions, uniqueWorkers, nil
}

func (r *SQLiteReportRepo) WeeklyMVP(ctx context.Context, since time.Time) (*domain.UserTotal, error) {
	var mvp domain.UserTotal
	err := r.conn.QueryRowContext(ctx,
		`SELECT username, SUM(minutes) AS total FROM sessions
		 WHERE ended_at IS NOT NULL AND started_at >= ?
		 GROUP BY user_id ORDER BY total DESC LIMIT 1`,
		formatTime(since)).Scan(&mvp.Username, &mvp.Minutes)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying weekly mvp: %w", err)
	}
	return &mvp, nil
}

func (r *SQLiteReportRepo) WeeklyTopActivity(ctx context.Context, since time.Time) (*domain.ActivityTotal, error) {
	var top domain.ActivityTotal
	err := r.conn.QueryRowContext(ctx,
		`SELECT activity, SUM(minutes) AS total FROM sessions
		 WHERE ended_at IS NOT NULL AND started_at >= ?
		 GROUP BY activity ORDER BY total DESC LIMIT 1`,
		formatTime(since)).Scan(&top.Activity, &top.Minutes)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying top activity: %w", err)
	}
	return &top, nil
}

func (r *SQLiteReportRepo) WeeklyLongestSession(ctx context.Context, since time.Time) (*domain.SessionHighlight, error) {
	var hl domain.SessionHighlight
	err := r.conn.QueryRowContext(ctx,
		`SELECT username, activity, minutes FROM sessions
		 WHERE ended_at IS NOT NULL AND started_at >= ?
		 ORDER BY minutes DESC LIMIT 1`,
		formatTime(since)).Scan(&hl.Username, &hl.Activity, &hl.Minutes)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying longest session: %w", err)
	}
	return &hl, nil
}

func (r *SQLiteReportRepo) PerUserActivityMinutes(ctx context.Context, since time.Time) (map[string][]domain.ActivityMinutes, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT user_id, activity, SUM(minutes) AS total FROM sessions
		 WHERE ended_at IS NOT NULL AND started_at >= ?
		 GROUP BY user_id, activity ORDER BY user_id ASC, total DESC`,
		formatTime(since))
	if err != nil {
		return nil, fmt.Errorf("querying per-user activity minutes: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]domain.ActivityMinutes)
	for rows.Next() {
		var userID string
		var am domain.ActivityMinutes
		if err := rows.Scan(&userID, &am.Activity, &am.Minutes); err != nil {
			return nil, fmt.Errorf("scanning activity minutes: %w", err)
		}
		result[userID] = append(result[userID], am)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activity minutes: %w", err)
	}
	return result, nil
}

func scanLeaderboard(rows *sql.Rows) ([]domain.LeaderboardEntry, error) {
	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.TotalMinutes); err != nil {
			return nil, fmt.Errorf("scanning leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating leaderboard entries: %w", err)
	}
	return entries, nil
}

func scanActivityEntries(rows *sql.Rows) ([]domain.ActivityEntry, error) {
	var entries []domain.ActivityEntry
	for rows.Next() {
		var e domain.ActivityEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.Activity, &e.TotalMinutes, &e.SessionCount); err != nil {
			return nil, fmt.Errorf("scanning activity entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activity entries: %w", err)
	}
	return entries, nil
}
