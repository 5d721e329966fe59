package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/stempelbot/stempel/internal/db"
	"github.com/stempelbot/stempel/internal/domain"
)

// SQLiteSessionRepo implements SessionRepo over a DBTX, so the same code
// serves both direct reads and tx-scoped mutations.
type SQLiteSessionRepo struct {
	conn db.DBTX
	loc  *time.Location
}

// NewSQLiteSessionRepo creates a SessionRepo bound to conn. Stored civil
// timestamps are parsed back in loc, the reference timezone.
func NewSQLiteSessionRepo(conn db.DBTX, loc *time.Location) *SQLiteSessionRepo {
	return &SQLiteSessionRepo{conn: conn, loc: loc}
}

func (r *SQLiteSessionRepo) InsertOpen(ctx context.Context, s *domain.Session) error {
	query := `INSERT INTO sessions (user_id, username, activity, started_at)
		VALUES (?, ?, ?, ?)`
	res, err := r.conn.ExecContext(ctx, query,
		s.UserID, s.Username, s.Activity, formatTime(s.StartedAt))
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading session id: %w", err)
	}
	s.ID = id
	return nil
}

func (r *SQLiteSessionRepo) ActiveByUser(ctx context.Context, userID string) (*domain.Session, error) {
	query := `SELECT id, user_id, username, activity, started_at, ended_at, minutes
		FROM sessions WHERE user_id = ? AND ended_at IS NULL`
	row := r.conn.QueryRowContext(ctx, query, userID)
	return r.scanSession(row)
}

func (r *SQLiteSessionRepo) HasActive(ctx context.Context, userID string) (bool, error) {
	var active bool
	err := r.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) > 0 FROM sessions WHERE user_id = ? AND ended_at IS NULL`,
		userID).Scan(&active)
	if err != nil {
		return false, fmt.Errorf("checking active session: %w", err)
	}
	return active, nil
}

func (r *SQLiteSessionRepo) Close(ctx context.Context, id int64, endedAt time.Time, minutes int64) error {
	query := `UPDATE sessions SET ended_at = ?, minutes = ? WHERE id = ?`
	if _, err := r.conn.ExecContext(ctx, query, formatTime(endedAt), minutes, id); err != nil {
		return fmt.Errorf("closing session: %w", err)
	}
	return nil
}

func (r *SQLiteSessionRepo) ListActive(ctx context.Context) ([]*domain.Session, error) {
	query := `SELECT id, user_id, username, activity, started_at, ended_at, minutes
		FROM sessions WHERE ended_at IS NULL ORDER BY started_at`
	rows, err := r.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing active sessions: %w", err)
	}
	defer rows.Close()
	return r.scanSessions(rows)
}

func (r *SQLiteSessionRepo) HasUserActivity(ctx context.Context, userID, activity string) (bool, error) {
	var found bool
	err := r.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) > 0 FROM sessions WHERE user_id = ? AND activity = ?`,
		userID, activity).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("checking sessions for activity: %w", err)
	}
	return found, nil
}

func (r *SQLiteSessionRepo) RelabelActivity(ctx context.Context, userID, oldActivity, newActivity string) (int64, error) {
	res, err := r.conn.ExecContext(ctx,
		`UPDATE sessions SET activity = ? WHERE user_id = ? AND activity = ?`,
		newActivity, userID, oldActivity)
	if err != nil {
		return 0, fmt.Errorf("relabeling sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting relabeled sessions: %w", err)
	}
	return n, nil
}

func (r *SQLiteSessionRepo) DeleteClosed(ctx context.Context) (int64, error) {
	res, err := r.conn.ExecContext(ctx, `DELETE FROM sessions WHERE ended_at IS NOT NULL`)
	if err != nil {
		return 0, fmt.Errorf("deleting closed sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted sessions: %w", err)
	}
	return n, nil
}

func (r *SQLiteSessionRepo) scanSession(row *sql.Row) (*domain.Session, error) {
	var s domain.Session
	var startedStr string
	var endedStr sql.NullString
	var minutes sql.NullInt64

	err := row.Scan(&s.ID, &s.UserID, &s.Username, &s.Activity, &startedStr, &endedStr, &minutes)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("session: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}
	return r.populateSession(&s, startedStr, endedStr, minutes)
}

func (r *SQLiteSessionRepo) scanSessions(rows *sql.Rows) ([]*domain.Session, error) {
	var sessions []*domain.Session
	for rows.Next() {
		var s domain.Session
		var startedStr string
		var endedStr sql.NullString
		var minutes sql.NullInt64

		if err := rows.Scan(&s.ID, &s.UserID, &s.Username, &s.Activity, &startedStr, &endedStr, &minutes); err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}
		session, err := r.populateSession(&s, startedStr, endedStr, minutes)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return sessions, nil
}

func (r *SQLiteSessionRepo) populateSession(s *domain.Session, startedStr string, endedStr sql.NullString, minutes sql.NullInt64) (*domain.Session, error) {
	var err error
	s.StartedAt, err = parseTime(startedStr, r.loc)
	if err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	s.EndedAt, err = parseNullableTime(endedStr, r.loc)
	if err != nil {
		return nil, fmt.Errorf("parsing ended_at: %w", err)
	}
	s.Minutes = nullableInt(minutes)
	return s, nil
}
