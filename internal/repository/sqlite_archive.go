package repository

import (
	"context"
	"fmt"

	"github.com/stempelbot/stempel/internal/db"
	"github.com/stempelbot/stempel/internal/domain"
)

// SQLiteArchiveRepo implements ArchiveRepo over a DBTX.
type SQLiteArchiveRepo struct {
	conn db.DBTX
}

// NewSQLiteArchiveRepo creates an ArchiveRepo bound to conn.
func NewSQLiteArchiveRepo(conn db.DBTX) *SQLiteArchiveRepo {
	return &SQLiteArchiveRepo{conn: conn}
}

// InsertWeeklyTotals snapshots each user's closed-session minutes into
// weekly_archive under the given label. Returns the number of users
// archived.
func (r *SQLiteArchiveRepo) InsertWeeklyTotals(ctx context.Context, weekLabel string) (int64, error) {
	res, err := r.conn.ExecContext(ctx,
		`INSERT INTO weekly_archive (user_id, username, week_label, total_min)
		 SELECT user_id, username, ?, SUM(minutes) FROM sessions
		 WHERE ended_at IS NOT NULL GROUP BY user_id`,
		weekLabel)
	if err != nil {
		return 0, fmt.Errorf("archiving weekly totals: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting archived users: %w", err)
	}
	return n, nil
}

// InsertActivityTotals snapshots each (user, activity) pair's closed-session
// minutes into activity_archive under the given label.
func (r *SQLiteArchiveRepo) InsertActivityTotals(ctx context.Context, weekLabel string) (int64, error) {
	res, err := r.conn.ExecContext(ctx,
		`INSERT INTO activity_archive (user_id, username, week_label, activity, total_min)
		 SELECT user_id, username, ?, activity, SUM(minutes) FROM sessions
		 WHERE ended_at IS NOT NULL GROUP BY user_id, activity`,
		weekLabel)
	if err != nil {
		return 0, fmt.Errorf("archiving activity totals: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting archived activity rows: %w", err)
	}
	return n, nil
}

func (r *SQLiteArchiveRepo) InsertActivityRow(ctx context.Context, row *domain.ActivityArchiveRow) error {
	res, err := r.conn.ExecContext(ctx,
		`INSERT INTO activity_archive (user_id, username, week_label, activity, total_min)
		 VALUES (?, ?, ?, ?, ?)`,
		row.UserID, row.Username, row.WeekLabel, row.Activity, row.TotalMin)
	if err != nil {
		return fmt.Errorf("inserting activity archive row: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading activity archive row id: %w", err)
	}
	row.ID = id
	return nil
}

func (r *SQLiteArchiveRepo) HasUserActivity(ctx context.Context, userID, activity string) (bool, error) {
	var found bool
	err := r.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) > 0 FROM activity_archive WHERE user_id = ? AND activity = ?`,
		userID, activity).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("checking archive for activity: %w", err)
	}
	return found, nil
}

func (r *SQLiteArchiveRepo) RelabelActivity(ctx context.Context, userID, oldActivity, newActivity string) (int64, error) {
	res, err := r.conn.ExecContext(ctx,
		`UPDATE activity_archive SET activity = ? WHERE user_id = ? AND activity = ?`,
		newActivity, userID, oldActivity)
	if err != nil {
		return 0, fmt.Errorf("relabeling archive rows: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting relabeled archive rows: %w", err)
	}
	return n, nil
}

// MergeDuplicates folds the user's activity_archive rows that collide on a
// (week_label, activity) key after a relabel. Per colliding group the row
// with the lowest id survives with the group's summed minutes; the rest are
// deleted. Returns the number of rows deleted. Callers run this inside the
// same transaction as the relabel so readers never observe the duplicates.
func (r *SQLiteArchiveRepo) MergeDuplicates(ctx context.Context, userID, activity string) (int64, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT week_label FROM activity_archive
		 WHERE user_id = ? AND activity = ?
		 GROUP BY week_label HAVING COUNT(*) > 1`,
		userID, activity)
	if err != nil {
		return 0, fmt.Errorf("finding duplicate archive groups: %w", err)
	}
	var weekLabels []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scanning duplicate group: %w", err)
		}
		weekLabels = append(weekLabels, label)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterating duplicate groups: %w", err)
	}

	var merged int64
	for _, label := range weekLabels {
		n, err := r.mergeGroup(ctx, userID, label, activity)
		if err != nil {
			return merged, err
		}
		merged += n
	}
	return merged, nil
}

func (r *SQLiteArchiveRepo) mergeGroup(ctx context.Context, userID, weekLabel, activity string) (int64, error) {
	if _, err := r.conn.ExecContext(ctx,
		`UPDATE activity_archive SET total_min = (
			SELECT SUM(total_min) FROM activity_archive
			WHERE user_id = ? AND week_label = ? AND activity = ?
		 )
		 WHERE id = (
			SELECT MIN(id) FROM activity_archive
			WHERE user_id = ? AND week_label = ? AND activity = ?
		 )`,
		userID, weekLabel, activity, userID, weekLabel, activity); err != nil {
		return 0, fmt.Errorf("summing duplicate group: %w", err)
	}

	res, err := r.conn.ExecContext(ctx,
		`DELETE FROM activity_archive
		 WHERE user_id = ? AND week_label = ? AND activity = ?
		   AND id != (
			SELECT MIN(id) FROM activity_archive
			WHERE user_id = ? AND week_label = ? AND activity = ?
		 )`,
		userID, weekLabel, activity, userID, weekLabel, activity)
	if err != nil {
		return 0, fmt.Errorf("deleting duplicate group rows: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting merged rows: %w", err)
	}
	return n, nil
}

func (r *SQLiteArchiveRepo) WeeklyTotalsByLabel(ctx context.Context, weekLabel string) ([]domain.WeeklyArchiveRow, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT id, user_id, username, week_label, total_min
		 FROM weekly_archive WHERE week_label = ? ORDER BY id`,
		weekLabel)
	if err != nil {
		return nil, fmt.Errorf("listing weekly archive rows: %w", err)
	}
	defer rows.Close()

	var result []domain.WeeklyArchiveRow
	for rows.Next() {
		var row domain.WeeklyArchiveRow
		if err := rows.Scan(&row.ID, &row.UserID, &row.Username, &row.WeekLabel, &row.TotalMin); err != nil {
			return nil, fmt.Errorf("scanning weekly archive row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating weekly archive rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteArchiveRepo) ActivityRowsByUser(ctx context.Context, userID string) ([]domain.ActivityArchiveRow, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT id, user_id, username, week_label, activity, total_min
		 FROM activity_archive WHERE user_id = ? ORDER BY id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("listing activity archive rows: %w", err)
	}
	defer rows.Close()

	var result []domain.ActivityArchiveRow
	for rows.Next() {
		var row domain.ActivityArchiveRow
		if err := rows.Scan(&row.ID, &row.UserID, &row.Username, &row.WeekLabel, &row.Activity, &row.TotalMin); err != nil {
			return nil, fmt.Errorf("scanning activity archive row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activity archive rows: %w", err)
	}
	return result, nil
}
