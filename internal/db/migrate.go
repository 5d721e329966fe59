package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/stempelbot/stempel/internal/normalize"
)

// Metadata keys recorded in the single-row-per-key metadata table.
const (
	// MetaActivitiesNormalized marks the one-time historical label cleanup.
	MetaActivitiesNormalized = "activities_normalized"
	// MetaLastRollupWeek records the label of the last archived week, making
	// the rollup transition idempotent against restarts near the boundary.
	MetaLastRollupWeek = "last_rollup_week"
)

// Migrate runs all schema migrations, then the one-time normalization of
// historical activity labels.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateNormalizeActivities(db); err != nil {
		return fmt.Errorf("normalizing historical activity labels: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id    TEXT    NOT NULL,
		username   TEXT    NOT NULL,
		activity   TEXT    NOT NULL,
		started_at TEXT    NOT NULL,
		ended_at   TEXT,
		minutes    INTEGER
	)`,

	`CREATE TABLE IF NOT EXISTS weekly_archive (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id    TEXT    NOT NULL,
		username   TEXT    NOT NULL,
		week_label TEXT    NOT NULL,
		total_min  INTEGER NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS activity_archive (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id    TEXT    NOT NULL,
		username   TEXT    NOT NULL,
		week_label TEXT    NOT NULL,
		activity   TEXT    NOT NULL,
		total_min  INTEGER NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS metadata (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_ended ON sessions(ended_at)`,
	`CREATE INDEX IF NOT EXISTS idx_weekly_archive_user ON weekly_archive(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_activity_archive_user ON activity_archive(user_id)`,
}

// migrateNormalizeActivities canonicalizes every historical activity label
// in sessions and activity_archive, then merges archive rows that collapsed
// onto the same (user_id, week_label, activity) key. Guarded by a metadata
// flag so it runs exactly once; the whole pass is one transaction.
func migrateNormalizeActivities(db *sql.DB) error {
	ctx := context.Background()

	var flag string
	err := db.QueryRowContext(ctx,
		`SELECT value FROM metadata WHERE key = ?`, MetaActivitiesNormalized).Scan(&flag)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("reading normalization flag: %w", err)
	}
	if flag == "true" {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting normalization transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"sessions", "activity_archive"} {
		if err := normalizeTableActivities(ctx, tx, table); err != nil {
			return err
		}
	}

	if err := mergeDuplicateArchiveRows(ctx, tx); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO metadata (key, value) VALUES (?, 'true')`,
		MetaActivitiesNormalized); err != nil {
		return fmt.Errorf("recording normalization flag: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing normalization: %w", err)
	}
	committed = true
	return nil
}

func normalizeTableActivities(ctx context.Context, tx *sql.Tx, table string) error {
	rows, err := tx.QueryContext(ctx, `SELECT DISTINCT activity FROM `+table)
	if err != nil {
		return fmt.Errorf("listing %s activities: %w", table, err)
	}
	var labels []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			rows.Close()
			return fmt.Errorf("scanning %s activity: %w", table, err)
		}
		labels = append(labels, label)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating %s activities: %w", table, err)
	}

	for _, label := range labels {
		canonical := normalize.Canonicalize(label)
		if canonical == label {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE `+table+` SET activity = ? WHERE activity = ?`,
			canonical, label); err != nil {
			return fmt.Errorf("relabeling %s activity %q: %w", table, label, err)
		}
	}
	return nil
}

// mergeDuplicateArchiveRows folds activity_archive rows sharing a
// (user_id, week_label, activity) key into the row with the lowest id,
// summing their minute totals.
func mergeDuplicateArchiveRows(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `
		UPDATE activity_archive SET total_min = (
			SELECT SUM(a.total_min) FROM activity_archive a
			WHERE a.user_id = activity_archive.user_id
			  AND a.week_label = activity_archive.week_label
			  AND a.activity = activity_archive.activity
		)
		WHERE id IN (
			SELECT MIN(id) FROM activity_archive
			GROUP BY user_id, week_label, activity
			HAVING COUNT(*) > 1
		)`); err != nil {
		return fmt.Errorf("summing duplicate archive rows: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM activity_archive WHERE id NOT IN (
			SELECT MIN(id) FROM activity_archive
			GROUP BY user_id, week_label, activity
		)`); err != nil {
		return fmt.Errorf("deleting duplicate archive rows: %w", err)
	}
	return nil
}
