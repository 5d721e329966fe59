package repository

import (
	"database/sql"
	"time"

	"github.com/stempelbot/stempel/internal/week"
)

// formatTime renders a civil timestamp for SQLite storage.
func formatTime(t time.Time) string {
	return t.Format(week.TimeLayout)
}

// parseTime reads a stored civil timestamp back into the reference timezone.
func parseTime(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(week.TimeLayout, s, loc)
}

// parseNullableTime converts a nullable timestamp column. Returns nil for
// SQL NULL.
func parseNullableTime(s sql.NullString, loc *time.Location) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := parseTime(s.String, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// nullableInt converts a nullable integer column. Returns nil for SQL NULL.
func nullableInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}
