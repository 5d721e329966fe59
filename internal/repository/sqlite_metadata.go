package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/stempelbot/stempel/internal/db"
)

// SQLiteMetadataRepo implements MetadataRepo over a DBTX.
type SQLiteMetadataRepo struct {
	conn db.DBTX
}

// NewSQLiteMetadataRepo creates a MetadataRepo bound to conn.
func NewSQLiteMetadataRepo(conn db.DBTX) *SQLiteMetadataRepo {
	return &SQLiteMetadataRepo{conn: conn}
}

// Get returns the value for key, or the empty string if the key is unset.
func (r *SQLiteMetadataRepo) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.conn.QueryRowContext(ctx,
		`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading metadata %q: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteMetadataRepo) Set(ctx context.Context, key, value string) error {
	if _, err := r.conn.ExecContext(ctx,
		`INSERT OR REPLACE INTO metadata (key, value) VALUES (?, ?)`,
		key, value); err != nil {
		return fmt.Errorf("writing metadata %q: %w", key, err)
	}
	return nil
}
