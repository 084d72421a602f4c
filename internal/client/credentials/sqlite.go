package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/console/internal/client/migrations"
	"github.com/dmitrijs2005/console/internal/dbx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// SQLiteStore keeps credentials in the local SQLite database so a
// remembered login survives restarts of the console.
type SQLiteStore struct {
	db  *sql.DB
	q   dbx.DBTX
	now func() time.Time
}

// NewSQLiteStore wraps an already migrated database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, q: db, now: time.Now}
}

// OpenSQLite opens the database at dsn and applies pending migrations.
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential db: %w", err)
	}

	if err := migrations.Run(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return NewSQLiteStore(db), nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var (
		value     string
		expiresAt sql.NullInt64
	)
	err := s.q.QueryRowContext(ctx,
		`SELECT value, expires_at FROM credentials WHERE key = ?`, key).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get credential[%s]: %w", key, err)
	}

	if expiresAt.Valid && !s.now().Before(time.UnixMilli(expiresAt.Int64)) {
		if _, err := s.q.ExecContext(ctx, `DELETE FROM credentials WHERE key = ?`, key); err != nil {
			return "", false, fmt.Errorf("failed to purge expired credential[%s]: %w", key, err)
		}
		return "", false, nil
	}

	return value, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string, opts SetOptions) error {
	var expiresAt sql.NullInt64
	if exp := ExpiryTime(s.now(), opts.ExpiresInDays); !exp.IsZero() {
		expiresAt = sql.NullInt64{Int64: exp.UnixMilli(), Valid: true}
	}

	_, err := s.q.ExecContext(ctx, `
		INSERT INTO credentials (key, path, value, expires_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			path = excluded.path,
			value = excluded.value,
			expires_at = excluded.expires_at
	`, key, normPath(opts.Path), value, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to set credential[%s]: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Remove(ctx context.Context, key string, opts RemoveOptions) error {
	_, err := s.q.ExecContext(ctx,
		`DELETE FROM credentials WHERE key = ? AND path = ?`, key, normPath(opts.Path))
	if err != nil {
		return fmt.Errorf("failed to remove credential[%s]: %w", key, err)
	}
	return nil
}

// Batch runs fn inside a single transaction.
func (s *SQLiteStore) Batch(ctx context.Context, fn func(ctx context.Context, s Store) error) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, &SQLiteStore{db: s.db, q: tx, now: s.now})
	})
}
