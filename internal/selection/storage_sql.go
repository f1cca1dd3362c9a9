package selection

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

// Dialect picks placeholder syntax for SQLStorage.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// SQLStorage stores lists in the selection_state table created by the
// migrations. Postgres and SQLite share the same upsert statement.
type SQLStorage struct {
	db *sql.DB

	getSQL    string
	setSQL    string
	deleteSQL string
}

func NewSQLStorage(db *sql.DB, d Dialect) *SQLStorage {
	p1, p2 := "$1", "$2"
	if d == DialectSQLite {
		p1, p2 = "?", "?"
	}

	return &SQLStorage{
		db:     db,
		getSQL: `SELECT value FROM selection_state WHERE key = ` + p1,
		setSQL: `INSERT INTO selection_state (key, value, updated_at)
			VALUES (` + p1 + `, ` + p2 + `, CURRENT_TIMESTAMP)
			ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		deleteSQL: `DELETE FROM selection_state WHERE key = ` + p1,
	}
}

func (s *SQLStorage) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *SQLStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var v string
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, s.getSQL, key).Scan(&v)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(v), true, nil
}

func (s *SQLStorage) Set(ctx context.Context, key string, value []byte) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, s.setSQL, key, string(value))
		return err
	})
}

func (s *SQLStorage) Delete(ctx context.Context, key string) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, s.deleteSQL, key)
		return err
	})
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
