// Package database opens the SQL handles used by the catalog and
// selection services and applies their migrations.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"PhoneCompare/internal/migrations"
)

const sqlitePragmas = "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

// OpenPostgres connects through the pgx stdlib driver, waits up to timeout
// for the server and migrates the schema.
func OpenPostgres(ctx context.Context, url string, timeout time.Duration, log *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := ping(ctx, db, timeout); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres unreachable: %w", err)
	}
	if err := migrations.Up(ctx, db, migrations.Postgres, log); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// OpenSQLite opens path in WAL mode and migrates the schema. ":memory:"
// gets a single connection so every query sees the same database.
func OpenSQLite(ctx context.Context, path string, log *zap.Logger) (*sql.DB, error) {
	dsn := path
	if path != ":memory:" {
		dsn += sqlitePragmas
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := ping(ctx, db, 2*time.Second); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite unavailable: %w", err)
	}
	if err := migrations.Up(ctx, db, migrations.SQLite, log); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func ping(ctx context.Context, db *sql.DB, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return db.PingContext(ctx)
}
