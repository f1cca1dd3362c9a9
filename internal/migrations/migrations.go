// Package migrations applies the embedded goose migrations for the
// Postgres and SQLite backends.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// Up applies every pending migration for the dialect.
func Up(ctx context.Context, db *sql.DB, d Dialect, log *zap.Logger) error {
	var gd goose.Dialect
	switch d {
	case Postgres:
		gd = goose.DialectPostgres
	case SQLite:
		gd = goose.DialectSQLite3
	default:
		return fmt.Errorf("migrations: unknown dialect %q", d)
	}

	sub, err := fs.Sub(files, string(d))
	if err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	p, err := goose.NewProvider(gd, db, sub)
	if err != nil {
		return fmt.Errorf("migrations: new provider: %w", err)
	}

	results, err := p.Up(ctx)
	if err != nil {
		return fmt.Errorf("migrations: up: %w", err)
	}
	if log != nil {
		for _, r := range results {
			log.Info("migration applied",
				zap.String("dialect", string(d)),
				zap.Int64("version", r.Source.Version),
				zap.Duration("took", r.Duration))
		}
	}
	return nil
}
