package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
	searchLimit  = 50
)

// PostgresSource reads the products table created by the migrations.
type PostgresSource struct {
	db *sql.DB
}

func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

const productColumns = `id, name, brand, image, specs, release_date, weight, url`

func (s *PostgresSource) Search(ctx context.Context, query string) ([]ProductDetail, error) {
	term := normalizeQuery(query)
	if term == "" {
		return nil, nil
	}
	pattern := "%" + escapeLike(term) + "%"

	var out []ProductDetail
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT `+productColumns+`
			FROM products p
			WHERE p.name ILIKE $1
			   OR p.brand ILIKE $1
			   OR EXISTS (SELECT 1 FROM jsonb_each_text(p.specs) s WHERE s.value ILIKE $1)
			ORDER BY p.position ASC, p.id ASC
			LIMIT $2
		`, pattern, searchLimit)
		if err != nil {
			return err
		}
		defer rows.Close()

		out, err = scanProducts(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresSource) Get(ctx context.Context, id string) (ProductDetail, bool, error) {
	var (
		p     ProductDetail
		found bool
	)

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT `+productColumns+`
			FROM products
			WHERE id = $1
		`, id)
		if err != nil {
			return err
		}
		defer rows.Close()

		ps, err := scanProducts(rows)
		if err != nil {
			return err
		}
		if len(ps) > 0 {
			p, found = ps[0], true
		}
		return nil
	})
	if err != nil {
		return ProductDetail{}, false, err
	}
	return p, found, nil
}

func (s *PostgresSource) Trending(ctx context.Context) ([]ProductDetail, error) {
	var out []ProductDetail
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT `+productColumns+`
			FROM products
			WHERE trending_rank IS NOT NULL
			ORDER BY trending_rank ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out, err = scanProducts(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Seed upserts products in the given order and marks trendingIDs with their
// rank. Used to bootstrap an empty database from the built-in table.
func (s *PostgresSource) Seed(ctx context.Context, products []ProductDetail, trendingIDs []string) error {
	rank := make(map[string]int, len(trendingIDs))
	for i, id := range trendingIDs {
		rank[id] = i + 1
	}

	return withTimeout(ctx, 5*queryTimeout, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO products (id, name, brand, image, specs, release_date, weight, url, position, trending_rank)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				brand = EXCLUDED.brand,
				image = EXCLUDED.image,
				specs = EXCLUDED.specs,
				release_date = EXCLUDED.release_date,
				weight = EXCLUDED.weight,
				url = EXCLUDED.url,
				position = EXCLUDED.position,
				trending_rank = EXCLUDED.trending_rank
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, p := range products {
			specs, err := json.Marshal(p.Specs)
			if err != nil {
				return fmt.Errorf("marshal specs %s: %w", p.ID, err)
			}
			var tr sql.NullInt64
			if r, ok := rank[p.ID]; ok {
				tr = sql.NullInt64{Int64: int64(r), Valid: true}
			}
			if _, err := stmt.ExecContext(ctx,
				p.ID, p.Name, p.Brand, p.Image, string(specs),
				p.ReleaseDate, p.Weight, p.URL, i, tr,
			); err != nil {
				return err
			}
		}

		return tx.Commit()
	})
}

// Count returns the number of products stored.
func (s *PostgresSource) Count(ctx context.Context) (int, error) {
	var n int
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `SELECT count(*) FROM products`).Scan(&n)
	})
	return n, err
}

func scanProducts(rows *sql.Rows) ([]ProductDetail, error) {
	out := make([]ProductDetail, 0, 16)
	for rows.Next() {
		var (
			p     ProductDetail
			specs []byte
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Brand, &p.Image, &specs, &p.ReleaseDate, &p.Weight, &p.URL); err != nil {
			return nil, err
		}
		if len(specs) > 0 {
			if err := json.Unmarshal(specs, &p.Specs); err != nil {
				return nil, fmt.Errorf("%w: specs for %s: %v", ErrSourceParse, p.ID, err)
			}
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
