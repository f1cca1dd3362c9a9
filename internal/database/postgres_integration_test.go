//go:build integration

package database_test

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"PhoneCompare/internal/catalog"
	"PhoneCompare/internal/database"
	"PhoneCompare/internal/selection"
)

const skipIntegrationTests = "PHONECOMPARE_SKIP_INTEGRATION_TESTS"

type PostgresSuite struct {
	suite.Suite
	ctx         context.Context
	pgContainer *postgres.PostgresContainer
	db          *sql.DB
}

func (s *PostgresSuite) SetupSuite() {
	s.ctx = context.Background()

	var err error
	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:17.5-alpine",
		postgres.WithDatabase("phonecompare"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
	)
	require.NoError(s.T(), err, "start postgres container")

	connStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err)

	s.db, err = database.OpenPostgres(s.ctx, connStr, 30*time.Second, zap.NewNop())
	require.NoError(s.T(), err, "open and migrate")
}

func (s *PostgresSuite) TearDownSuite() {
	if s.db != nil {
		_ = s.db.Close()
	}
	if s.pgContainer != nil {
		require.NoError(s.T(), s.pgContainer.Terminate(s.ctx))
	}
}

func (s *PostgresSuite) SetupTest() {
	_, err := s.db.ExecContext(s.ctx, `TRUNCATE selection_state, products`)
	require.NoError(s.T(), err)
}

func (s *PostgresSuite) TestSelectionStorage_RoundTrip() {
	st := selection.NewSQLStorage(s.db, selection.DialectPostgres)

	_, ok, err := st.Get(s.ctx, "s:1:compareList")
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(st.Set(s.ctx, "s:1:compareList", []byte(`[{"id":"a","name":"A"}]`)))
	s.Require().NoError(st.Set(s.ctx, "s:1:compareList", []byte(`[{"id":"b","name":"B"}]`)))

	raw, ok, err := st.Get(s.ctx, "s:1:compareList")
	s.Require().NoError(err)
	s.True(ok)
	s.JSONEq(`[{"id":"b","name":"B"}]`, string(raw))

	s.Require().NoError(st.Delete(s.ctx, "s:1:compareList"))
	_, ok, err = st.Get(s.ctx, "s:1:compareList")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *PostgresSuite) TestSelectionStore_SurvivesReopen() {
	st := selection.NewSQLStorage(s.db, selection.DialectPostgres)

	first, err := selection.Open(s.ctx, "u:42", st, selection.Options{CompareLimit: 4})
	s.Require().NoError(err)
	first.AddToCompare(s.ctx, catalog.ProductRef{ID: "oneplus-12", Name: "OnePlus 12"})
	first.AddToFavorites(s.ctx, catalog.ProductRef{ID: "iqoo-12", Name: "iQOO 12"})

	second, err := selection.Open(s.ctx, "u:42", st, selection.Options{CompareLimit: 4})
	s.Require().NoError(err)
	s.Equal(first.Snapshot(), second.Snapshot())
}

func (s *PostgresSuite) TestCatalogSource_SeedAndQuery() {
	src := catalog.NewPostgresSource(s.db)
	seeded := catalog.NewSeededSource()

	s.Require().NoError(src.Seed(s.ctx, seeded.All(), seeded.TrendingIDs()))
	s.Require().NoError(src.Seed(s.ctx, seeded.All(), seeded.TrendingIDs()), "seeding twice is an upsert")

	n, err := src.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(len(seeded.All()), n)

	got, err := src.Search(s.ctx, "galaxy")
	s.Require().NoError(err)
	s.NotEmpty(got)
	for _, p := range got {
		s.Equal("Samsung", p.Brand)
	}

	bySpec, err := src.Search(s.ctx, "snapdragon 8 gen 3")
	s.Require().NoError(err)
	s.NotEmpty(bySpec)

	p, ok, err := src.Get(s.ctx, "oneplus-12")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal("OnePlus 12", p.Name)
	s.NotEmpty(p.Specs[catalog.SpecProcessor])

	_, ok, err = src.Get(s.ctx, "no-such-phone")
	s.Require().NoError(err)
	s.False(ok)

	trending, err := src.Trending(s.ctx)
	s.Require().NoError(err)
	ids := make([]string, 0, len(trending))
	for _, p := range trending {
		ids = append(ids, p.ID)
	}
	s.Equal(seeded.TrendingIDs(), ids)
}

func TestPostgresSuite(t *testing.T) {
	if os.Getenv(skipIntegrationTests) == "1" {
		t.Skip("integration tests skipped by " + skipIntegrationTests)
	}
	suite.Run(t, new(PostgresSuite))
}
