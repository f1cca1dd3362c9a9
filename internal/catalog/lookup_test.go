package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_BlankQueryDoesNotTouchSource(t *testing.T) {
	src := newFakeSource(phone("a", "Alpha"))
	svc := NewService(src, Options{})

	for _, q := range []string{"", "   ", "\t\n"} {
		res := svc.Search(context.Background(), q)
		assert.Equal(t, StatusEmpty, res.Status)
		assert.NotNil(t, res.Products)
		assert.Empty(t, res.Products)
	}
	assert.Zero(t, src.searches.Load())
}

func TestSearch_Outcomes(t *testing.T) {
	src := newFakeSource(phone("a", "Alpha"), phone("b", "Beta"))
	svc := NewService(src, Options{})
	ctx := context.Background()

	res := svc.Search(ctx, " alpha ")
	assert.Equal(t, StatusOK, res.Status)
	assert.Equal(t, "alpha", res.Query)
	require.Len(t, res.Products, 1)
	assert.Equal(t, "a", res.Products[0].ID)

	res = svc.Search(ctx, "gamma")
	assert.Equal(t, StatusEmpty, res.Status)
	assert.Empty(t, res.Products)

	src.searchErr = ErrSourceUnavailable
	res = svc.Search(ctx, "alpha")
	assert.Equal(t, StatusFailed, res.Status)
	assert.Empty(t, res.Products)
}

func TestSearch_TimeoutIsFailure(t *testing.T) {
	src := newFakeSource(phone("a", "Alpha"))
	src.delay = time.Second
	svc := NewService(src, Options{Timeout: 20 * time.Millisecond})

	start := time.Now()
	res := svc.Search(context.Background(), "alpha")
	assert.Equal(t, StatusFailed, res.Status)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestSearch_DropsInvalidRecords(t *testing.T) {
	bad := ProductDetail{ProductRef: ProductRef{ID: "bad", Name: "Bad phone", Image: "not a uri"}}
	src := newFakeSource(phone("good", "Good phone"), bad)
	svc := NewService(src, Options{})

	res := svc.Search(context.Background(), "phone")
	require.Len(t, res.Products, 1)
	assert.Equal(t, "good", res.Products[0].ID)
}

func TestGet_AbsentPolicy(t *testing.T) {
	src := newFakeSource(phone("a", "Alpha"))
	svc := NewService(src, Options{})
	ctx := context.Background()

	res := svc.Get(ctx, "a")
	assert.True(t, res.Found())
	assert.Equal(t, "Alpha", res.Product.Name)

	res = svc.Get(ctx, "missing")
	assert.False(t, res.Found())
	assert.Nil(t, res.Product)
	assert.Equal(t, StatusNotFound, res.Status)

	res = svc.Get(ctx, "  ")
	assert.Nil(t, res.Product)
	assert.Equal(t, StatusNotFound, res.Status)

	src.getErr["a"] = ErrSourceBadStatus
	res = svc.Get(ctx, "a")
	assert.Nil(t, res.Product)
	assert.Equal(t, StatusFailed, res.Status)
}

func TestGet_StaticCatalogMissIsAbsent(t *testing.T) {
	res := NewService(NewSeededSource(), Options{}).Get(context.Background(), "nokia-3310")
	assert.Nil(t, res.Product)
	assert.Equal(t, StatusNotFound, res.Status)
}

func TestGet_PlaceholderPolicy(t *testing.T) {
	src := newFakeSource(phone("a", "Alpha"))
	svc := NewService(src, Options{NotFound: NotFoundPlaceholder})
	ctx := context.Background()

	res := svc.Get(ctx, "missing")
	require.NotNil(t, res.Product)
	assert.False(t, res.Found())
	assert.Equal(t, StatusPlaceholder, res.Status)
	assert.Equal(t, "missing", res.Product.ID)
	assert.Equal(t, "Unknown Smartphone", res.Product.Name)
	assert.Equal(t, "Information not available", res.Product.Specs[SpecBattery])

	assert.True(t, svc.Get(ctx, "a").Found())
	assert.Nil(t, svc.Get(ctx, "").Product, "blank id never gets a placeholder")
}

func TestTrending_FallsBack(t *testing.T) {
	ctx := context.Background()

	src := newFakeSource()
	src.trending = []ProductDetail{phone("t1", "Trendy")}
	svc := NewService(src, Options{})

	res := svc.Trending(ctx)
	assert.Equal(t, StatusOK, res.Status)
	require.Len(t, res.Products, 1)

	src.trending = nil
	res = svc.Trending(ctx)
	assert.Equal(t, StatusFallback, res.Status)
	assert.Len(t, res.Products, 4)
	assert.Equal(t, "iphone-14-pro", res.Products[0].ID)

	src.trending = []ProductDetail{phone("t1", "Trendy")}
	src.trendingErr = ErrSourceUnavailable
	res = svc.Trending(ctx)
	assert.Equal(t, StatusFallback, res.Status)

	custom := NewService(src, Options{Fallback: []ProductDetail{phone("f", "Fallback")}})
	res = custom.Trending(ctx)
	require.Len(t, res.Products, 1)
	assert.Equal(t, "f", res.Products[0].ID)
}

func TestGetMany_PartialAndOrdered(t *testing.T) {
	src := newFakeSource(phone("a", "Alpha"), phone("b", "Beta"), phone("c", "Gamma"))
	src.getErr["b"] = ErrSourceUnavailable
	svc := NewService(src, Options{})

	res := svc.GetMany(context.Background(), []string{"c", "b", "missing", "a", "c", " "})
	assert.Equal(t, StatusPartial, res.Status)

	got := make([]string, 0, len(res.Products))
	for _, p := range res.Products {
		got = append(got, p.ID)
	}
	assert.Equal(t, []string{"c", "a"}, got)

	res = svc.GetMany(context.Background(), []string{"a", "c"})
	assert.Equal(t, StatusOK, res.Status)

	res = svc.GetMany(context.Background(), nil)
	assert.Equal(t, StatusEmpty, res.Status)
	assert.NotNil(t, res.Products)
}

func TestGetMany_BoundedConcurrency(t *testing.T) {
	ids := []string{"p0", "p1", "p2", "p3", "p4", "p5", "p6", "p7"}
	src := newFakeSource()
	for _, id := range ids {
		src.products[id] = phone(id, "Phone "+id)
	}
	src.delay = 20 * time.Millisecond
	svc := NewService(src, Options{Concurrency: 2})

	res := svc.GetMany(context.Background(), ids)
	assert.Len(t, res.Products, len(ids))
	assert.LessOrEqual(t, src.maxBusy, 2)
}

func TestLookupMetrics_CountOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLookupMetrics(reg)
	src := newFakeSource(phone("a", "Alpha"))
	svc := NewService(src, Options{Metrics: m})
	ctx := context.Background()

	svc.Search(ctx, "")
	svc.Search(ctx, "alpha")
	svc.Get(ctx, "missing")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Lookups.WithLabelValues(opSearch, string(StatusEmpty))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Lookups.WithLabelValues(opSearch, string(StatusOK))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Lookups.WithLabelValues(opGet, string(StatusNotFound))))
}
