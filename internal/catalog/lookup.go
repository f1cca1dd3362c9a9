package catalog

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"PhoneCompare/pkg/kit"
)

// Status tells callers how a lookup resolved. Failures never surface as
// errors; they are folded into one of these values.
type Status string

const (
	StatusOK          Status = "ok"
	StatusEmpty       Status = "empty"
	StatusNotFound    Status = "not_found"
	StatusFailed      Status = "lookup_failed"
	StatusPlaceholder Status = "placeholder"
	StatusFallback    Status = "fallback"
	StatusPartial     Status = "partial"
)

// NotFoundPolicy selects what Get returns for a product it cannot resolve.
type NotFoundPolicy string

const (
	NotFoundAbsent      NotFoundPolicy = "absent"
	NotFoundPlaceholder NotFoundPolicy = "placeholder"
)

const (
	DefaultLookupTimeout = 3 * time.Second
	DefaultConcurrency   = 4
	MaxBatch             = 24

	opSearch   = "search"
	opGet      = "get"
	opTrending = "trending"
	opGetMany  = "get_many"

	placeholderName  = "Unknown Smartphone"
	placeholderImage = "/placeholder.svg"
	placeholderSpec  = "Information not available"
)

type SearchResult struct {
	Query    string          `json:"query"`
	Products []ProductDetail `json:"products"`
	Status   Status          `json:"status"`
}

type GetResult struct {
	Product *ProductDetail `json:"product,omitempty"`
	Status  Status         `json:"status"`
}

// Found reports whether the product really exists in the catalog. A
// placeholder is not found.
func (r GetResult) Found() bool { return r.Status == StatusOK && r.Product != nil }

type ListResult struct {
	Products []ProductDetail `json:"products"`
	Status   Status          `json:"status"`
}

type Options struct {
	Timeout     time.Duration
	NotFound    NotFoundPolicy
	Fallback    []ProductDetail
	Concurrency int
	Log         *zap.Logger
	Metrics     *LookupMetrics
	Validator   *kit.Validator
}

// Service is the Catalog Lookup Service. It owns the failure policy for every
// operation: search fails to an empty list, get to absent (or a placeholder),
// trending to the fallback set.
type Service struct {
	src         Source
	timeout     time.Duration
	notFound    NotFoundPolicy
	fallback    []ProductDetail
	concurrency int
	log         *zap.Logger
	metrics     *LookupMetrics
	validate    *kit.Validator
}

func NewService(src Source, opts Options) *Service {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultLookupTimeout
	}
	if opts.NotFound == "" {
		opts.NotFound = NotFoundAbsent
	}
	if opts.Fallback == nil {
		opts.Fallback = FallbackTrending()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Validator == nil {
		opts.Validator = kit.NewValidator()
	}

	return &Service{
		src:         src,
		timeout:     opts.Timeout,
		notFound:    opts.NotFound,
		fallback:    opts.Fallback,
		concurrency: opts.Concurrency,
		log:         opts.Log,
		metrics:     opts.Metrics,
		validate:    opts.Validator,
	}
}

func (s *Service) Ping(ctx context.Context) error {
	return s.src.Ping(ctx)
}

func (s *Service) Search(ctx context.Context, query string) (res SearchResult) {
	start := time.Now()
	defer func() { s.metrics.observe(opSearch, res.Status, start) }()

	res = SearchResult{Query: strings.TrimSpace(query), Products: []ProductDetail{}}
	if res.Query == "" {
		res.Status = StatusEmpty
		return res
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.src.Search(ctx, res.Query)
	if err != nil {
		s.log.Warn("catalog search failed", zap.Error(err), zap.String("query", res.Query))
		res.Status = StatusFailed
		return res
	}

	res.Products = s.valid(out)
	res.Status = StatusOK
	if len(res.Products) == 0 {
		res.Status = StatusEmpty
	}
	return res
}

func (s *Service) Get(ctx context.Context, id string) (res GetResult) {
	start := time.Now()
	defer func() { s.metrics.observe(opGet, res.Status, start) }()

	id = strings.TrimSpace(id)
	p, status := s.lookup(ctx, id)
	if status == StatusOK {
		return GetResult{Product: &p, Status: StatusOK}
	}

	if s.notFound == NotFoundPlaceholder && id != "" {
		ph := Placeholder(id)
		return GetResult{Product: &ph, Status: StatusPlaceholder}
	}
	return GetResult{Status: status}
}

// GetMany resolves ids concurrently. Each lookup is independent: failed or
// missing ids are omitted and the rest keep request order.
func (s *Service) GetMany(ctx context.Context, ids []string) (res ListResult) {
	start := time.Now()
	defer func() { s.metrics.observe(opGetMany, res.Status, start) }()

	ids = uniqueIDs(ids, MaxBatch)
	found := make([]*ProductDetail, len(ids))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			if p, status := s.lookup(ctx, id); status == StatusOK {
				found[i] = &p
			}
			return nil
		})
	}
	_ = g.Wait()

	res = ListResult{Products: make([]ProductDetail, 0, len(ids)), Status: StatusOK}
	for _, p := range found {
		if p != nil {
			res.Products = append(res.Products, *p)
		}
	}
	switch {
	case len(ids) == 0 || len(res.Products) == 0:
		res.Status = StatusEmpty
	case len(res.Products) < len(ids):
		res.Status = StatusPartial
	}
	return res
}

func (s *Service) Trending(ctx context.Context) (res ListResult) {
	start := time.Now()
	defer func() { s.metrics.observe(opTrending, res.Status, start) }()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.src.Trending(ctx)
	if err != nil {
		s.log.Warn("catalog trending failed, serving fallback", zap.Error(err))
	}
	if valid := s.valid(out); err == nil && len(valid) > 0 {
		return ListResult{Products: valid, Status: StatusOK}
	}

	fb := make([]ProductDetail, len(s.fallback))
	for i, p := range s.fallback {
		fb[i] = cloneDetail(p)
	}
	return ListResult{Products: fb, Status: StatusFallback}
}

func (s *Service) lookup(ctx context.Context, id string) (ProductDetail, Status) {
	if id == "" {
		return ProductDetail{}, StatusNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	p, ok, err := s.src.Get(ctx, id)
	if err != nil {
		s.log.Warn("catalog get failed", zap.Error(err), zap.String("id", id))
		return ProductDetail{}, StatusFailed
	}
	if !ok {
		return ProductDetail{}, StatusNotFound
	}
	if err := s.validate.Struct(p); err != nil {
		s.log.Warn("catalog record rejected", zap.String("id", id), zap.Any("fields", kit.FieldErrors(err)))
		return ProductDetail{}, StatusFailed
	}
	return p, StatusOK
}

func (s *Service) valid(in []ProductDetail) []ProductDetail {
	out := make([]ProductDetail, 0, len(in))
	for _, p := range in {
		if err := s.validate.Struct(p); err != nil {
			s.log.Warn("catalog record rejected", zap.String("id", p.ID), zap.Any("fields", kit.FieldErrors(err)))
			continue
		}
		out = append(out, p)
	}
	return out
}

// Placeholder synthesizes the generic record served for unknown ids under
// NotFoundPlaceholder.
func Placeholder(id string) ProductDetail {
	return ProductDetail{
		ProductRef: ProductRef{
			ID:    id,
			Name:  placeholderName,
			Image: placeholderImage,
			Brand: "Unknown",
		},
		Specs: Specs{
			SpecDisplay:   placeholderSpec,
			SpecBattery:   placeholderSpec,
			SpecRAM:       placeholderSpec,
			SpecCamera:    placeholderSpec,
			SpecProcessor: placeholderSpec,
			SpecStorage:   placeholderSpec,
			SpecOS:        placeholderSpec,
		},
	}
}

func uniqueIDs(ids []string, limit int) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
		if len(out) == limit {
			break
		}
	}
	return out
}
