package catalog

import (
	"context"
	"sync"
)

// StaticSource serves an in-memory phone table. Search results keep table
// order.
type StaticSource struct {
	mu       sync.RWMutex
	order    []string
	m        map[string]ProductDetail
	trending []string
}

func NewStaticSource(products []ProductDetail, trendingIDs []string) *StaticSource {
	s := &StaticSource{
		m:        make(map[string]ProductDetail, len(products)),
		trending: append([]string(nil), trendingIDs...),
	}
	for _, p := range products {
		s.put(p)
	}
	return s
}

// NewSeededSource returns a StaticSource over the built-in phone table.
func NewSeededSource() *StaticSource {
	return NewStaticSource(SeedProducts(), seedTrending)
}

func (s *StaticSource) Ping(ctx context.Context) error { return nil }

func (s *StaticSource) put(p ProductDetail) {
	if _, ok := s.m[p.ID]; !ok {
		s.order = append(s.order, p.ID)
	}
	s.m[p.ID] = cloneDetail(p)
}

func (s *StaticSource) Search(ctx context.Context, query string) ([]ProductDetail, error) {
	term := normalizeQuery(query)
	if term == "" {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ProductDetail, 0, 8)
	for _, id := range s.order {
		p := s.m[id]
		if p.Matches(term) {
			out = append(out, cloneDetail(p))
		}
	}
	return out, nil
}

func (s *StaticSource) Get(ctx context.Context, id string) (ProductDetail, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.m[id]
	if !ok {
		return ProductDetail{}, false, nil
	}
	return cloneDetail(p), true, nil
}

func (s *StaticSource) Trending(ctx context.Context) ([]ProductDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ProductDetail, 0, len(s.trending))
	for _, id := range s.trending {
		if p, ok := s.m[id]; ok {
			out = append(out, cloneDetail(p))
		}
	}
	return out, nil
}

// All returns every product in table order.
func (s *StaticSource) All() []ProductDetail {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ProductDetail, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, cloneDetail(s.m[id]))
	}
	return out
}

// TrendingIDs returns the curated trending ids.
func (s *StaticSource) TrendingIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.trending...)
}
