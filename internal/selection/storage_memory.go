package selection

import (
	"context"
	"sync"
)

type MemStorage struct {
	mu sync.RWMutex
	m  map[string][]byte
}

func NewMemStorage() *MemStorage {
	return &MemStorage{m: map[string][]byte{}}
}

func (s *MemStorage) Ping(ctx context.Context) error { return nil }

func (s *MemStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.m[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *MemStorage) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemStorage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}
