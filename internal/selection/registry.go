package selection

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"weak"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

const DefaultMaxOwners = 10000

// Registry keeps open stores for recently active owners. There is at most one
// Store per owner at any time: a store evicted from the LRU while a request
// still holds it is handed out again instead of being reopened, so list
// writes for one owner always go through the same locks. Owners whose store
// is gone are reloaded from storage on their next request.
type Registry struct {
	storage Storage
	opts    Options

	cache *lru.Cache[string, *Store]
	group singleflight.Group

	mu   sync.Mutex
	live map[string]weak.Pointer[Store]
}

func NewRegistry(storage Storage, maxOwners int, opts Options) (*Registry, error) {
	if maxOwners <= 0 {
		maxOwners = DefaultMaxOwners
	}
	cache, err := lru.New[string, *Store](maxOwners)
	if err != nil {
		return nil, fmt.Errorf("owner cache: %w", err)
	}
	return &Registry{
		storage: storage,
		opts:    opts,
		cache:   cache,
		live:    make(map[string]weak.Pointer[Store]),
	}, nil
}

// Store returns the owner's store, opening it on first use. Concurrent
// first requests for one owner share a single load. A failed load is not
// cached; the next request tries again.
func (r *Registry) Store(ctx context.Context, owner string) (*Store, error) {
	if s, ok := r.cache.Get(owner); ok {
		return s, nil
	}

	v, err, _ := r.group.Do(owner, func() (any, error) {
		if s, ok := r.cache.Get(owner); ok {
			return s, nil
		}
		if s := r.inUse(owner); s != nil {
			r.cache.Add(owner, s)
			return s, nil
		}

		s, err := Open(context.WithoutCancel(ctx), owner, r.storage, r.opts)
		if err != nil {
			return nil, err
		}
		r.track(owner, s)
		r.cache.Add(owner, s)
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Store), nil
}

// inUse returns the owner's store if it is still reachable after eviction.
func (r *Registry) inUse(owner string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	if wp, ok := r.live[owner]; ok {
		return wp.Value()
	}
	return nil
}

func (r *Registry) track(owner string, s *Store) {
	r.mu.Lock()
	r.live[owner] = weak.Make(s)
	r.mu.Unlock()

	runtime.AddCleanup(s, r.forget, owner)
}

// forget drops the owner's entry once its store has been collected. A newer
// store for the same owner keeps its entry.
func (r *Registry) forget(owner string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if wp, ok := r.live[owner]; ok && wp.Value() == nil {
		delete(r.live, owner)
	}
}

func (r *Registry) tracked() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

func (r *Registry) Len() int { return r.cache.Len() }

func (r *Registry) Limit() int {
	if r.opts.CompareLimit == 0 {
		return DefaultCompareLimit
	}
	return r.opts.CompareLimit
}

func (r *Registry) Ping(ctx context.Context) error {
	return r.storage.Ping(ctx)
}
