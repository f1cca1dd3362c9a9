// Package selection holds the products a user has marked: a bounded
// comparison list and an unbounded favorites list, each persisted to Storage
// after every change.
package selection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"PhoneCompare/internal/catalog"
)

const DefaultCompareLimit = 6

var (
	// ErrStorageUnavailable is returned by Open when a list cannot be read.
	// The owner's stored data is left untouched.
	ErrStorageUnavailable = errors.New("selection storage unavailable")

	errMalformed = errors.New("malformed selection list")
)

type List string

const (
	ListCompare   List = "compare"
	ListFavorites List = "favorites"
)

type Action string

const (
	ActionAdded          Action = "added"
	ActionAlreadyPresent Action = "already_present"
	ActionLimitReached   Action = "limit_reached"
	ActionRemoved        Action = "removed"
	ActionNotPresent     Action = "not_present"
	ActionCleared        Action = "cleared"
	ActionInvalid        Action = "invalid"
)

// Notice describes the outcome of an operation in user-facing terms.
type Notice struct {
	List      List   `json:"list"`
	Action    Action `json:"action"`
	ProductID string `json:"product_id,omitempty"`
	Message   string `json:"message"`
}

// Changed reports whether the operation mutated the list.
func (n Notice) Changed() bool {
	return n.Action == ActionAdded || n.Action == ActionRemoved || n.Action == ActionCleared
}

// State is a snapshot of both lists.
type State struct {
	CompareList []catalog.ProductRef `json:"compareList"`
	Favorites   []catalog.ProductRef `json:"favorites"`
}

type Options struct {
	CompareLimit int
	Notifier     Notifier
	Log          *zap.Logger
}

// Store is one owner's selection. Each list has its own lock, and the list
// is written to storage while the lock is held so storage never sees an
// older list after a newer one.
type Store struct {
	owner    string
	limit    int
	storage  Storage
	notifier Notifier
	log      *zap.Logger

	compareMu sync.Mutex
	compare   []catalog.ProductRef

	favMu     sync.Mutex
	favorites []catalog.ProductRef
}

// Open loads the owner's lists from storage. Missing or malformed data
// yields empty lists; malformed entries are logged and deleted, and a compare
// list over the limit is truncated and written back. A failed read returns
// ErrStorageUnavailable so the caller never writes over data it could not
// see. Calling Open without storage or with a limit below one is a
// programming error.
func Open(ctx context.Context, owner string, storage Storage, opts Options) (*Store, error) {
	if storage == nil {
		panic("selection: Open called without storage")
	}
	if opts.CompareLimit == 0 {
		opts.CompareLimit = DefaultCompareLimit
	}
	if opts.CompareLimit < 1 {
		panic(fmt.Sprintf("selection: compare limit must be positive, got %d", opts.CompareLimit))
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Notifier == nil {
		opts.Notifier = NopNotifier{}
	}

	s := &Store{
		owner:    owner,
		limit:    opts.CompareLimit,
		storage:  storage,
		notifier: opts.Notifier,
		log:      opts.Log.With(zap.String("owner", owner)),
	}

	var err error
	if s.compare, err = s.load(ctx, KeyCompareList); err != nil {
		return nil, err
	}
	if len(s.compare) > s.limit {
		s.log.Warn("stored compare list exceeds limit, truncating",
			zap.Int("stored", len(s.compare)), zap.Int("limit", s.limit))
		s.compare = cloneRefs(s.compare[:s.limit])
		s.persist(ctx, ListCompare, s.compare)
	}
	if s.favorites, err = s.load(ctx, KeyFavorites); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Store) Owner() string { return s.owner }
func (s *Store) Limit() int    { return s.limit }

func (s *Store) AddToCompare(ctx context.Context, p catalog.ProductRef) Notice {
	s.compareMu.Lock()
	defer s.compareMu.Unlock()

	n := s.add(ctx, ListCompare, &s.compare, p, s.limit)
	s.notify(ctx, n)
	return n
}

func (s *Store) RemoveFromCompare(ctx context.Context, id string) Notice {
	s.compareMu.Lock()
	defer s.compareMu.Unlock()

	n := s.remove(ctx, ListCompare, &s.compare, id)
	s.notify(ctx, n)
	return n
}

func (s *Store) ClearCompareList(ctx context.Context) Notice {
	s.compareMu.Lock()
	defer s.compareMu.Unlock()

	n := s.clear(ctx, ListCompare, &s.compare)
	s.notify(ctx, n)
	return n
}

func (s *Store) IsInCompareList(id string) bool {
	s.compareMu.Lock()
	defer s.compareMu.Unlock()
	return indexOf(s.compare, id) >= 0
}

func (s *Store) CompareList() []catalog.ProductRef {
	s.compareMu.Lock()
	defer s.compareMu.Unlock()
	return cloneRefs(s.compare)
}

func (s *Store) AddToFavorites(ctx context.Context, p catalog.ProductRef) Notice {
	s.favMu.Lock()
	defer s.favMu.Unlock()

	n := s.add(ctx, ListFavorites, &s.favorites, p, 0)
	s.notify(ctx, n)
	return n
}

func (s *Store) RemoveFromFavorites(ctx context.Context, id string) Notice {
	s.favMu.Lock()
	defer s.favMu.Unlock()

	n := s.remove(ctx, ListFavorites, &s.favorites, id)
	s.notify(ctx, n)
	return n
}

func (s *Store) ClearFavorites(ctx context.Context) Notice {
	s.favMu.Lock()
	defer s.favMu.Unlock()

	n := s.clear(ctx, ListFavorites, &s.favorites)
	s.notify(ctx, n)
	return n
}

func (s *Store) IsInFavorites(id string) bool {
	s.favMu.Lock()
	defer s.favMu.Unlock()
	return indexOf(s.favorites, id) >= 0
}

func (s *Store) Favorites() []catalog.ProductRef {
	s.favMu.Lock()
	defer s.favMu.Unlock()
	return cloneRefs(s.favorites)
}

func (s *Store) Snapshot() State {
	return State{
		CompareList: s.CompareList(),
		Favorites:   s.Favorites(),
	}
}

// add appends p unless it is already present or the list holds limit items.
// limit 0 means unbounded. Callers hold the list's lock.
func (s *Store) add(ctx context.Context, list List, items *[]catalog.ProductRef, p catalog.ProductRef, limit int) Notice {
	if p.ID == "" {
		return Notice{List: list, Action: ActionInvalid, Message: "Product id is required."}
	}
	if indexOf(*items, p.ID) >= 0 {
		return Notice{List: list, Action: ActionAlreadyPresent, ProductID: p.ID,
			Message: fmt.Sprintf("%s is already in your %s.", displayName(p), listTitle(list))}
	}
	if limit > 0 && len(*items) >= limit {
		return Notice{List: list, Action: ActionLimitReached, ProductID: p.ID,
			Message: fmt.Sprintf("You can compare a maximum of %d products at once.", limit)}
	}

	*items = append(*items, p)
	s.persist(ctx, list, *items)

	return Notice{List: list, Action: ActionAdded, ProductID: p.ID,
		Message: fmt.Sprintf("%s has been added to your %s.", displayName(p), listTitle(list))}
}

func (s *Store) remove(ctx context.Context, list List, items *[]catalog.ProductRef, id string) Notice {
	i := indexOf(*items, id)
	if i < 0 {
		return Notice{List: list, Action: ActionNotPresent, ProductID: id,
			Message: fmt.Sprintf("That product is not in your %s.", listTitle(list))}
	}

	removed := (*items)[i]
	next := make([]catalog.ProductRef, 0, len(*items)-1)
	next = append(next, (*items)[:i]...)
	next = append(next, (*items)[i+1:]...)
	*items = next
	s.persist(ctx, list, *items)

	return Notice{List: list, Action: ActionRemoved, ProductID: id,
		Message: fmt.Sprintf("%s has been removed from your %s.", displayName(removed), listTitle(list))}
}

func (s *Store) clear(ctx context.Context, list List, items *[]catalog.ProductRef) Notice {
	*items = []catalog.ProductRef{}
	s.persist(ctx, list, *items)

	return Notice{List: list, Action: ActionCleared,
		Message: fmt.Sprintf("Your %s has been cleared.", listTitle(list))}
}

// persist writes the whole list. Failures are logged and swallowed: the
// in-memory list stays authoritative for the rest of the session.
func (s *Store) persist(ctx context.Context, list List, items []catalog.ProductRef) {
	key := storageKey(s.owner, listKey(list))

	raw, err := json.Marshal(items)
	if err != nil {
		s.log.Error("encode selection list", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.storage.Set(ctx, key, raw); err != nil {
		s.log.Error("persist selection list", zap.String("key", key), zap.Error(err))
	}
}

func (s *Store) load(ctx context.Context, name string) ([]catalog.ProductRef, error) {
	key := storageKey(s.owner, name)

	raw, ok, err := s.storage.Get(ctx, key)
	if err != nil {
		s.log.Error("read selection list", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("%w: read %s: %w", ErrStorageUnavailable, key, err)
	}
	if !ok {
		return []catalog.ProductRef{}, nil
	}

	items, err := decodeList(raw)
	if err != nil {
		s.log.Warn("discarding malformed selection list", zap.String("key", key), zap.Error(err))
		if err := s.storage.Delete(ctx, key); err != nil {
			s.log.Error("delete malformed selection list", zap.String("key", key), zap.Error(err))
		}
		return []catalog.ProductRef{}, nil
	}
	return items, nil
}

// decodeList accepts a JSON array of objects that all carry an id. Duplicate
// ids keep their first occurrence.
func decodeList(raw []byte) ([]catalog.ProductRef, error) {
	var items []catalog.ProductRef
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}

	out := make([]catalog.ProductRef, 0, len(items))
	for i, it := range items {
		if it.ID == "" {
			return nil, fmt.Errorf("%w: entry %d has no id", errMalformed, i)
		}
		if indexOf(out, it.ID) >= 0 {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func (s *Store) notify(ctx context.Context, n Notice) {
	s.notifier.Notify(ctx, s.owner, n)
}

func listKey(l List) string {
	if l == ListCompare {
		return KeyCompareList
	}
	return KeyFavorites
}

func listTitle(l List) string {
	if l == ListCompare {
		return "compare list"
	}
	return "favorites"
}

func displayName(p catalog.ProductRef) string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

func indexOf(items []catalog.ProductRef, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func cloneRefs(items []catalog.ProductRef) []catalog.ProductRef {
	return append(make([]catalog.ProductRef, 0, len(items)), items...)
}
