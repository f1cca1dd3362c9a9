package selection

import "context"

// Persisted list names. Each owner's list lives under "<owner>:<name>".
const (
	KeyCompareList = "compareList"
	KeyFavorites   = "favorites"
)

// Storage is durable key-value storage for small JSON blobs.
type Storage interface {
	// Get returns ok=false when the key has never been written.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

func storageKey(owner, list string) string {
	return owner + ":" + list
}
