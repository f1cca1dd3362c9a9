package catalog

import (
	"context"
	"errors"
)

var (
	ErrSourceUnavailable = errors.New("catalog source unavailable")
	ErrSourceBadStatus   = errors.New("catalog source bad status")
	ErrSourceParse       = errors.New("catalog source parse failed")
)

// Source is a raw backing catalog. Implementations report failures as
// errors; Service decides what those failures mean to callers.
type Source interface {
	Search(ctx context.Context, query string) ([]ProductDetail, error)
	Get(ctx context.Context, id string) (ProductDetail, bool, error)
	Trending(ctx context.Context) ([]ProductDetail, error)
	Ping(ctx context.Context) error
}
