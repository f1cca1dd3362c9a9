package catalog

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// HybridSource asks Primary first and falls back to Fallback when Primary
// fails, misses, or has nothing trending.
type HybridSource struct {
	Primary  Source
	Fallback Source
	Log      *zap.Logger
}

func NewHybridSource(primary, fallback Source, log *zap.Logger) *HybridSource {
	if log == nil {
		log = zap.NewNop()
	}
	return &HybridSource{Primary: primary, Fallback: fallback, Log: log}
}

func (h *HybridSource) Search(ctx context.Context, query string) ([]ProductDetail, error) {
	out, err := h.Primary.Search(ctx, query)
	if err == nil {
		return out, nil
	}
	if errors.Is(err, context.Canceled) {
		return nil, err
	}
	h.Log.Warn("primary search failed, using fallback", zap.Error(err), zap.String("query", query))
	return h.Fallback.Search(ctx, query)
}

func (h *HybridSource) Get(ctx context.Context, id string) (ProductDetail, bool, error) {
	p, ok, err := h.Primary.Get(ctx, id)
	if err == nil && ok {
		return p, true, nil
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return ProductDetail{}, false, err
		}
		h.Log.Warn("primary get failed, using fallback", zap.Error(err), zap.String("id", id))
	}
	return h.Fallback.Get(ctx, id)
}

func (h *HybridSource) Trending(ctx context.Context) ([]ProductDetail, error) {
	out, err := h.Primary.Trending(ctx)
	if err == nil && len(out) > 0 {
		return out, nil
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		h.Log.Warn("primary trending failed, using fallback", zap.Error(err))
	}
	return h.Fallback.Trending(ctx)
}

// Ping only requires the fallback; a down primary degrades but does not make
// the service unready.
func (h *HybridSource) Ping(ctx context.Context) error {
	if err := h.Primary.Ping(ctx); err != nil {
		h.Log.Warn("primary source not reachable", zap.Error(err))
	}
	return h.Fallback.Ping(ctx)
}
