package catalog

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"PhoneCompare/pkg/kit"
)

type Server struct {
	Lookup *Service
	Log    *zap.Logger

	// SearchLimiter throttles /products searches per client IP; nil disables it.
	SearchLimiter *kit.IPRateLimiter
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", kit.Probe)
	r.Get("/readyz", s.readyz)

	r.Route("/products", func(pr chi.Router) {
		if s.SearchLimiter != nil {
			pr.With(s.SearchLimiter.Middleware).Get("/", s.search)
		} else {
			pr.Get("/", s.search)
		}
		pr.Get("/trending", s.trending)
		pr.Get("/batch", s.batch)
		pr.Get("/{id}", s.get)
		pr.Get("/{id}/prices", s.prices)
	})

	return r
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
	defer cancel()

	if err := s.Lookup.Ping(ctx); err != nil {
		if s.Log != nil {
			s.Log.Warn("readyz failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Lookup.Search(r.Context(), r.URL.Query().Get("q")))
}

func (s *Server) trending(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Lookup.Trending(r.Context()))
}

type batchResp struct {
	ListResult
	SpecKeys []string `json:"spec_keys"`
}

func (s *Server) batch(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("ids")
	if strings.TrimSpace(raw) == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "ids required", nil)
		return
	}

	ids := strings.Split(raw, ",")
	if len(ids) > MaxBatch {
		kit.WriteError(w, r, http.StatusBadRequest, "too many ids", map[string]any{"max": MaxBatch})
		return
	}

	res := s.Lookup.GetMany(r.Context(), ids)
	kit.WriteJSON(w, http.StatusOK, batchResp{ListResult: res, SpecKeys: SpecKeys(res.Products)})
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	res := s.Lookup.Get(r.Context(), id)
	if res.Product == nil {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id, "status": res.Status})
		return
	}
	kit.WriteJSON(w, http.StatusOK, res)
}

type pricesResp struct {
	Product ProductRef `json:"product"`
	Status  Status     `json:"status"`
	Offers  []Offer    `json:"offers"`
}

func (s *Server) prices(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	order := SortOrder(r.URL.Query().Get("sort"))
	switch order {
	case "":
		order = SortByPrice
	case SortByPrice, SortByRating:
	default:
		kit.WriteError(w, r, http.StatusBadRequest, "bad sort", map[string]any{"allowed": []SortOrder{SortByPrice, SortByRating}})
		return
	}

	res := s.Lookup.Get(r.Context(), id)
	if res.Product == nil {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id, "status": res.Status})
		return
	}

	ref := res.Product.Ref()
	kit.WriteJSON(w, http.StatusOK, pricesResp{
		Product: ref,
		Status:  res.Status,
		Offers:  Quotes(ref, order),
	})
}
