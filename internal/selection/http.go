package selection

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"PhoneCompare/internal/catalog"
	"PhoneCompare/pkg/kit"
)

type Server struct {
	Registry *Registry
	Owners   OwnerResolver
	Log      *zap.Logger

	// Catalog resolves id-only add requests; nil requires full product refs.
	Catalog   ProductResolver
	Validator *kit.Validator
}

func (s *Server) Routes() http.Handler {
	if s.Validator == nil {
		s.Validator = kit.NewValidator()
	}

	r := chi.NewRouter()

	r.Get("/healthz", kit.Probe)
	r.Get("/readyz", s.readyz)

	r.Group(func(pr chi.Router) {
		pr.Use(s.Owners.Middleware)

		pr.Get("/selection", s.snapshot)
		s.mountList(pr, "/compare", ListCompare)
		s.mountList(pr, "/favorites", ListFavorites)
	})

	return r
}

func (s *Server) mountList(r chi.Router, prefix string, list List) {
	r.Route(prefix, func(lr chi.Router) {
		lr.Get("/", s.items(list))
		lr.Post("/", s.add(list))
		lr.Delete("/", s.clear(list))
		lr.Get("/{id}", s.contains(list))
		lr.Delete("/{id}", s.remove(list))
	})
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
	defer cancel()

	if err := s.Registry.Ping(ctx); err != nil {
		if s.Log != nil {
			s.Log.Warn("readyz failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// store returns the caller's store, or writes 503 when it cannot be loaded.
func (s *Server) store(w http.ResponseWriter, r *http.Request) (*Store, bool) {
	owner, _ := OwnerFromContext(r.Context())

	st, err := s.Registry.Store(r.Context(), owner)
	if err != nil {
		if s.Log != nil {
			s.Log.Warn("load selection failed", zap.String("owner", owner), zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusServiceUnavailable, "selection storage unavailable", nil)
		return nil, false
	}
	return st, true
}

func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) {
	st, ok := s.store(w, r)
	if !ok {
		return
	}
	kit.WriteJSON(w, http.StatusOK, st.Snapshot())
}

type itemsResp struct {
	Items []catalog.ProductRef `json:"items"`
	Limit int                  `json:"limit,omitempty"`
}

func (s *Server) items(list List) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, ok := s.store(w, r)
		if !ok {
			return
		}
		if list == ListCompare {
			kit.WriteJSON(w, http.StatusOK, itemsResp{Items: st.CompareList(), Limit: st.Limit()})
			return
		}
		kit.WriteJSON(w, http.StatusOK, itemsResp{Items: st.Favorites()})
	}
}

type containsResp struct {
	ID     string `json:"id"`
	InList bool   `json:"in_list"`
}

func (s *Server) contains(list List) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		st, ok := s.store(w, r)
		if !ok {
			return
		}

		in := st.IsInFavorites(id)
		if list == ListCompare {
			in = st.IsInCompareList(id)
		}
		kit.WriteJSON(w, http.StatusOK, containsResp{ID: id, InList: in})
	}
}

func (s *Server) add(list List) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req catalog.ProductRef
		if err := kit.DecodeJSON(w, r, &req); err != nil {
			kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
			return
		}
		req.ID = strings.TrimSpace(req.ID)

		p, ok := s.productRef(w, r, req)
		if !ok {
			return
		}

		st, ok := s.store(w, r)
		if !ok {
			return
		}
		var n Notice
		if list == ListCompare {
			n = st.AddToCompare(r.Context(), p)
		} else {
			n = st.AddToFavorites(r.Context(), p)
		}
		kit.WriteJSON(w, noticeStatus(n), n)
	}
}

// productRef completes an id-only request from the catalog and validates
// whatever the client sent otherwise.
func (s *Server) productRef(w http.ResponseWriter, r *http.Request, req catalog.ProductRef) (catalog.ProductRef, bool) {
	if req.ID != "" && req.Name == "" && s.Catalog != nil {
		p, err := s.Catalog.Resolve(r.Context(), req.ID)
		switch {
		case err == nil:
			return p, true
		case errors.Is(err, ErrCatalogNotFound):
			kit.WriteError(w, r, http.StatusBadRequest, "unknown product", map[string]any{"id": req.ID})
		default:
			if s.Log != nil {
				s.Log.Warn("catalog resolve failed", zap.Error(err), zap.String("id", req.ID))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "catalog unavailable", nil)
		}
		return catalog.ProductRef{}, false
	}

	if err := s.Validator.Struct(req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid product", kit.FieldErrors(err))
		return catalog.ProductRef{}, false
	}
	return req, true
}

func (s *Server) remove(list List) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		st, ok := s.store(w, r)
		if !ok {
			return
		}

		var n Notice
		if list == ListCompare {
			n = st.RemoveFromCompare(r.Context(), id)
		} else {
			n = st.RemoveFromFavorites(r.Context(), id)
		}
		kit.WriteJSON(w, noticeStatus(n), n)
	}
}

func (s *Server) clear(list List) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, ok := s.store(w, r)
		if !ok {
			return
		}

		var n Notice
		if list == ListCompare {
			n = st.ClearCompareList(r.Context())
		} else {
			n = st.ClearFavorites(r.Context())
		}
		kit.WriteJSON(w, noticeStatus(n), n)
	}
}

func noticeStatus(n Notice) int {
	switch n.Action {
	case ActionAdded:
		return http.StatusCreated
	case ActionLimitReached:
		return http.StatusConflict
	case ActionInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusOK
	}
}
