package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"PhoneCompare/internal/auth"
	"PhoneCompare/pkg/kit"
)

type HTTPDeps = kit.HTTPDeps

type Deps struct {
	CatalogURL   string
	SelectionURL string
	// JWTSecret verifies bearer tokens; empty leaves them to the upstreams.
	JWTSecret string
}

const (
	readyTimeout      = 2 * time.Second
	readyProbeTimeout = 700 * time.Millisecond
)

var readyClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     30 * time.Second,
	},
}

func NewHandler(deps Deps, httpDeps HTTPDeps) (http.Handler, error) {
	catalogProxy, err := NewReverseProxy(deps.CatalogURL, httpDeps.Log)
	if err != nil {
		return nil, fmt.Errorf("catalog upstream: %w", err)
	}
	selectionProxy, err := NewReverseProxy(deps.SelectionURL, httpDeps.Log)
	if err != nil {
		return nil, fmt.Errorf("selection upstream: %w", err)
	}

	var jwt *auth.TokenMaker
	if deps.JWTSecret != "" {
		jwt = auth.NewTokenMaker(deps.JWTSecret)
	}

	r := kit.NewRouter(httpDeps)

	r.Get("/healthz", kit.Probe)
	r.Get("/readyz", readyz(deps, httpDeps.Log))

	r.Group(func(pr chi.Router) {
		pr.Use(OptionalAuth(jwt))

		pr.Handle("/products", catalogProxy)
		pr.Handle("/products/*", catalogProxy)

		pr.Handle("/selection", selectionProxy)
		pr.Handle("/compare", selectionProxy)
		pr.Handle("/compare/*", selectionProxy)
		pr.Handle("/favorites", selectionProxy)
		pr.Handle("/favorites/*", selectionProxy)
	})

	return r, nil
}

func readyz(deps Deps, log *zap.Logger) http.HandlerFunc {
	upstreams := []struct{ name, url string }{
		{"catalog", deps.CatalogURL},
		{"selection", deps.SelectionURL},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		for _, u := range upstreams {
			if err := checkReady(ctx, strings.TrimRight(u.url, "/")+"/readyz"); err != nil {
				if log != nil {
					log.Warn("readyz failed: "+u.name, zap.Error(err))
				}
				kit.WriteError(w, r, http.StatusServiceUnavailable, u.name+" not ready", nil)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
	}
}

func checkReady(ctx context.Context, url string) error {
	cctx, cancel := context.WithTimeout(ctx, readyProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(cctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := readyClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status=%d", resp.StatusCode)
	}

	return nil
}
