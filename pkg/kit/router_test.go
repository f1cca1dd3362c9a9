package kit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestRouter(t *testing.T) (http.Handler, *prometheus.Registry, *observer.ObservedLogs) {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	reg := prometheus.NewRegistry()
	r := NewRouter(HTTPDeps{
		Log:            zap.New(core),
		Service:        "test",
		Registry:       reg,
		MetricsEnabled: true,
		MetricsToken:   "tok",
	})
	r.Get("/healthz", Probe)
	r.Get("/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"ok": "yes"})
	})
	r.Get("/boom", func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	})
	return r, reg, logs
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestRouter_RecoversPanics(t *testing.T) {
	h, _, logs := newTestRouter(t)

	rec := serve(h, http.MethodGet, "/boom")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal error", body.Error)
	assert.NotEmpty(t, body.RequestID)

	panics := logs.FilterMessage("handler panic").All()
	require.Len(t, panics, 1)
	assert.Equal(t, "kaboom", panics[0].ContextMap()["panic"])
}

// sample returns the value of the named series whose labels include want.
func sample(t *testing.T, reg *prometheus.Registry, name string, want map[string]string) float64 {
	t.Helper()

	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			for k, v := range want {
				if labels[k] != v {
					continue next
				}
			}
			if c := m.GetCounter(); c != nil {
				return c.GetValue()
			}
			return m.GetGauge().GetValue()
		}
	}
	return 0
}

func TestRouter_MetricsUseRoutePatterns(t *testing.T) {
	h, reg, _ := newTestRouter(t)

	serve(h, http.MethodGet, "/items/1")
	serve(h, http.MethodGet, "/items/2")
	serve(h, http.MethodGet, "/random/scan/path")

	assert.Equal(t, 2.0, sample(t, reg, "http_requests_total", map[string]string{"route": "/items/{id}", "code": "200"}))
	assert.Equal(t, 1.0, sample(t, reg, "http_requests_total", map[string]string{"route": unmatchedRoute, "code": "404"}))
	assert.Zero(t, sample(t, reg, "http_requests_total", map[string]string{"route": "/random/scan/path"}))
}

func TestRouter_MetricsEndpointNeedsToken(t *testing.T) {
	h, _, _ := newTestRouter(t)

	assert.Equal(t, http.StatusForbidden, serve(h, http.MethodGet, "/metrics").Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "http_requests_in_flight"))
}

func TestLogging_HealthChecksAreQuiet(t *testing.T) {
	h, _, logs := newTestRouter(t)

	serve(h, http.MethodGet, "/healthz")
	serve(h, http.MethodGet, "/items/7")

	reqs := logs.FilterMessage("request").All()
	require.Len(t, reqs, 2)
	assert.Equal(t, zapcore.DebugLevel, reqs[0].Level)
	assert.Equal(t, zapcore.InfoLevel, reqs[1].Level)
	assert.Equal(t, "/items/{id}", reqs[1].ContextMap()["route"])
}

func TestMetrics_InFlightReturnsToZero(t *testing.T) {
	h, reg, _ := newTestRouter(t)

	serve(h, http.MethodGet, "/items/1")
	serve(h, http.MethodGet, "/boom")

	assert.Zero(t, sample(t, reg, "http_requests_in_flight", map[string]string{"service": "test"}))
}
