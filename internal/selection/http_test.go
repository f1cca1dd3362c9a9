package selection

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"PhoneCompare/internal/catalog"
)

type fakeResolver map[string]catalog.ProductRef

func (f fakeResolver) Resolve(_ context.Context, id string) (catalog.ProductRef, error) {
	if id == "down" {
		return catalog.ProductRef{}, ErrCatalogUnavailable
	}
	p, ok := f[id]
	if !ok {
		return catalog.ProductRef{}, ErrCatalogNotFound
	}
	return p, nil
}

func newSelectionTS(t *testing.T, limit int) *httptest.Server {
	t.Helper()

	reg := prometheus.NewRegistry()
	registry, err := NewRegistry(NewMemStorage(), 100, Options{
		CompareLimit: limit,
		Notifier:     NewMetricsNotifier(reg),
	})
	require.NoError(t, err)

	s := &Server{
		Registry: registry,
		Owners:   OwnerResolver{TrustUserHeader: true},
		Log:      zap.NewNop(),
		Catalog: fakeResolver{
			"oneplus-12": {ID: "oneplus-12", Name: "OnePlus 12", Image: "https://img.example.com/op12.jpg", Brand: "OnePlus"},
		},
	}

	ts := httptest.NewServer(NewHandler(s, HTTPDeps{
		Log:      zap.NewNop(),
		Service:  "selection",
		Registry: reg,
	}))
	t.Cleanup(ts.Close)
	return ts
}

func call(t *testing.T, method, url string, body any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decodeNotice(t *testing.T, raw []byte) Notice {
	t.Helper()
	var n Notice
	require.NoError(t, json.Unmarshal(raw, &n), string(raw))
	return n
}

func TestHTTP_CompareFlow(t *testing.T) {
	ts := newSelectionTS(t, 2)
	user := map[string]string{HeaderUserID: "alice"}

	resp, raw := call(t, http.MethodPost, ts.URL+"/compare", map[string]any{"id": "a", "name": "Phone A"}, user)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	assert.Equal(t, ActionAdded, decodeNotice(t, raw).Action)

	resp, raw = call(t, http.MethodPost, ts.URL+"/compare", map[string]any{"id": "a", "name": "Phone A"}, user)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, ActionAlreadyPresent, decodeNotice(t, raw).Action)

	resp, _ = call(t, http.MethodPost, ts.URL+"/compare", map[string]any{"id": "b", "name": "Phone B"}, user)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, raw = call(t, http.MethodPost, ts.URL+"/compare", map[string]any{"id": "c", "name": "Phone C"}, user)
	require.Equal(t, http.StatusConflict, resp.StatusCode, string(raw))
	n := decodeNotice(t, raw)
	assert.Equal(t, ActionLimitReached, n.Action)
	assert.Equal(t, "You can compare a maximum of 2 products at once.", n.Message)

	resp, raw = call(t, http.MethodGet, ts.URL+"/compare", nil, user)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var items itemsResp
	require.NoError(t, json.Unmarshal(raw, &items))
	assert.Equal(t, []string{"a", "b"}, ids(items.Items))
	assert.Equal(t, 2, items.Limit)

	resp, raw = call(t, http.MethodGet, ts.URL+"/compare/a", nil, user)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id":"a","in_list":true}`, string(raw))

	resp, raw = call(t, http.MethodDelete, ts.URL+"/compare/a", nil, user)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, ActionRemoved, decodeNotice(t, raw).Action)

	resp, raw = call(t, http.MethodDelete, ts.URL+"/compare/a", nil, user)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, ActionNotPresent, decodeNotice(t, raw).Action)

	resp, raw = call(t, http.MethodDelete, ts.URL+"/compare", nil, user)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, ActionCleared, decodeNotice(t, raw).Action)

	_, raw = call(t, http.MethodGet, ts.URL+"/selection", nil, user)
	assert.JSONEq(t, `{"compareList":[],"favorites":[]}`, string(raw))
}

func TestHTTP_FavoritesByIDResolvedFromCatalog(t *testing.T) {
	ts := newSelectionTS(t, 4)
	user := map[string]string{HeaderUserID: "bob"}

	resp, raw := call(t, http.MethodPost, ts.URL+"/favorites", map[string]any{"id": "oneplus-12"}, user)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	_, raw = call(t, http.MethodGet, ts.URL+"/favorites", nil, user)
	assert.JSONEq(t,
		`{"items":[{"id":"oneplus-12","name":"OnePlus 12","image":"https://img.example.com/op12.jpg","brand":"OnePlus"}]}`,
		string(raw))

	resp, raw = call(t, http.MethodPost, ts.URL+"/favorites", map[string]any{"id": "unknown"}, user)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(raw))

	resp, raw = call(t, http.MethodPost, ts.URL+"/favorites", map[string]any{"id": "down"}, user)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, string(raw))
}

func TestHTTP_RejectsBadBodies(t *testing.T) {
	ts := newSelectionTS(t, 4)
	user := map[string]string{HeaderUserID: "carol"}

	cases := []struct {
		name string
		body any
	}{
		{"empty id", map[string]any{"id": "", "name": "x"}},
		{"unknown field", map[string]any{"id": "a", "name": "A", "price": 10}},
		{"bad image", map[string]any{"id": "a", "name": "A", "image": "not a uri"}},
		{"not an object", []string{"a"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, raw := call(t, http.MethodPost, ts.URL+"/compare", tc.body, user)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(raw))
		})
	}
}

func TestHTTP_SessionsAreIsolated(t *testing.T) {
	ts := newSelectionTS(t, 4)

	resp, _ := call(t, http.MethodPost, ts.URL+"/favorites", map[string]any{"id": "a", "name": "A"}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sid := resp.Header.Get(HeaderSessionID)
	_, err := uuid.Parse(sid)
	require.NoError(t, err)

	_, raw := call(t, http.MethodGet, ts.URL+"/favorites/a", nil, map[string]string{HeaderSessionID: sid})
	assert.JSONEq(t, `{"id":"a","in_list":true}`, string(raw))

	_, raw = call(t, http.MethodGet, ts.URL+"/favorites/a", nil, map[string]string{HeaderSessionID: uuid.NewString()})
	assert.JSONEq(t, `{"id":"a","in_list":false}`, string(raw))
}

func TestHTTP_Probes(t *testing.T) {
	ts := newSelectionTS(t, 4)

	resp, _ := call(t, http.MethodGet, ts.URL+"/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = call(t, http.MethodGet, ts.URL+"/readyz", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTP_StorageReadFailureIs503(t *testing.T) {
	ctx := context.Background()
	storage := &failingStorage{MemStorage: NewMemStorage()}
	require.NoError(t, storage.Set(ctx, "u:bob:favorites", []byte(`[{"id":"a","name":"A"}]`)))
	storage.failGet = true

	registry, err := NewRegistry(storage, 10, Options{})
	require.NoError(t, err)
	ts := httptest.NewServer(NewHandler(&Server{
		Registry: registry,
		Owners:   OwnerResolver{TrustUserHeader: true},
	}, HTTPDeps{Service: "selection"}))
	t.Cleanup(ts.Close)

	user := map[string]string{HeaderUserID: "bob"}

	resp, _ := call(t, http.MethodPost, ts.URL+"/favorites", map[string]any{"id": "b", "name": "B"}, user)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp, _ = call(t, http.MethodGet, ts.URL+"/selection", nil, user)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	storage.failGet = false
	resp, raw := call(t, http.MethodGet, ts.URL+"/favorites", nil, user)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"items":[{"id":"a","name":"A","image":""}]}`, string(raw))
}
