package selection

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PhoneCompare/internal/auth"
)

const testSecret = "selection-test-secret-selection-test"

func resolveOwner(t *testing.T, o OwnerResolver, headers map[string]string) (*httptest.ResponseRecorder, string) {
	t.Helper()

	var owner string
	h := o.Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		owner, _ = OwnerFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/selection", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr, owner
}

func TestOwner_BearerTokenWins(t *testing.T) {
	tm := auth.NewTokenMaker(testSecret)
	tok, err := tm.New("42", "", time.Minute)
	require.NoError(t, err)

	_, owner := resolveOwner(t, OwnerResolver{Tokens: tm, TrustUserHeader: true}, map[string]string{
		"Authorization": "Bearer " + tok,
		HeaderUserID:    "7",
		HeaderSessionID: uuid.NewString(),
	})
	assert.Equal(t, "u:42", owner)
}

func TestOwner_InvalidBearerRejected(t *testing.T) {
	rr, owner := resolveOwner(t, OwnerResolver{Tokens: auth.NewTokenMaker(testSecret)}, map[string]string{
		"Authorization": "Bearer garbage",
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Empty(t, owner)
}

func TestOwner_UserHeaderOnlyWhenTrusted(t *testing.T) {
	_, owner := resolveOwner(t, OwnerResolver{TrustUserHeader: true}, map[string]string{HeaderUserID: "7"})
	assert.Equal(t, "u:7", owner)

	rr, owner := resolveOwner(t, OwnerResolver{}, map[string]string{HeaderUserID: "7"})
	assert.True(t, strings.HasPrefix(owner, "s:"), owner)
	assert.NotEmpty(t, rr.Header().Get(HeaderSessionID))
}

func TestOwner_SessionHeader(t *testing.T) {
	sid := uuid.NewString()

	rr, owner := resolveOwner(t, OwnerResolver{}, map[string]string{HeaderSessionID: sid})
	assert.Equal(t, "s:"+sid, owner)
	assert.Equal(t, sid, rr.Header().Get(HeaderSessionID))
}

func TestOwner_IssuesFreshSession(t *testing.T) {
	for _, headers := range []map[string]string{
		nil,
		{HeaderSessionID: "not-a-uuid"},
	} {
		rr, owner := resolveOwner(t, OwnerResolver{}, headers)

		sid := rr.Header().Get(HeaderSessionID)
		_, err := uuid.Parse(sid)
		require.NoError(t, err)
		assert.Equal(t, "s:"+sid, owner)
	}
}
