package selection

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"PhoneCompare/internal/auth"
	"PhoneCompare/pkg/kit"
)

const (
	HeaderUserID    = "X-User-Id"
	HeaderSessionID = "X-Session-Id"

	userPrefix    = "u:"
	sessionPrefix = "s:"
)

type ctxKey string

const ownerKey ctxKey = "owner"

func OwnerFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ownerKey).(string)
	return v, ok && v != ""
}

// OwnerResolver decides whose selection a request addresses.
//
// Precedence: bearer token, then X-User-Id when TrustUserHeader is set (the
// gateway always overwrites it), then an X-Session-Id holding a UUID. A
// request with none of these gets a fresh session id echoed in the
// X-Session-Id response header.
type OwnerResolver struct {
	Tokens          *auth.TokenMaker
	TrustUserHeader bool
}

func (o OwnerResolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner, ok := o.resolve(w, r)
		if !ok {
			return
		}
		ctx := context.WithValue(r.Context(), ownerKey, owner)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (o OwnerResolver) resolve(w http.ResponseWriter, r *http.Request) (string, bool) {
	if tok, ok := kit.BearerToken(r); ok && o.Tokens != nil {
		claims, err := o.Tokens.Parse(tok)
		if err != nil {
			kit.WriteError(w, r, http.StatusUnauthorized, "invalid token", nil)
			return "", false
		}
		return userPrefix + claims.UserID, true
	}

	if o.TrustUserHeader {
		if uid := strings.TrimSpace(r.Header.Get(HeaderUserID)); uid != "" {
			return userPrefix + uid, true
		}
	}

	if sid, err := uuid.Parse(strings.TrimSpace(r.Header.Get(HeaderSessionID))); err == nil {
		w.Header().Set(HeaderSessionID, sid.String())
		return sessionPrefix + sid.String(), true
	}

	sid := uuid.NewString()
	w.Header().Set(HeaderSessionID, sid)
	return sessionPrefix + sid, true
}
