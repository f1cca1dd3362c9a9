package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httputil"
	"net/url"

	"go.uber.org/zap"

	"PhoneCompare/internal/auth"
	"PhoneCompare/pkg/kit"
)

const HeaderUserID = "X-User-Id"

type ctxKey string

const userIDKey ctxKey = "user_id"

func UserIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(userIDKey).(string)
	return v, ok && v != ""
}

// OptionalAuth verifies a bearer token when one is sent. Anonymous requests
// pass through; a bad token is rejected. A nil TokenMaker forwards tokens
// untouched.
func OptionalAuth(jwt *auth.TokenMaker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok, ok := kit.BearerToken(r)
			if !ok || jwt == nil {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := jwt.Parse(tok)
			if err != nil {
				kit.WriteError(w, r, http.StatusUnauthorized, "invalid token", nil)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NewReverseProxy forwards to target. Client supplied X-User-Id is always
// dropped; the verified user id, if any, replaces it together with the
// Authorization header it came from.
func NewReverseProxy(target string, log *zap.Logger) (*httputil.ReverseProxy, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.New("upstream url must be absolute: " + target)
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(u)
			pr.SetXForwarded()

			pr.Out.Header.Del(HeaderUserID)
			if uid, ok := UserIDFromContext(pr.In.Context()); ok {
				pr.Out.Header.Set(HeaderUserID, uid)
				pr.Out.Header.Del("Authorization")
			}
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.Warn("upstream request failed",
				zap.String("upstream", u.Host),
				zap.String("path", r.URL.Path),
				zap.Error(err))
			kit.WriteError(w, r, http.StatusBadGateway, "upstream unavailable", nil)
		},
	}, nil
}
