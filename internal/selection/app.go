package selection

import (
	"net/http"

	"PhoneCompare/pkg/kit"
)

type HTTPDeps = kit.HTTPDeps

// NewHandler serves the selection API. Every list route runs behind the
// owner resolver; health checks and /metrics do not.
func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	if s.Log == nil {
		s.Log = deps.Log
	}
	r := kit.NewRouter(deps)
	r.Mount("/", s.Routes())
	return r
}
