package catalog

import (
	"net/http"

	"PhoneCompare/pkg/kit"
)

type HTTPDeps = kit.HTTPDeps

func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	r := kit.NewRouter(deps)
	r.Mount("/", s.Routes())
	return r
}
