package transport

import (
	"mime"
	"net/http"

	"github.com/parleyhq/parley/pkg/api"
)

// ContentTypeGate returns the first pipeline stage: state-mutating
// methods must declare an application/json body. Requests with other
// methods pass through untouched.
func ContentTypeGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil || mediaType != "application/json" {
				api.WriteError(w, api.NewUnsupportedMedia())
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
