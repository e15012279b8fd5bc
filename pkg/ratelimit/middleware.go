package ratelimit

import (
	"log/slog"
	"net/http"

	"github.com/parleyhq/parley/pkg/api"
	"github.com/parleyhq/parley/pkg/observability"
)

// Middleware returns the admission stage of the pipeline. Denied
// requests are rejected with 429 and the fixed Retry-After hint before
// any downstream stage runs.
func Middleware(limiter *Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if allowed, _ := limiter.Admit(); !allowed {
				slog.Warn("rate limit exceeded",
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
				)
				observability.RateLimitRejectedTotal.Inc()
				api.WriteError(w, api.NewTooManyRequests())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
