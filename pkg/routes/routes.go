// Package routes wires the request pipeline and the resource handlers
// into the service's HTTP router.
//
// Every request passes the global stages in a fixed order: recovery,
// request id, logging, metrics, content-type gate, rate limiter,
// authenticator, audit recorder. Route-specific stages (require-auth,
// authorizer with a static permission requirement) wrap individual
// handlers. The first stage to write a terminal response stops the
// chain; the audit recorder still observes that response's status
// because it wraps everything downstream of it.
package routes

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/parleyhq/parley/pkg/api"
	"github.com/parleyhq/parley/pkg/audit"
	"github.com/parleyhq/parley/pkg/auth"
	"github.com/parleyhq/parley/pkg/authz"
	"github.com/parleyhq/parley/pkg/observability"
	"github.com/parleyhq/parley/pkg/ratelimit"
	"github.com/parleyhq/parley/pkg/storage"
	"github.com/parleyhq/parley/pkg/transport"
)

// Config carries the collaborators the router composes.
type Config struct {
	Store   storage.Store
	Limiter *ratelimit.Limiter
	Logger  *slog.Logger

	// MetricsPath mounts the Prometheus endpoint when non-empty.
	// It sits outside the JSON/limiter pipeline, like /healthz.
	MetricsPath string
}

// NewRouter builds the service router with the full pipeline.
func NewRouter(cfg Config) http.Handler {
	h := &handlers{store: cfg.Store}
	recorder := audit.NewRecorder(cfg.Store)

	r := chi.NewRouter()
	r.Use(transport.Recovery)
	r.Use(transport.RequestID)
	r.Use(transport.Logging(cfg.Logger))
	r.Use(observability.MetricsMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	if cfg.MetricsPath != "" {
		r.Handle(cfg.MetricsPath, promhttp.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(transport.ContentTypeGate)
		r.Use(ratelimit.Middleware(cfg.Limiter))
		r.Use(auth.Authenticate(cfg.Store))
		r.Use(recorder.Middleware)

		r.Route("/spaces", func(r chi.Router) {
			r.With(auth.RequireAuthentication).Post("/", h.createSpace)

			r.Route("/{spaceID}/messages", func(r chi.Router) {
				r.With(auth.RequireAuthentication,
					authz.Require(cfg.Store, authz.WriteAccess)).Post("/", h.postMessage)
				r.With(auth.RequireAuthentication,
					authz.Require(cfg.Store, authz.ReadAccess)).Get("/", h.findMessages)
				r.With(auth.RequireAuthentication,
					authz.Require(cfg.Store, authz.ReadAccess)).Get("/{msgID}", h.readMessage)
				r.With(auth.RequireAuthentication,
					authz.Require(cfg.Store, authz.DeleteAccess)).Delete("/{msgID}", h.deleteMessage)
			})
		})

		r.Post("/users", h.registerUser)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		api.WriteError(w, api.NewNotFound())
	})

	return r
}
