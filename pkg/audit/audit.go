// Package audit implements the two-phase audit trail around the inner
// pipeline stages and handler. The before phase durably records a
// pending entry (with a freshly allocated, monotonic audit id) before
// any handler side effect can occur; the after phase updates the same
// entry with the observed response status once the downstream result is
// known, whether that result is a success or a terminal rejection.
package audit

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/parleyhq/parley/pkg/api"
	"github.com/parleyhq/parley/pkg/auth"
	"github.com/parleyhq/parley/pkg/observability"
	"github.com/parleyhq/parley/pkg/storage"
)

// auditIDKey is a private type for the audit id context key.
type auditIDKey struct{}

// ContextWithAuditID stores the allocated audit id in the context.
func ContextWithAuditID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, auditIDKey{}, id)
}

// AuditIDFromContext retrieves the audit id allocated for this request.
// The second result is false when the before phase has not run.
func AuditIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(auditIDKey{}).(int64)
	return id, ok
}

// Recorder writes the two-phase audit records.
type Recorder struct {
	store storage.AuditStore
}

// NewRecorder creates a Recorder backed by the given audit store.
func NewRecorder(store storage.AuditStore) *Recorder {
	return &Recorder{store: store}
}

// Middleware returns the audit stage. It wraps everything downstream,
// including route-specific stages, so the after phase observes the
// status of whatever response was produced there.
//
// A failed before phase is fatal for the request: without a durable
// pending record the handler must not run. A failed after phase never
// alters the client-visible response; it is surfaced through the log
// and the audit_status_write_failures metric only.
func (rec *Recorder) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject := ""
		if id := auth.IdentityFromContext(r.Context()); !id.Anonymous() {
			subject = id.Subject
		}

		auditID, err := rec.store.CreatePending(r.Context(), r.Method, r.URL.Path, subject)
		if err != nil {
			slog.Error("audit before-phase write failed",
				"method", r.Method,
				"path", r.URL.Path,
				"error", err,
			)
			api.WriteError(w, api.NewDatabaseError(err))
			return
		}
		observability.AuditRecordsTotal.Inc()

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r.WithContext(ContextWithAuditID(r.Context(), auditID)))

		if err := rec.store.SetStatus(r.Context(), auditID, sw.status); err != nil {
			slog.Warn("audit after-phase write failed",
				"audit_id", auditID,
				"status", sw.status,
				"error", err,
			)
			observability.AuditStatusWriteFailuresTotal.Inc()
		}
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code
// produced downstream.
type statusWriter struct {
	http.ResponseWriter
	status  int
	written bool
}

func (w *statusWriter) WriteHeader(status int) {
	if !w.written {
		w.status = status
		w.written = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.written = true
	}
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
