package routes

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/parleyhq/parley/pkg/api"
	"github.com/parleyhq/parley/pkg/storage"
)

// decodeJSON parses the request body into v. Returns a BadRequest error
// on malformed payloads; the content-type gate has already vetted the
// declared media type.
func decodeJSON(r *http.Request, v any) *api.Error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return api.NewBadRequest("invalid request JSON payload")
	}
	return nil
}

// idParam parses an integer route parameter. A malformed identifier is
// a client error.
func idParam(r *http.Request, name string) (int64, *api.Error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, api.NewBadRequest("invalid " + name)
	}
	return id, nil
}

// writeStoreError maps a storage failure to a terminal response.
// ErrNotFound stays a 404; everything else is an opaque database error,
// logged with its cause.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		api.WriteError(w, api.NewNotFound())
		return
	}
	slog.Error("storage operation failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	api.WriteError(w, api.NewDatabaseError(err))
}
