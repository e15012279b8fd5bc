package authz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/parleyhq/parley/pkg/auth"
	"github.com/parleyhq/parley/pkg/storage/memory"
)

// newTestRouter mounts a handler behind the authorizer stage with the
// given requirement, the way routes are registered in production.
func newTestRouter(store *memory.Store, required Permission) http.Handler {
	r := chi.NewRouter()
	r.With(Require(store, required)).Post("/spaces/{spaceID}/messages", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	return r
}

// asSubject attaches a resolved identity, standing in for the
// authenticator stage that runs earlier in the pipeline.
func asSubject(req *http.Request, subject string) *http.Request {
	return req.WithContext(auth.SetIdentity(req.Context(), &auth.Identity{Subject: subject}))
}

func TestRequire_Anonymous_Unauthorized(t *testing.T) {
	router := newTestRouter(memory.New(), WriteAccess)

	req := httptest.NewRequest("POST", "/spaces/1/messages", nil)
	req = asSubject(req, "")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequire_AbsentGrant_Forbidden(t *testing.T) {
	router := newTestRouter(memory.New(), WriteAccess)

	req := asSubject(httptest.NewRequest("POST", "/spaces/1/messages", nil), "alice")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 (absent grant is the all-false grant)", rec.Code)
	}
}

func TestRequire_InsufficientGrant_Forbidden(t *testing.T) {
	store := memory.New()
	store.GrantPermissions(context.Background(), 1, "alice", "r")
	router := newTestRouter(store, WriteAccess)

	req := asSubject(httptest.NewRequest("POST", "/spaces/1/messages", nil), "alice")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestRequire_SufficientGrant_Passes(t *testing.T) {
	store := memory.New()
	store.GrantPermissions(context.Background(), 1, "alice", "rw")
	router := newTestRouter(store, WriteAccess)

	req := asSubject(httptest.NewRequest("POST", "/spaces/1/messages", nil), "alice")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
}

func TestRequire_GrantOnDifferentSpace_Forbidden(t *testing.T) {
	store := memory.New()
	store.GrantPermissions(context.Background(), 2, "alice", "rwd")
	router := newTestRouter(store, WriteAccess)

	req := asSubject(httptest.NewRequest("POST", "/spaces/1/messages", nil), "alice")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 (grants are per space)", rec.Code)
	}
}

func TestRequire_MalformedSpaceID_BadRequest(t *testing.T) {
	router := newTestRouter(memory.New(), WriteAccess)

	req := asSubject(httptest.NewRequest("POST", "/spaces/abc/messages", nil), "alice")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
