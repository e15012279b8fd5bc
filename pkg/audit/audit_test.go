package audit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/parleyhq/parley/pkg/auth"
	"github.com/parleyhq/parley/pkg/storage/memory"
)

// failingAuditStore fails configurable phases of the audit write.
type failingAuditStore struct {
	failCreate bool
	failStatus bool
	created    int
}

func (s *failingAuditStore) CreatePending(_ context.Context, method, path, userID string) (int64, error) {
	if s.failCreate {
		return 0, errors.New("write timeout")
	}
	s.created++
	return int64(s.created), nil
}

func (s *failingAuditStore) SetStatus(_ context.Context, auditID int64, status int) error {
	if s.failStatus {
		return errors.New("write timeout")
	}
	return nil
}

func authenticatedRequest(method, target, subject string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return req.WithContext(auth.SetIdentity(req.Context(), &auth.Identity{Subject: subject}))
}

func TestMiddleware_RecordsBothPhases(t *testing.T) {
	store := memory.New()
	handler := NewRecorder(store).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authenticatedRequest("POST", "/spaces", "alice"))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	records := store.AuditRecords()
	if len(records) != 1 {
		t.Fatalf("audit records = %d, want 1", len(records))
	}
	got := records[0]
	if got.Method != "POST" || got.Path != "/spaces" || got.UserID != "alice" {
		t.Errorf("record = %+v, want POST /spaces by alice", got)
	}
	if got.Status == nil || *got.Status != http.StatusCreated {
		t.Errorf("record status = %v, want 201", got.Status)
	}
}

func TestMiddleware_AnonymousRequestHasEmptySubject(t *testing.T) {
	store := memory.New()
	handler := NewRecorder(store).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authenticatedRequest("GET", "/spaces/1/messages", ""))

	records := store.AuditRecords()
	if len(records) != 1 {
		t.Fatalf("audit records = %d, want 1", len(records))
	}
	if records[0].UserID != "" {
		t.Errorf("user id = %q, want empty for anonymous", records[0].UserID)
	}
}

func TestMiddleware_DefaultStatusIsOK(t *testing.T) {
	store := memory.New()
	handler := NewRecorder(store).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Handler writes neither header nor body.
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authenticatedRequest("GET", "/healthz", ""))

	records := store.AuditRecords()
	if len(records) != 1 {
		t.Fatalf("audit records = %d, want 1", len(records))
	}
	if records[0].Status == nil || *records[0].Status != http.StatusOK {
		t.Errorf("status = %v, want implicit 200", records[0].Status)
	}
}

func TestMiddleware_BeforePhaseFailureStopsRequest(t *testing.T) {
	store := &failingAuditStore{failCreate: true}
	handler := NewRecorder(store).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler ran without a pending audit record")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authenticatedRequest("POST", "/spaces", "alice"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestMiddleware_AfterPhaseFailureLeavesResponseUntouched(t *testing.T) {
	store := &failingAuditStore{failStatus: true}
	handler := NewRecorder(store).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"uri":"/spaces/1"}`))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authenticatedRequest("POST", "/spaces", "alice"))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 despite failed status write", rec.Code)
	}
	if rec.Body.String() != `{"uri":"/spaces/1"}` {
		t.Errorf("body = %q, altered by failed status write", rec.Body.String())
	}
}

func TestMiddleware_AuditIDVisibleToHandler(t *testing.T) {
	store := memory.New()
	var gotID int64
	var gotOK bool
	handler := NewRecorder(store).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotOK = AuditIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authenticatedRequest("GET", "/spaces/1/messages", "alice"))

	if !gotOK {
		t.Fatal("audit id not present in handler context")
	}
	if gotID == 0 {
		t.Error("audit id = 0, want allocated id")
	}
}

func TestMiddleware_AuditIDsAreUniqueAndIncreasing(t *testing.T) {
	store := memory.New()
	handler := NewRecorder(store).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, authenticatedRequest("GET", "/spaces/1/messages", "alice"))
	}

	seen := make(map[int64]bool)
	for _, record := range store.AuditRecords() {
		if seen[record.ID] {
			t.Fatalf("audit id %d allocated twice", record.ID)
		}
		seen[record.ID] = true
	}
	if len(seen) != 5 {
		t.Errorf("distinct audit ids = %d, want 5", len(seen))
	}
}
