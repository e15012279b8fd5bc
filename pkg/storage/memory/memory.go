// Package memory provides an in-memory implementation of storage.Store
// for testing and lightweight deployments. All state is lost when the
// process restarts.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/parleyhq/parley/pkg/storage"
)

// permKey identifies a permission grant row.
type permKey struct {
	spaceID int64
	subject string
}

// msgKey identifies a message row.
type msgKey struct {
	spaceID int64
	msgID   int64
}

// auditEntry is one row of the audit log.
type auditEntry struct {
	Method string
	Path   string
	UserID string
	Status *int
}

type space struct {
	name  string
	owner string
}

// Store is a mutex-guarded in-memory storage.Store.
type Store struct {
	mu          sync.Mutex
	users       map[string]string // username -> password hash
	permissions map[permKey]string
	spaces      map[int64]space
	messages    map[msgKey]*storage.Message
	audit       map[int64]*auditEntry
	nextSpaceID int64
	nextMsgID   int64
	nextAuditID int64
}

// Ensure Store implements storage.Store at compile time.
var _ storage.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:       make(map[string]string),
		permissions: make(map[permKey]string),
		spaces:      make(map[int64]space),
		messages:    make(map[msgKey]*storage.Message),
		audit:       make(map[int64]*auditEntry),
	}
}

// FindPasswordHash returns the stored hash for username.
func (s *Store) FindPasswordHash(_ context.Context, username string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash, ok := s.users[username]
	if !ok {
		return "", storage.ErrNotFound
	}
	return hash, nil
}

// CreateUser inserts a user, rejecting duplicates.
func (s *Store) CreateUser(_ context.Context, username, pwHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[username]; exists {
		return storage.ErrConflict
	}
	s.users[username] = pwHash
	return nil
}

// FindPermissions returns the capability string for (spaceID, subject).
func (s *Store) FindPermissions(_ context.Context, spaceID int64, subject string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	perms, ok := s.permissions[permKey{spaceID: spaceID, subject: subject}]
	if !ok {
		return "", storage.ErrNotFound
	}
	return perms, nil
}

// GrantPermissions sets the capability string for (spaceID, subject).
// Used by tests and by CreateSpace for the owner grant.
func (s *Store) GrantPermissions(_ context.Context, spaceID int64, subject, perms string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.permissions[permKey{spaceID: spaceID, subject: subject}] = perms
	return nil
}

// CreateSpace inserts a space and grants the owner full access.
func (s *Store) CreateSpace(_ context.Context, name, owner string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSpaceID++
	id := s.nextSpaceID
	s.spaces[id] = space{name: name, owner: owner}
	s.permissions[permKey{spaceID: id, subject: owner}] = "rwd"
	return id, nil
}

// PostMessage inserts a message.
func (s *Store) PostMessage(_ context.Context, spaceID int64, author, text string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextMsgID++
	id := s.nextMsgID
	s.messages[msgKey{spaceID: spaceID, msgID: id}] = &storage.Message{
		SpaceID: spaceID,
		ID:      id,
		Author:  author,
		Text:    text,
		Time:    time.Now().UTC(),
	}
	return id, nil
}

// GetMessage returns one message or ErrNotFound.
func (s *Store) GetMessage(_ context.Context, spaceID, msgID int64) (*storage.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, ok := s.messages[msgKey{spaceID: spaceID, msgID: msgID}]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copy := *msg
	return &copy, nil
}

// FindMessagesSince returns ids of messages at or after since.
func (s *Store) FindMessagesSince(_ context.Context, spaceID int64, since time.Time) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []int64
	for key, msg := range s.messages {
		if key.spaceID == spaceID && !msg.Time.Before(since) {
			ids = append(ids, key.msgID)
		}
	}
	return ids, nil
}

// DeleteMessage removes a message. Absent messages are ignored.
func (s *Store) DeleteMessage(_ context.Context, spaceID, msgID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.messages, msgKey{spaceID: spaceID, msgID: msgID})
	return nil
}

// CreatePending allocates the next audit id and inserts the pending record.
func (s *Store) CreatePending(_ context.Context, method, path, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextAuditID++
	id := s.nextAuditID
	s.audit[id] = &auditEntry{Method: method, Path: path, UserID: userID}
	return id, nil
}

// SetStatus records the response status on an existing audit record.
func (s *Store) SetStatus(_ context.Context, auditID int64, status int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.audit[auditID]
	if !ok {
		return storage.ErrNotFound
	}
	entry.Status = &status
	return nil
}

// AuditRecord is a snapshot of one audit row, exposed for tests.
type AuditRecord struct {
	ID     int64
	Method string
	Path   string
	UserID string
	Status *int
}

// AuditRecords returns a snapshot of all audit rows, for tests.
func (s *Store) AuditRecords() []AuditRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]AuditRecord, 0, len(s.audit))
	for id, e := range s.audit {
		rec := AuditRecord{ID: id, Method: e.Method, Path: e.Path, UserID: e.UserID}
		if e.Status != nil {
			status := *e.Status
			rec.Status = &status
		}
		records = append(records, rec)
	}
	return records
}
