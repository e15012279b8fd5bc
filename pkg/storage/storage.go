package storage

import (
	"context"
	"time"
)

// Message is a stored chat message within a space.
type Message struct {
	SpaceID int64
	ID      int64
	Author  string
	Text    string
	Time    time.Time
}

// CredentialStore looks up stored password hashes for authentication.
type CredentialStore interface {
	// FindPasswordHash returns the stored password hash for the
	// username, or ErrNotFound when no such user exists.
	FindPasswordHash(ctx context.Context, username string) (string, error)
}

// PermissionStore reads capability grants keyed by (space, subject).
type PermissionStore interface {
	// FindPermissions returns the capability string (characters r, w, d)
	// granted to subject on the space, or ErrNotFound when no grant row
	// exists. Absence of a row means no access.
	FindPermissions(ctx context.Context, spaceID int64, subject string) (string, error)
}

// AuditStore implements the two-phase audit trail.
type AuditStore interface {
	// CreatePending allocates the next audit id from the shared sequence
	// and inserts the pending record, atomically. The record is durably
	// visible once CreatePending returns. userID is empty for anonymous
	// requests.
	CreatePending(ctx context.Context, method, path, userID string) (int64, error)

	// SetStatus records the response status for a previously created
	// audit id. It is an independent write outside the CreatePending
	// transaction.
	SetStatus(ctx context.Context, auditID int64, status int) error
}

// SpaceStore persists spaces.
type SpaceStore interface {
	// CreateSpace inserts a space and grants the owner full rwd access
	// to it in the same transaction. Returns the new space id.
	CreateSpace(ctx context.Context, name, owner string) (int64, error)
}

// MessageStore persists messages within spaces.
type MessageStore interface {
	// PostMessage inserts a message and returns its id.
	PostMessage(ctx context.Context, spaceID int64, author, text string) (int64, error)

	// GetMessage returns one message, or ErrNotFound.
	GetMessage(ctx context.Context, spaceID, msgID int64) (*Message, error)

	// FindMessagesSince returns the ids of messages in the space with
	// a timestamp at or after since.
	FindMessagesSince(ctx context.Context, spaceID int64, since time.Time) ([]int64, error)

	// DeleteMessage removes a message. Deleting an absent message is
	// not an error.
	DeleteMessage(ctx context.Context, spaceID, msgID int64) error
}

// UserStore persists registered users.
type UserStore interface {
	// CreateUser inserts a user with its password hash. Returns
	// ErrConflict when the username is taken.
	CreateUser(ctx context.Context, username, pwHash string) error
}

// Store is the full persistence surface consumed by the service.
type Store interface {
	CredentialStore
	PermissionStore
	AuditStore
	SpaceStore
	MessageStore
	UserStore
}
