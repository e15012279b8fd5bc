// Package postgres provides a PostgreSQL implementation of storage.Store.
// It uses pgx/v5 for connection pooling and runs embedded SQL migrations
// at startup when configured.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/parleyhq/parley/pkg/storage"
)

// Store is a PostgreSQL-backed storage.Store.
type Store struct {
	pool *pgxpool.Pool
}

// Ensure Store implements storage.Store at compile time.
var _ storage.Store = (*Store)(nil)

// New creates a new PostgreSQL store with the given configuration.
// If MigrateOnStart is true, schema migrations are applied automatically.
func New(ctx context.Context, cfg Config) (*Store, error) {
	cfg.defaults()

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Verify connectivity.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &Store{pool: pool}

	if cfg.MigrateOnStart {
		if err := s.migrate(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}

	return s, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// FindPasswordHash returns the stored password hash for username.
func (s *Store) FindPasswordHash(ctx context.Context, username string) (string, error) {
	var hash string
	err := s.pool.QueryRow(ctx,
		"SELECT pw_hash FROM users WHERE user_id = $1",
		username,
	).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("querying password hash: %w", err)
	}
	return hash, nil
}

// CreateUser inserts a user with its password hash.
func (s *Store) CreateUser(ctx context.Context, username, pwHash string) error {
	_, err := s.pool.Exec(ctx,
		"INSERT INTO users (user_id, pw_hash) VALUES ($1, $2)",
		username, pwHash,
	)
	if isDuplicateKey(err) {
		return storage.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

// FindPermissions returns the capability string for (spaceID, subject).
func (s *Store) FindPermissions(ctx context.Context, spaceID int64, subject string) (string, error) {
	var perms string
	err := s.pool.QueryRow(ctx,
		"SELECT perms FROM permissions WHERE space_id = $1 AND user_id = $2",
		spaceID, subject,
	).Scan(&perms)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("querying permissions: %w", err)
	}
	return perms, nil
}

// CreateSpace inserts a space and grants the owner full access in the
// same transaction.
func (s *Store) CreateSpace(ctx context.Context, name, owner string) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var spaceID int64
	err = tx.QueryRow(ctx,
		"INSERT INTO spaces (name, owner) VALUES ($1, $2) RETURNING space_id",
		name, owner,
	).Scan(&spaceID)
	if err != nil {
		return 0, fmt.Errorf("inserting space: %w", err)
	}

	_, err = tx.Exec(ctx,
		"INSERT INTO permissions (space_id, user_id, perms) VALUES ($1, $2, 'rwd')",
		spaceID, owner,
	)
	if err != nil {
		return 0, fmt.Errorf("granting owner permissions: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing space creation: %w", err)
	}
	return spaceID, nil
}

// PostMessage inserts a message and returns its id.
func (s *Store) PostMessage(ctx context.Context, spaceID int64, author, text string) (int64, error) {
	var msgID int64
	err := s.pool.QueryRow(ctx,
		"INSERT INTO messages (space_id, author, msg_text) VALUES ($1, $2, $3) RETURNING msg_id",
		spaceID, author, text,
	).Scan(&msgID)
	if err != nil {
		return 0, fmt.Errorf("inserting message: %w", err)
	}
	return msgID, nil
}

// GetMessage returns one message, or storage.ErrNotFound.
func (s *Store) GetMessage(ctx context.Context, spaceID, msgID int64) (*storage.Message, error) {
	msg := storage.Message{SpaceID: spaceID, ID: msgID}
	err := s.pool.QueryRow(ctx,
		"SELECT author, msg_text, msg_time FROM messages WHERE space_id = $1 AND msg_id = $2",
		spaceID, msgID,
	).Scan(&msg.Author, &msg.Text, &msg.Time)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying message: %w", err)
	}
	return &msg, nil
}

// FindMessagesSince returns ids of messages at or after since.
func (s *Store) FindMessagesSince(ctx context.Context, spaceID int64, since time.Time) ([]int64, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT msg_id FROM messages WHERE space_id = $1 AND msg_time >= $2",
		spaceID, since,
	)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning message id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteMessage removes a message. Absent messages are ignored.
func (s *Store) DeleteMessage(ctx context.Context, spaceID, msgID int64) error {
	_, err := s.pool.Exec(ctx,
		"DELETE FROM messages WHERE space_id = $1 AND msg_id = $2",
		spaceID, msgID,
	)
	if err != nil {
		return fmt.Errorf("deleting message: %w", err)
	}
	return nil
}

// CreatePending allocates the next audit id and inserts the pending
// record in one transaction. The record is durably visible once the
// transaction commits.
func (s *Store) CreatePending(ctx context.Context, method, path, userID string) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning audit transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var auditID int64
	if err := tx.QueryRow(ctx, "SELECT nextval('audit_id_seq')").Scan(&auditID); err != nil {
		return 0, fmt.Errorf("allocating audit id: %w", err)
	}

	_, err = tx.Exec(ctx,
		"INSERT INTO audit_log (audit_id, method, path, user_id) VALUES ($1, $2, $3, $4)",
		auditID, method, path, nullString(userID),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting pending audit record: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing pending audit record: %w", err)
	}
	return auditID, nil
}

// SetStatus records the response status for an existing audit id,
// outside the CreatePending transaction.
func (s *Store) SetStatus(ctx context.Context, auditID int64, status int) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE audit_log SET status = $2 WHERE audit_id = $1",
		auditID, status,
	)
	if err != nil {
		return fmt.Errorf("updating audit status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// nullString maps the empty string to SQL NULL.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// isDuplicateKey checks if the error is a PostgreSQL unique violation (23505).
func isDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
