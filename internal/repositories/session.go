package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pollsterfm/pollster/internal/models"
	"github.com/pollsterfm/pollster/internal/shared"
)

// Default lifetime for new sessions.
const sessionTTL = 30 * 24 * time.Hour

// SessionRepository persists opaque session tokens in SQLite.
//
// Expired rows are deleted lazily on read; a missing or expired session is
// reported as [shared.ErrNotFound], not an error condition.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository with the given database connection.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create issues a new session for the given user and returns it.
func (r *SessionRepository) Create(ctx context.Context, userID string) (*models.Session, error) {
	now := time.Now()
	session := &models.Session{
		ID:        shared.GenerateID(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(sessionTTL),
	}

	query := `
		INSERT INTO sessions (id, user_id, created_at, expires_at)
		VALUES (?, ?, ?, ?)
	`

	if _, err := r.db.ExecContext(ctx, query, session.ID, session.UserID, session.CreatedAt, session.ExpiresAt); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// Get retrieves a session by token. Expired sessions are deleted and reported
// as NotFound.
func (r *SessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	query := `
		SELECT id, user_id, created_at, expires_at
		FROM sessions
		WHERE id = ?
	`

	var session models.Session
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID,
		&session.UserID,
		&session.CreatedAt,
		&session.ExpiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	if session.Expired(time.Now()) {
		if err := r.Delete(ctx, session.ID); err != nil {
			return nil, fmt.Errorf("failed to prune expired session: %w", err)
		}
		return nil, shared.ErrNotFound
	}

	return &session, nil
}

// Delete removes a session by token. Deleting an absent session is a no-op.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteForUser removes every session belonging to a user (sign out everywhere).
func (r *SessionRepository) DeleteForUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}
	return nil
}
