package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pollsterfm/pollster/internal/models"
	"github.com/pollsterfm/pollster/internal/shared"
)

// UserRepository persists Pollster.fm accounts.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository with the given database connection.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new [models.User] into the database with generated ID and sequence.
func (r *UserRepository) Create(user *models.User) error {
	sequence, err := NextSequence(r.db, "users")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	user.SetID(id)

	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO users (id, sequence, username, display_name, image_url, pronouns, bio, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		user.Username(),
		user.DisplayName(),
		user.ImageURL(),
		user.Pronouns(),
		user.Bio(),
		user.CreatedAt(),
		user.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// Get retrieves a user by ID, excluding soft-deleted users.
func (r *UserRepository) Get(id string) (*models.User, error) {
	query := `
		SELECT id, sequence, username, display_name, image_url, pronouns, bio, created_at, updated_at, deleted_at
		FROM users
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByUsername retrieves a user by username, excluding soft-deleted users.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, sequence, username, display_name, image_url, pronouns, bio, created_at, updated_at, deleted_at
		FROM users
		WHERE username = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, username))
}

func (r *UserRepository) scanOne(row *sql.Row) (*models.User, error) {
	var (
		id, username, displayName, imageURL, pronouns, bio string
		sequence                                           int
		createdAt, updatedAt                               time.Time
		deletedAt                                          sql.NullTime
	)

	err := row.Scan(&id, &sequence, &username, &displayName, &imageURL, &pronouns, &bio, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	var deleted *time.Time
	if deletedAt.Valid {
		deleted = &deletedAt.Time
	}

	return models.RestoreUser(id, sequence, username, displayName, imageURL, pronouns, bio, createdAt, updatedAt, deleted), nil
}
