package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskline/taskline-api/internal/domain"
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	// Create saves a new user to the store.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address, including the
	// credential hash for password verification.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// UpdateName changes a user's display name and returns the updated user.
	// Returns ErrUserNotFound if the user does not exist.
	UpdateName(ctx context.Context, id uuid.UUID, name string) (*domain.User, error)

	// List returns all users ordered by name, as projections without
	// credential hashes. Used by the assignment picker.
	List(ctx context.Context) ([]*domain.User, error)
}
