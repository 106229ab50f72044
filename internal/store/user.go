package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/avoronin/task-tracker/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetAll retrieves every user in the store, in no guaranteed order.
	GetAll(ctx context.Context) ([]*domain.User, error)

	// GetAllByIDs retrieves the subset of the given IDs that exist, in no
	// guaranteed order. IDs with no matching user are silently absent from
	// the result; an empty input yields an empty result, not an error.
	GetAllByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.User, error)

	// Update modifies an existing user's details.
	// Returns ErrUserNotFound if the user does not exist.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user from the store by their ID. Deleting a
	// nonexistent ID is not an error.
	Delete(ctx context.Context, id uuid.UUID) error
}
