package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/avoronin/task-tracker/internal/domain"
)

// TaskStore defines the interface for task data persistence, including the
// predicate scans the cascading delete depends on. Implementations persist
// the observer ID set together with the task record; they do not verify
// that the referenced users exist.
type TaskStore interface {
	// Create saves a new task, observer set included.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID, observer set included.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// GetAll retrieves every task in the store, in no guaranteed order.
	GetAll(ctx context.Context) ([]*domain.Task, error)

	// Update replaces an existing task's fields and observer set.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// FindByAuthorID retrieves all tasks authored by the given user.
	FindByAuthorID(ctx context.Context, authorID uuid.UUID) ([]*domain.Task, error)

	// FindByAssigneeID retrieves all tasks assigned to the given user.
	FindByAssigneeID(ctx context.Context, assigneeID uuid.UUID) ([]*domain.Task, error)

	// FindByObserverID retrieves all tasks whose observer set contains the
	// given user.
	FindByObserverID(ctx context.Context, observerID uuid.UUID) ([]*domain.Task, error)

	// Delete removes a task from the store by its ID. Deleting a
	// nonexistent ID is not an error.
	Delete(ctx context.Context, id uuid.UUID) error
}
