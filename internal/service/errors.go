package service

import (
	"errors"
	"fmt"

	"github.com/avoronin/task-tracker/internal/domain"
	"github.com/avoronin/task-tracker/internal/store"
)

// Common sentinel errors surfaced by the service layer. The role-specific
// variants wrap ErrNotFound so callers can classify with a single
// errors.Is check while still seeing which relation was broken.
var (
	// ErrNotFound indicates that a referenced entity does not exist at the
	// point of lookup.
	ErrNotFound = errors.New("entity not found")

	// ErrTaskNotFound indicates that the requested task does not exist.
	ErrTaskNotFound = fmt.Errorf("%w: task", ErrNotFound)

	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrAuthorNotFound indicates that a task's author reference is broken.
	ErrAuthorNotFound = fmt.Errorf("%w: author", ErrNotFound)

	// ErrAssigneeNotFound indicates that a task's assignee reference is
	// broken.
	ErrAssigneeNotFound = fmt.Errorf("%w: assignee", ErrNotFound)

	// ErrObserverNotFound indicates that the user being added as an
	// observer does not exist.
	ErrObserverNotFound = fmt.Errorf("%w: observer", ErrNotFound)
)

// ServiceError wraps errors from the service layer with operation context.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "create_task").
	Operation string
	// Message is a human-readable description of the error.
	Message string
	// Err is the underlying error that caused the failure.
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// newServiceError wraps err with operation context. Sentinel errors the
// boundary already knows how to map (not-found and validation classes) are
// passed through untouched.
func newServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrNotFound) || errors.Is(err, domain.ErrValidation) {
		return err
	}

	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// mapUserLookupErr converts a store-level user miss into the given
// role-specific sentinel, passing other errors through.
func mapUserLookupErr(err error, sentinel error) error {
	if errors.Is(err, store.ErrUserNotFound) {
		return sentinel
	}
	return err
}
