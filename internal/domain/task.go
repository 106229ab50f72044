package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the workflow state of a task. The service layer
// treats the value as opaque: any status supplied by the caller is stored
// as-is, and no transition rules are enforced.
type TaskStatus string

// Well-known task status values.
const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

// Common validation errors for Task.
var (
	ErrEmptyTaskID       = fmt.Errorf("%w: task ID cannot be empty", ErrValidation)
	ErrEmptyTaskName     = fmt.Errorf("%w: task name cannot be empty", ErrValidation)
	ErrMissingAuthorID   = fmt.Errorf("%w: author ID is missing", ErrValidation)
	ErrMissingAssigneeID = fmt.Errorf("%w: assignee ID is missing", ErrValidation)
	ErrMissingObserverIDs = fmt.Errorf(
		"%w: observer IDs are missing",
		ErrValidation,
	)
)

// Task represents a work item. It stores only the IDs of the users it
// relates to; the hydrated author, assignee and observer objects live on
// TaskView and are recomputed on every read.
type Task struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	AuthorID    uuid.UUID   `json:"author_id"`
	AssigneeID  uuid.UUID   `json:"assignee_id"`
	ObserverIDs []uuid.UUID `json:"observer_ids"`
	Status      TaskStatus  `json:"status"`
}

// NewTask creates a new Task with a generated ID and CreatedAt == UpdatedAt
// set to the current time. Observer IDs are deduplicated; a nil slice is
// normalized to an empty set. Returns an error if validation fails.
func NewTask(
	name, description string,
	authorID, assigneeID uuid.UUID,
	observerIDs []uuid.UUID,
	status TaskStatus,
) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		AuthorID:    authorID,
		AssigneeID:  assigneeID,
		ObserverIDs: dedupeIDs(observerIDs),
		Status:      status,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.Name == "" {
		return ErrEmptyTaskName
	}

	return t.ValidateRefs()
}

// ValidateRefs checks that the reference fields required for hydration are
// present. A task missing any of them is malformed and must never be
// resolved or served.
func (t *Task) ValidateRefs() error {
	if t.AuthorID == uuid.Nil {
		return ErrMissingAuthorID
	}

	if t.AssigneeID == uuid.Nil {
		return ErrMissingAssigneeID
	}

	if t.ObserverIDs == nil {
		return ErrMissingObserverIDs
	}

	return nil
}

// HasObserver reports whether the given user ID is already in the
// observer set.
func (t *Task) HasObserver(observerID uuid.UUID) bool {
	for _, id := range t.ObserverIDs {
		if id == observerID {
			return true
		}
	}
	return false
}

// AddObserver adds the given user ID to the observer set and refreshes
// UpdatedAt. Adding an ID that is already present leaves the set unchanged.
// Reports whether the set grew.
func (t *Task) AddObserver(observerID uuid.UUID) bool {
	t.UpdatedAt = time.Now().UTC()

	if t.HasObserver(observerID) {
		return false
	}

	t.ObserverIDs = append(t.ObserverIDs, observerID)
	return true
}

// TaskPatch carries the fields of a partial task update. A nil field means
// "keep the existing value"; ObserverIDs follows the same rule with a nil
// slice.
type TaskPatch struct {
	Name        *string
	Description *string
	AuthorID    *uuid.UUID
	AssigneeID  *uuid.UUID
	ObserverIDs []uuid.UUID
	Status      *TaskStatus
}

// Merge returns a new Task combining the receiver with the patch: each
// patch field overrides the existing value only when present. The ID and
// CreatedAt are always retained and UpdatedAt is refreshed. The receiver
// is not modified.
func (t *Task) Merge(patch TaskPatch) *Task {
	merged := &Task{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   time.Now().UTC(),
		AuthorID:    t.AuthorID,
		AssigneeID:  t.AssigneeID,
		ObserverIDs: t.ObserverIDs,
		Status:      t.Status,
	}

	if patch.Name != nil {
		merged.Name = *patch.Name
	}
	if patch.Description != nil {
		merged.Description = *patch.Description
	}
	if patch.AuthorID != nil {
		merged.AuthorID = *patch.AuthorID
	}
	if patch.AssigneeID != nil {
		merged.AssigneeID = *patch.AssigneeID
	}
	if patch.ObserverIDs != nil {
		merged.ObserverIDs = dedupeIDs(patch.ObserverIDs)
	}
	if patch.Status != nil {
		merged.Status = *patch.Status
	}

	return merged
}

// dedupeIDs returns a copy of ids with duplicates removed, preserving the
// first occurrence order. A nil input yields an empty, non-nil slice.
func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	deduped := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		deduped = append(deduped, id)
	}
	return deduped
}
