package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/avoronin/task-tracker/internal/domain"
	"github.com/avoronin/task-tracker/internal/store"
)

// MockTaskStore implements store.TaskStore for testing.
type MockTaskStore struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]*domain.Task

	// Function fields for customizable behavior; when set they replace
	// the default map-backed implementation.
	GetByIDFn          func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	GetAllFn           func(ctx context.Context) ([]*domain.Task, error)
	UpdateFn           func(ctx context.Context, task *domain.Task) error
	DeleteFn           func(ctx context.Context, id uuid.UUID) error
	FindByAuthorIDFn   func(ctx context.Context, authorID uuid.UUID) ([]*domain.Task, error)
	FindByAssigneeIDFn func(ctx context.Context, assigneeID uuid.UUID) ([]*domain.Task, error)
	FindByObserverIDFn func(ctx context.Context, observerID uuid.UUID) ([]*domain.Task, error)
}

// Ensure MockTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates a new mock store with initialized defaults.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		tasks: make(map[uuid.UUID]*domain.Task),
	}
}

// Create implements the TaskStore interface.
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.tasks[task.ID] = copyTask(task)
	return nil
}

// GetByID implements the TaskStore interface.
func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	task, exists := m.tasks[id]
	if !exists {
		return nil, store.ErrTaskNotFound
	}
	return copyTask(task), nil
}

// GetAll implements the TaskStore interface.
func (m *MockTaskStore) GetAll(ctx context.Context) ([]*domain.Task, error) {
	if m.GetAllFn != nil {
		return m.GetAllFn(ctx)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	tasks := []*domain.Task{}
	for _, task := range m.tasks {
		tasks = append(tasks, copyTask(task))
	}
	return tasks, nil
}

// Update implements the TaskStore interface.
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}

	if err := task.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.tasks[task.ID]; !exists {
		return store.ErrTaskNotFound
	}

	m.tasks[task.ID] = copyTask(task)
	return nil
}

// FindByAuthorID implements the TaskStore interface.
func (m *MockTaskStore) FindByAuthorID(
	ctx context.Context,
	authorID uuid.UUID,
) ([]*domain.Task, error) {
	if m.FindByAuthorIDFn != nil {
		return m.FindByAuthorIDFn(ctx, authorID)
	}

	return m.filter(func(t *domain.Task) bool {
		return t.AuthorID == authorID
	}), nil
}

// FindByAssigneeID implements the TaskStore interface.
func (m *MockTaskStore) FindByAssigneeID(
	ctx context.Context,
	assigneeID uuid.UUID,
) ([]*domain.Task, error) {
	if m.FindByAssigneeIDFn != nil {
		return m.FindByAssigneeIDFn(ctx, assigneeID)
	}

	return m.filter(func(t *domain.Task) bool {
		return t.AssigneeID == assigneeID
	}), nil
}

// FindByObserverID implements the TaskStore interface.
func (m *MockTaskStore) FindByObserverID(
	ctx context.Context,
	observerID uuid.UUID,
) ([]*domain.Task, error) {
	if m.FindByObserverIDFn != nil {
		return m.FindByObserverIDFn(ctx, observerID)
	}

	return m.filter(func(t *domain.Task) bool {
		return t.HasObserver(observerID)
	}), nil
}

// Delete implements the TaskStore interface. Deleting a nonexistent ID is
// not an error.
func (m *MockTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.tasks, id)
	return nil
}

// Len reports the number of stored tasks.
func (m *MockTaskStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tasks)
}

func (m *MockTaskStore) filter(keep func(*domain.Task) bool) []*domain.Task {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tasks := []*domain.Task{}
	for _, task := range m.tasks {
		if keep(task) {
			tasks = append(tasks, copyTask(task))
		}
	}
	return tasks
}

// copyTask clones a task including its observer slice, so callers cannot
// mutate stored state through a returned pointer.
func copyTask(task *domain.Task) *domain.Task {
	copied := *task
	copied.ObserverIDs = make([]uuid.UUID, len(task.ObserverIDs))
	copy(copied.ObserverIDs, task.ObserverIDs)
	return &copied
}
