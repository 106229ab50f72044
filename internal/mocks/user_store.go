package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/avoronin/task-tracker/internal/domain"
	"github.com/avoronin/task-tracker/internal/store"
)

// MockUserStore implements store.UserStore for testing.
type MockUserStore struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*domain.User

	// Function fields for customizable behavior; when set they replace
	// the default map-backed implementation.
	GetByIDFn     func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetAllByIDsFn func(ctx context.Context, ids []uuid.UUID) ([]*domain.User, error)
	DeleteFn      func(ctx context.Context, id uuid.UUID) error
}

// Ensure MockUserStore implements store.UserStore interface
var _ store.UserStore = (*MockUserStore)(nil)

// NewMockUserStore creates a new mock store with initialized defaults.
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		users: make(map[uuid.UUID]*domain.User),
	}
}

// Create implements the UserStore interface.
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *user
	m.users[user.ID] = &copied
	return nil
}

// GetByID implements the UserStore interface.
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	user, exists := m.users[id]
	if !exists {
		return nil, store.ErrUserNotFound
	}

	copied := *user
	return &copied, nil
}

// GetAll implements the UserStore interface.
func (m *MockUserStore) GetAll(ctx context.Context) ([]*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := []*domain.User{}
	for _, user := range m.users {
		copied := *user
		users = append(users, &copied)
	}
	return users, nil
}

// GetAllByIDs implements the UserStore interface.
func (m *MockUserStore) GetAllByIDs(
	ctx context.Context,
	ids []uuid.UUID,
) ([]*domain.User, error) {
	if m.GetAllByIDsFn != nil {
		return m.GetAllByIDsFn(ctx, ids)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	users := []*domain.User{}
	for _, id := range ids {
		if user, exists := m.users[id]; exists {
			copied := *user
			users = append(users, &copied)
		}
	}
	return users, nil
}

// Update implements the UserStore interface.
func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[user.ID]; !exists {
		return store.ErrUserNotFound
	}

	copied := *user
	m.users[user.ID] = &copied
	return nil
}

// Delete implements the UserStore interface. Deleting a nonexistent ID is
// not an error.
func (m *MockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.users, id)
	return nil
}
