package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/avoronin/task-tracker/internal/domain"
	"github.com/avoronin/task-tracker/internal/store"
)

// UserService provides user CRUD and the cascading delete that removes
// every task referencing a deleted user.
type UserService interface {
	// ListAll retrieves every user.
	ListAll(ctx context.Context) ([]*domain.User, error)

	// GetByID retrieves a user by ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetAllByIDs retrieves the subset of the given IDs that exist. An
	// empty result is never an error, only a warning when the input was
	// non-empty.
	GetAllByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.User, error)

	// Create persists a new user with a generated ID.
	Create(ctx context.Context, name, email string) (*domain.User, error)

	// Update overwrites an existing user's name and email.
	// Returns ErrUserNotFound if the user does not exist.
	Update(ctx context.Context, id uuid.UUID, name, email string) (*domain.User, error)

	// DeleteByID deletes every task referencing the user as author,
	// assignee or observer, then deletes the user itself.
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// userServiceImpl implements the UserService interface.
type userServiceImpl struct {
	users  store.UserStore
	tasks  store.TaskStore
	logger *slog.Logger
}

// NewUserService creates a new UserService.
// It returns an error if any of the required dependencies are nil.
func NewUserService(
	users store.UserStore,
	tasks store.TaskStore,
	log *slog.Logger,
) (UserService, error) {
	if users == nil {
		return nil, &ServiceError{
			Operation: "create_service",
			Message:   "user store cannot be nil",
		}
	}
	if tasks == nil {
		return nil, &ServiceError{
			Operation: "create_service",
			Message:   "task store cannot be nil",
		}
	}

	if log == nil {
		log = slog.Default()
	}

	return &userServiceImpl{
		users:  users,
		tasks:  tasks,
		logger: log.With("component", "user_service"),
	}, nil
}

// ListAll retrieves every user.
func (s *userServiceImpl) ListAll(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, newServiceError("list_users", "failed to fetch users", err)
	}
	return users, nil
}

// GetByID retrieves a user by ID.
func (s *userServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("failed to fetch user",
			"user_id", id,
			"error", err)
		return nil, newServiceError("get_user", "failed to fetch user", err)
	}
	return user, nil
}

// GetAllByIDs retrieves the subset of the given IDs that exist. Unresolved
// IDs are simply absent from the result; a fully empty result for a
// non-empty input is logged as a warning, not returned as an error.
func (s *userServiceImpl) GetAllByIDs(
	ctx context.Context,
	ids []uuid.UUID,
) ([]*domain.User, error) {
	users, err := s.users.GetAllByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("failed to fetch users by IDs",
			"id_count", len(ids),
			"error", err)
		return nil, newServiceError("get_users_by_ids", "failed to fetch users", err)
	}

	if len(ids) > 0 && len(users) == 0 {
		s.logger.Warn("no users found for requested IDs",
			"id_count", len(ids))
	}

	return users, nil
}

// Create persists a new user.
func (s *userServiceImpl) Create(
	ctx context.Context,
	name, email string,
) (*domain.User, error) {
	user, err := domain.NewUser(name, email)
	if err != nil {
		return nil, newServiceError("create_user", "invalid user data", err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		s.logger.Error("failed to persist user",
			"user_id", user.ID,
			"error", err)
		return nil, newServiceError("create_user", "failed to persist user", err)
	}

	s.logger.Info("user created", "user_id", user.ID)
	return user, nil
}

// Update overwrites the name and email of an existing user.
func (s *userServiceImpl) Update(
	ctx context.Context,
	id uuid.UUID,
	name, email string,
) (*domain.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Name = name
	user.Email = email

	if err := user.Validate(); err != nil {
		return nil, newServiceError("update_user", "invalid user data", err)
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("failed to update user",
			"user_id", id,
			"error", err)
		return nil, newServiceError("update_user", "failed to persist user", err)
	}

	s.logger.Info("user updated", "user_id", id)
	return user, nil
}

// DeleteByID removes the user and every task that references it.
//
// The dependent tasks are gathered through three independent queries
// (author, assignee, observer membership), deduplicated by task ID and
// deleted before the user record disappears, so a concurrent reader never
// resolves a surviving task against a vanished user. No transaction spans
// the cascade: a failure aborts at the failing step and already-deleted
// tasks stay deleted.
func (s *userServiceImpl) DeleteByID(ctx context.Context, id uuid.UUID) error {
	authored, err := s.tasks.FindByAuthorID(ctx, id)
	if err != nil {
		s.logger.Error("cascade query by author failed",
			"user_id", id,
			"error", err)
		return newServiceError("delete_user", "failed to find authored tasks", err)
	}

	assigned, err := s.tasks.FindByAssigneeID(ctx, id)
	if err != nil {
		s.logger.Error("cascade query by assignee failed",
			"user_id", id,
			"error", err)
		return newServiceError("delete_user", "failed to find assigned tasks", err)
	}

	observed, err := s.tasks.FindByObserverID(ctx, id)
	if err != nil {
		s.logger.Error("cascade query by observer failed",
			"user_id", id,
			"error", err)
		return newServiceError("delete_user", "failed to find observed tasks", err)
	}

	// The three result sets overlap when a user holds several roles on the
	// same task; each task is deleted exactly once.
	seen := make(map[uuid.UUID]struct{})
	deleted := 0
	for _, task := range concat(authored, assigned, observed) {
		if _, ok := seen[task.ID]; ok {
			continue
		}
		seen[task.ID] = struct{}{}

		if err := s.tasks.Delete(ctx, task.ID); err != nil {
			s.logger.Error("cascade task delete failed",
				"user_id", id,
				"task_id", task.ID,
				"error", err)
			return newServiceError("delete_user", "failed to delete dependent task", err)
		}
		deleted++
	}

	if err := s.users.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete user",
			"user_id", id,
			"error", err)
		return newServiceError("delete_user", "failed to delete user", err)
	}

	s.logger.Info("user deleted with cascading tasks",
		"user_id", id,
		"deleted_task_count", deleted)
	return nil
}

// concat joins the given task slices in order.
func concat(slices ...[]*domain.Task) []*domain.Task {
	total := 0
	for _, s := range slices {
		total += len(s)
	}
	joined := make([]*domain.Task, 0, total)
	for _, s := range slices {
		joined = append(joined, s...)
	}
	return joined
}
