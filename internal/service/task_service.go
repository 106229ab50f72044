package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/avoronin/task-tracker/internal/domain"
	"github.com/avoronin/task-tracker/internal/store"
)

// CreateTaskParams carries the caller-supplied fields of a new task.
// The ID and timestamps are always generated server-side.
type CreateTaskParams struct {
	Name        string
	Description string
	AuthorID    uuid.UUID
	AssigneeID  uuid.UUID
	ObserverIDs []uuid.UUID
	Status      domain.TaskStatus
}

// TaskService provides task-related operations. Every read returns a
// hydrated TaskView; mutations answer with a read-after-write view, so any
// normalization the store applies round-trips into the response.
type TaskService interface {
	// ListAll retrieves all tasks and resolves each of them. The first
	// resolver failure aborts the listing.
	ListAll(ctx context.Context) ([]*domain.TaskView, error)

	// GetByID retrieves a task by ID and resolves it.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskView, error)

	// Create validates that the author and assignee exist, persists a new
	// task and returns its resolved view.
	Create(ctx context.Context, params CreateTaskParams) (*domain.TaskView, error)

	// Update applies a partial patch to an existing task and returns the
	// resolved view of the result.
	Update(ctx context.Context, id uuid.UUID, patch domain.TaskPatch) (*domain.TaskView, error)

	// Delete removes a task. Deleting never cascades to users.
	Delete(ctx context.Context, id uuid.UUID) error

	// AddObserver adds an existing user to a task's observer set and
	// returns the resolved view. Adding a user twice is a no-op.
	AddObserver(ctx context.Context, taskID, observerID uuid.UUID) (*domain.TaskView, error)
}

// taskServiceImpl implements the TaskService interface.
type taskServiceImpl struct {
	tasks    store.TaskStore
	users    store.UserStore
	resolver *TaskResolver
	logger   *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	tasks store.TaskStore,
	users store.UserStore,
	resolver *TaskResolver,
	log *slog.Logger,
) (TaskService, error) {
	if tasks == nil {
		return nil, &ServiceError{
			Operation: "create_service",
			Message:   "task store cannot be nil",
		}
	}
	if users == nil {
		return nil, &ServiceError{
			Operation: "create_service",
			Message:   "user store cannot be nil",
		}
	}
	if resolver == nil {
		return nil, &ServiceError{
			Operation: "create_service",
			Message:   "resolver cannot be nil",
		}
	}

	if log == nil {
		log = slog.Default()
	}

	return &taskServiceImpl{
		tasks:    tasks,
		users:    users,
		resolver: resolver,
		logger:   log.With("component", "task_service"),
	}, nil
}

// ListAll retrieves all tasks and resolves each of them concurrently and
// independently. Resolution failures are not isolated: the first error
// encountered aborts the whole listing, matching the single-task
// resolution contract (a malformed or dangling task is never silently
// skipped).
func (s *taskServiceImpl) ListAll(ctx context.Context) ([]*domain.TaskView, error) {
	tasks, err := s.tasks.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to list tasks", "error", err)
		return nil, newServiceError("list_tasks", "failed to fetch tasks", err)
	}

	views := make([]*domain.TaskView, len(tasks))

	g, gctx := errgroup.WithContext(ctx)
	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			view, err := s.resolver.Resolve(gctx, task)
			if err != nil {
				return err
			}
			views[i] = view
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error("failed to resolve task listing", "error", err)
		return nil, newServiceError("list_tasks", "failed to resolve tasks", err)
	}

	return views, nil
}

// GetByID retrieves a task by its ID and resolves it.
func (s *taskServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskView, error) {
	task, err := s.fetchTask(ctx, id)
	if err != nil {
		return nil, err
	}

	view, err := s.resolver.Resolve(ctx, task)
	if err != nil {
		return nil, newServiceError("get_task", "failed to resolve task", err)
	}

	return view, nil
}

// Create validates the author and assignee references, persists the task
// and responds with a read-after-write resolved view.
//
// The two existence checks are sequential on purpose: the assignee lookup
// is only issued once the author is known to exist, so a request with two
// broken references always reports the author first.
func (s *taskServiceImpl) Create(
	ctx context.Context,
	params CreateTaskParams,
) (*domain.TaskView, error) {
	if _, err := s.users.GetByID(ctx, params.AuthorID); err != nil {
		s.logger.Warn("task creation rejected: author lookup failed",
			"author_id", params.AuthorID,
			"error", err)
		return nil, newServiceError(
			"create_task",
			"author lookup failed",
			mapUserLookupErr(err, ErrAuthorNotFound),
		)
	}

	if _, err := s.users.GetByID(ctx, params.AssigneeID); err != nil {
		s.logger.Warn("task creation rejected: assignee lookup failed",
			"assignee_id", params.AssigneeID,
			"error", err)
		return nil, newServiceError(
			"create_task",
			"assignee lookup failed",
			mapUserLookupErr(err, ErrAssigneeNotFound),
		)
	}

	task, err := domain.NewTask(
		params.Name,
		params.Description,
		params.AuthorID,
		params.AssigneeID,
		params.ObserverIDs,
		params.Status,
	)
	if err != nil {
		return nil, newServiceError("create_task", "invalid task data", err)
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		s.logger.Error("failed to persist task",
			"task_id", task.ID,
			"error", err)
		return nil, newServiceError("create_task", "failed to persist task", err)
	}

	s.logger.Info("task created",
		"task_id", task.ID,
		"author_id", task.AuthorID,
		"assignee_id", task.AssigneeID)

	return s.GetByID(ctx, task.ID)
}

// Update fetches the existing task, merges the patch field by field and
// persists the result, answering with a read-after-write resolved view.
func (s *taskServiceImpl) Update(
	ctx context.Context,
	id uuid.UUID,
	patch domain.TaskPatch,
) (*domain.TaskView, error) {
	existing, err := s.fetchTask(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := existing.Merge(patch)

	if err := s.tasks.Update(ctx, merged); err != nil {
		s.logger.Error("failed to update task",
			"task_id", id,
			"error", err)
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, newServiceError("update_task", "failed to persist task", err)
	}

	s.logger.Info("task updated", "task_id", id)

	return s.GetByID(ctx, id)
}

// Delete removes a task by its ID. The cascade rule is one-directional:
// deleting a task never touches the user collection.
func (s *taskServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.fetchTask(ctx, id); err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete task",
			"task_id", id,
			"error", err)
		return newServiceError("delete_task", "failed to delete task", err)
	}

	s.logger.Info("task deleted", "task_id", id)
	return nil
}

// AddObserver verifies the observer user exists, adds it to the task's
// observer set and answers with a read-after-write resolved view.
func (s *taskServiceImpl) AddObserver(
	ctx context.Context,
	taskID, observerID uuid.UUID,
) (*domain.TaskView, error) {
	task, err := s.fetchTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.GetByID(ctx, observerID); err != nil {
		s.logger.Warn("add observer rejected: observer lookup failed",
			"task_id", taskID,
			"observer_id", observerID,
			"error", err)
		return nil, newServiceError(
			"add_observer",
			"observer lookup failed",
			mapUserLookupErr(err, ErrObserverNotFound),
		)
	}

	if added := task.AddObserver(observerID); !added {
		s.logger.Debug("observer already present",
			"task_id", taskID,
			"observer_id", observerID)
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		s.logger.Error("failed to persist observer set",
			"task_id", taskID,
			"error", err)
		return nil, newServiceError("add_observer", "failed to persist task", err)
	}

	s.logger.Info("observer added",
		"task_id", taskID,
		"observer_id", observerID)

	return s.GetByID(ctx, taskID)
}

// fetchTask loads a task by ID, mapping a store miss to the service-level
// sentinel.
func (s *taskServiceImpl) fetchTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		s.logger.Error("failed to fetch task",
			"task_id", id,
			"error", err)
		return nil, newServiceError("get_task", "failed to fetch task", err)
	}
	return task, nil
}
