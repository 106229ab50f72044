package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/avoronin/task-tracker/internal/domain"
	"github.com/avoronin/task-tracker/internal/platform/logger"
)

// UserLookup is the slice of the user store the resolver needs: single-key
// and multi-key lookups.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetAllByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.User, error)
}

// TaskResolver turns the ID-only references of a task (author, assignee,
// observers) into hydrated user objects, producing a TaskView.
//
// Author and assignee are mandatory relations: a miss on either aborts the
// resolve. Observers are best-effort enrichment: IDs that do not resolve
// are dropped without a per-ID error, and a fully empty result for a
// non-empty set only produces a warning. This asymmetry is deliberate.
type TaskResolver struct {
	users  UserLookup
	logger *slog.Logger
}

// NewTaskResolver creates a new TaskResolver.
// It returns an error if the user lookup dependency is nil.
func NewTaskResolver(users UserLookup, log *slog.Logger) (*TaskResolver, error) {
	if users == nil {
		return nil, &ServiceError{
			Operation: "create_resolver",
			Message:   "user lookup cannot be nil",
		}
	}

	if log == nil {
		log = slog.Default()
	}

	return &TaskResolver{
		users:  users,
		logger: log.With("component", "task_resolver"),
	}, nil
}

// Resolve fetches the author, assignee and observer set of the given task
// concurrently and joins them into a TaskView once all three lookups have
// completed. It never returns a partial view: a malformed task fails with
// a validation error before any lookup is issued, and a missing author or
// assignee aborts the whole resolve.
func (r *TaskResolver) Resolve(ctx context.Context, task *domain.Task) (*domain.TaskView, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	if err := task.ValidateRefs(); err != nil {
		log.Warn("refusing to resolve malformed task",
			"task_id", task.ID,
			"error", err)
		return nil, err
	}

	var (
		author    *domain.User
		assignee  *domain.User
		observers []*domain.User
	)

	// All three lookups start before any result is awaited; g.Wait is the
	// synchronization barrier.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		found, err := r.users.GetByID(gctx, task.AuthorID)
		if err != nil {
			return mapUserLookupErr(err, ErrAuthorNotFound)
		}
		author = found
		return nil
	})

	g.Go(func() error {
		found, err := r.users.GetByID(gctx, task.AssigneeID)
		if err != nil {
			return mapUserLookupErr(err, ErrAssigneeNotFound)
		}
		assignee = found
		return nil
	})

	g.Go(func() error {
		found, err := r.users.GetAllByIDs(gctx, task.ObserverIDs)
		if err != nil {
			return err
		}
		observers = found
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Debug("task resolution failed",
			"task_id", task.ID,
			"error", err)
		return nil, err
	}

	if len(task.ObserverIDs) > 0 && len(observers) == 0 {
		log.Warn("no observers resolved for task",
			"task_id", task.ID,
			"observer_id_count", len(task.ObserverIDs))
	}

	if observers == nil {
		observers = []*domain.User{}
	}

	return &domain.TaskView{
		Task:      *task,
		Author:    author,
		Assignee:  assignee,
		Observers: observers,
	}, nil
}
