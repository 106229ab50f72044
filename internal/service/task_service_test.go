package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronin/task-tracker/internal/domain"
	"github.com/avoronin/task-tracker/internal/mocks"
	"github.com/avoronin/task-tracker/internal/store"
)

type taskServiceFixture struct {
	users   *mocks.MockUserStore
	tasks   *mocks.MockTaskStore
	service TaskService
}

func newTaskServiceFixture(t *testing.T) *taskServiceFixture {
	t.Helper()

	users := mocks.NewMockUserStore()
	tasks := mocks.NewMockTaskStore()

	resolver, err := NewTaskResolver(users, slog.Default())
	require.NoError(t, err)

	svc, err := NewTaskService(tasks, users, resolver, slog.Default())
	require.NoError(t, err)

	return &taskServiceFixture{users: users, tasks: tasks, service: svc}
}

func (f *taskServiceFixture) seedTask(
	t *testing.T,
	authorID, assigneeID uuid.UUID,
	observerIDs []uuid.UUID,
) *domain.Task {
	t.Helper()

	task := newTestTask(t, authorID, assigneeID, observerIDs)
	require.NoError(t, f.tasks.Create(context.Background(), task))
	return task
}

func TestTaskService_Create(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("persists and returns a resolved view", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)
		author := newTestUser(t, f.users, "author")
		assignee := newTestUser(t, f.users, "assignee")
		observer := newTestUser(t, f.users, "observer")

		view, err := f.service.Create(ctx, CreateTaskParams{
			Name:        "Write changelog",
			Description: "Summarize the release",
			AuthorID:    author.ID,
			AssigneeID:  assignee.ID,
			ObserverIDs: []uuid.UUID{observer.ID, observer.ID},
			Status:      domain.TaskStatusTodo,
		})
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, view.ID)
		assert.Equal(t, "Write changelog", view.Name)
		assert.Equal(t, author.ID, view.Author.ID)
		assert.Equal(t, assignee.ID, view.Assignee.ID)
		assert.Equal(t, view.CreatedAt, view.UpdatedAt)

		// Duplicate observer IDs collapse at construction time.
		require.Len(t, view.ObserverIDs, 1)
		require.Len(t, view.Observers, 1)

		// The response is a read-after-write: the task must be findable.
		stored, err := f.tasks.GetByID(ctx, view.ID)
		require.NoError(t, err)
		assert.Equal(t, view.Name, stored.Name)
	})

	t.Run("rejects a missing author", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)
		assignee := newTestUser(t, f.users, "assignee")

		_, err := f.service.Create(ctx, CreateTaskParams{
			Name:       "Orphaned",
			AuthorID:   uuid.New(),
			AssigneeID: assignee.ID,
			Status:     domain.TaskStatusTodo,
		})
		require.ErrorIs(t, err, ErrAuthorNotFound)
		assert.Zero(t, f.tasks.Len())
	})

	t.Run("rejects a missing assignee", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)
		author := newTestUser(t, f.users, "author")

		_, err := f.service.Create(ctx, CreateTaskParams{
			Name:       "Orphaned",
			AuthorID:   author.ID,
			AssigneeID: uuid.New(),
			Status:     domain.TaskStatusTodo,
		})
		require.ErrorIs(t, err, ErrAssigneeNotFound)
		assert.Zero(t, f.tasks.Len())
	})

	t.Run("reports the author first when both references are broken", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)

		var looked []uuid.UUID
		f.users.GetByIDFn = func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			looked = append(looked, id)
			return nil, store.ErrUserNotFound
		}

		authorID := uuid.New()
		_, err := f.service.Create(ctx, CreateTaskParams{
			Name:       "Doubly broken",
			AuthorID:   authorID,
			AssigneeID: uuid.New(),
			Status:     domain.TaskStatusTodo,
		})
		require.ErrorIs(t, err, ErrAuthorNotFound)

		// The assignee lookup never runs once the author check fails.
		require.Len(t, looked, 1)
		assert.Equal(t, authorID, looked[0])
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)
		author := newTestUser(t, f.users, "author")
		assignee := newTestUser(t, f.users, "assignee")

		_, err := f.service.Create(ctx, CreateTaskParams{
			AuthorID:   author.ID,
			AssigneeID: assignee.ID,
			Status:     domain.TaskStatusTodo,
		})
		require.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestTaskService_GetByID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("returns the resolved view", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)
		author := newTestUser(t, f.users, "author")
		assignee := newTestUser(t, f.users, "assignee")
		task := f.seedTask(t, author.ID, assignee.ID, nil)

		view, err := f.service.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, task.ID, view.ID)
		assert.Equal(t, author.ID, view.Author.ID)
	})

	t.Run("unknown ID yields ErrTaskNotFound", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)

		_, err := f.service.GetByID(ctx, uuid.New())
		require.ErrorIs(t, err, ErrTaskNotFound)
	})
}

func TestTaskService_ListAll(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("resolves every task", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)
		author := newTestUser(t, f.users, "author")
		assignee := newTestUser(t, f.users, "assignee")

		f.seedTask(t, author.ID, assignee.ID, nil)
		f.seedTask(t, assignee.ID, author.ID, nil)

		views, err := f.service.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, views, 2)
		for _, view := range views {
			require.NotNil(t, view.Author)
			require.NotNil(t, view.Assignee)
		}
	})

	t.Run("empty store lists to an empty slice", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)

		views, err := f.service.ListAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, views)
	})

	t.Run("one dangling task aborts the listing", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)
		author := newTestUser(t, f.users, "author")
		assignee := newTestUser(t, f.users, "assignee")

		f.seedTask(t, author.ID, assignee.ID, nil)
		f.seedTask(t, uuid.New(), assignee.ID, nil)

		_, err := f.service.ListAll(ctx)
		require.ErrorIs(t, err, ErrAuthorNotFound)
	})
}

func TestTaskService_Update(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("patched fields override, absent fields persist", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)
		author := newTestUser(t, f.users, "author")
		assignee := newTestUser(t, f.users, "assignee")
		task := f.seedTask(t, author.ID, assignee.ID, nil)

		name := "Renamed"
		status := domain.TaskStatusInProgress
		view, err := f.service.Update(ctx, task.ID, domain.TaskPatch{
			Name:   &name,
			Status: &status,
		})
		require.NoError(t, err)

		assert.Equal(t, "Renamed", view.Name)
		assert.Equal(t, domain.TaskStatusInProgress, view.Status)
		assert.Equal(t, task.Description, view.Description)
		assert.Equal(t, task.AuthorID, view.AuthorID)
		assert.Equal(t, task.CreatedAt, view.CreatedAt)
		assert.True(t, view.UpdatedAt.After(task.UpdatedAt) ||
			view.UpdatedAt.Equal(task.UpdatedAt))
	})

	t.Run("observer patch replaces the whole set", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)
		author := newTestUser(t, f.users, "author")
		assignee := newTestUser(t, f.users, "assignee")
		first := newTestUser(t, f.users, "first")
		second := newTestUser(t, f.users, "second")
		task := f.seedTask(t, author.ID, assignee.ID, []uuid.UUID{first.ID})

		view, err := f.service.Update(ctx, task.ID, domain.TaskPatch{
			ObserverIDs: []uuid.UUID{second.ID},
		})
		require.NoError(t, err)

		require.Len(t, view.ObserverIDs, 1)
		assert.Equal(t, second.ID, view.ObserverIDs[0])
	})

	t.Run("unknown ID yields ErrTaskNotFound", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)

		name := "ghost"
		_, err := f.service.Update(ctx, uuid.New(), domain.TaskPatch{Name: &name})
		require.ErrorIs(t, err, ErrTaskNotFound)
	})
}

func TestTaskService_Delete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("removes the task", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)
		author := newTestUser(t, f.users, "author")
		assignee := newTestUser(t, f.users, "assignee")
		task := f.seedTask(t, author.ID, assignee.ID, nil)

		require.NoError(t, f.service.Delete(ctx, task.ID))

		_, err := f.tasks.GetByID(ctx, task.ID)
		require.ErrorIs(t, err, store.ErrTaskNotFound)

		// Deleting a task never touches its users.
		_, err = f.users.GetByID(ctx, author.ID)
		require.NoError(t, err)
	})

	t.Run("unknown ID yields ErrTaskNotFound", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)

		err := f.service.Delete(ctx, uuid.New())
		require.ErrorIs(t, err, ErrTaskNotFound)
	})
}

func TestTaskService_AddObserver(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("adds an existing user to the observer set", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)
		author := newTestUser(t, f.users, "author")
		assignee := newTestUser(t, f.users, "assignee")
		observer := newTestUser(t, f.users, "observer")
		task := f.seedTask(t, author.ID, assignee.ID, nil)

		view, err := f.service.AddObserver(ctx, task.ID, observer.ID)
		require.NoError(t, err)

		require.Len(t, view.ObserverIDs, 1)
		assert.Equal(t, observer.ID, view.ObserverIDs[0])
		require.Len(t, view.Observers, 1)
		assert.Equal(t, observer.ID, view.Observers[0].ID)
	})

	t.Run("adding twice keeps the set unchanged", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)
		author := newTestUser(t, f.users, "author")
		assignee := newTestUser(t, f.users, "assignee")
		observer := newTestUser(t, f.users, "observer")
		task := f.seedTask(t, author.ID, assignee.ID, []uuid.UUID{observer.ID})

		view, err := f.service.AddObserver(ctx, task.ID, observer.ID)
		require.NoError(t, err)
		require.Len(t, view.ObserverIDs, 1)
	})

	t.Run("missing observer leaves the task untouched", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)
		author := newTestUser(t, f.users, "author")
		assignee := newTestUser(t, f.users, "assignee")
		task := f.seedTask(t, author.ID, assignee.ID, nil)

		_, err := f.service.AddObserver(ctx, task.ID, uuid.New())
		require.ErrorIs(t, err, ErrObserverNotFound)

		stored, err := f.tasks.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Empty(t, stored.ObserverIDs)
	})

	t.Run("unknown task yields ErrTaskNotFound", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)
		observer := newTestUser(t, f.users, "observer")

		_, err := f.service.AddObserver(ctx, uuid.New(), observer.ID)
		require.ErrorIs(t, err, ErrTaskNotFound)
	})
}

func TestNewTaskService_NilDependencies(t *testing.T) {
	t.Parallel()

	users := mocks.NewMockUserStore()
	tasks := mocks.NewMockTaskStore()
	resolver, err := NewTaskResolver(users, slog.Default())
	require.NoError(t, err)

	_, err = NewTaskService(nil, users, resolver, slog.Default())
	require.Error(t, err)

	_, err = NewTaskService(tasks, nil, resolver, slog.Default())
	require.Error(t, err)

	_, err = NewTaskService(tasks, users, nil, slog.Default())
	require.Error(t, err)
}
