package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/avoronin/task-tracker/internal/domain"
	"github.com/avoronin/task-tracker/internal/platform/logger"
	"github.com/avoronin/task-tracker/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
//
// The task row and its observer set are written in a single transaction, so
// a task is never visible with a half-written observer set. This is
// per-record atomicity only; nothing spans tasks and users.
type PostgresTaskStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It requires a full database connection (not a
// transaction) because saves manage their own transactions. If logger is
// nil, a default logger will be used.
func NewPostgresTaskStore(db *sql.DB, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// Create implements store.TaskStore.Create
// It saves the task row and its observer set in one transaction.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		query := `
			INSERT INTO tasks (id, name, description, created_at, updated_at,
			                   author_id, assignee_id, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		_, err := tx.ExecContext(
			ctx,
			query,
			task.ID,
			task.Name,
			task.Description,
			task.CreatedAt,
			task.UpdatedAt,
			task.AuthorID,
			task.AssigneeID,
			string(task.Status),
		)
		if err != nil {
			return err
		}

		return insertObservers(ctx, tx, task.ID, task.ObserverIDs)
	})
	if err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("status", string(task.Status)))
	return nil
}

// GetByID implements store.TaskStore.GetByID
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, description, created_at, updated_at,
		       author_id, assignee_id, status
		FROM tasks
		WHERE id = $1
	`

	var task domain.Task
	var status string

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&task.ID,
		&task.Name,
		&task.Description,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.AuthorID,
		&task.AssigneeID,
		&status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, err
	}

	task.Status = domain.TaskStatus(status)

	observerSets, err := s.loadObserverSets(ctx, []uuid.UUID{task.ID})
	if err != nil {
		log.Error("failed to load observer set",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, err
	}
	task.ObserverIDs = observerSets[task.ID]

	return &task, nil
}

// GetAll implements store.TaskStore.GetAll
func (s *PostgresTaskStore) GetAll(ctx context.Context) ([]*domain.Task, error) {
	return s.queryTasks(ctx, `
		SELECT id, name, description, created_at, updated_at,
		       author_id, assignee_id, status
		FROM tasks
	`)
}

// Update implements store.TaskStore.Update
// It replaces the task row and its observer set in one transaction.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		query := `
			UPDATE tasks
			SET name = $1, description = $2, updated_at = $3,
			    author_id = $4, assignee_id = $5, status = $6
			WHERE id = $7
		`
		result, err := tx.ExecContext(
			ctx,
			query,
			task.Name,
			task.Description,
			task.UpdatedAt,
			task.AuthorID,
			task.AssigneeID,
			string(task.Status),
			task.ID,
		)
		if err != nil {
			return err
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rowsAffected == 0 {
			return store.ErrTaskNotFound
		}

		// Replace the observer set wholesale; the set is small and the
		// delete+insert keeps the logic obvious.
		_, err = tx.ExecContext(ctx, `DELETE FROM task_observers WHERE task_id = $1`, task.ID)
		if err != nil {
			return err
		}

		return insertObservers(ctx, tx, task.ID, task.ObserverIDs)
	})
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			log.Debug("task not found for update",
				slog.String("task_id", task.ID.String()))
			return err
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	log.Info("task updated successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("status", string(task.Status)))
	return nil
}

// FindByAuthorID implements store.TaskStore.FindByAuthorID
func (s *PostgresTaskStore) FindByAuthorID(
	ctx context.Context,
	authorID uuid.UUID,
) ([]*domain.Task, error) {
	return s.queryTasks(ctx, `
		SELECT id, name, description, created_at, updated_at,
		       author_id, assignee_id, status
		FROM tasks
		WHERE author_id = $1
	`, authorID)
}

// FindByAssigneeID implements store.TaskStore.FindByAssigneeID
func (s *PostgresTaskStore) FindByAssigneeID(
	ctx context.Context,
	assigneeID uuid.UUID,
) ([]*domain.Task, error) {
	return s.queryTasks(ctx, `
		SELECT id, name, description, created_at, updated_at,
		       author_id, assignee_id, status
		FROM tasks
		WHERE assignee_id = $1
	`, assigneeID)
}

// FindByObserverID implements store.TaskStore.FindByObserverID
func (s *PostgresTaskStore) FindByObserverID(
	ctx context.Context,
	observerID uuid.UUID,
) ([]*domain.Task, error) {
	return s.queryTasks(ctx, `
		SELECT t.id, t.name, t.description, t.created_at, t.updated_at,
		       t.author_id, t.assignee_id, t.status
		FROM tasks t
		JOIN task_observers o ON o.task_id = t.id
		WHERE o.observer_id = $1
	`, observerID)
}

// Delete implements store.TaskStore.Delete
// The observer set goes with the task row (ON DELETE CASCADE on the join
// table). Deleting a nonexistent ID is not an error.
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM tasks
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return err
	}

	if rowsAffected, err := result.RowsAffected(); err == nil && rowsAffected == 0 {
		log.Debug("delete of nonexistent task was a no-op",
			slog.String("task_id", id.String()))
	}

	return nil
}

// queryTasks runs a task query, scans the rows and attaches observer sets.
func (s *PostgresTaskStore) queryTasks(
	ctx context.Context,
	query string,
	args ...any,
) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	tasks := []*domain.Task{}
	for rows.Next() {
		var task domain.Task
		var status string

		err := rows.Scan(
			&task.ID,
			&task.Name,
			&task.Description,
			&task.CreatedAt,
			&task.UpdatedAt,
			&task.AuthorID,
			&task.AssigneeID,
			&status,
		)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, err
		}

		task.Status = domain.TaskStatus(status)
		tasks = append(tasks, &task)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	if len(tasks) == 0 {
		return tasks, nil
	}

	taskIDs := make([]uuid.UUID, len(tasks))
	for i, task := range tasks {
		taskIDs[i] = task.ID
	}

	observerSets, err := s.loadObserverSets(ctx, taskIDs)
	if err != nil {
		log.Error("failed to load observer sets", slog.String("error", err.Error()))
		return nil, err
	}

	for _, task := range tasks {
		task.ObserverIDs = observerSets[task.ID]
	}

	return tasks, nil
}

// loadObserverSets fetches the observer sets for the given task IDs in one
// query. Every requested task ID is present in the result map, with an
// empty (non-nil) set when the task has no observers.
func (s *PostgresTaskStore) loadObserverSets(
	ctx context.Context,
	taskIDs []uuid.UUID,
) (map[uuid.UUID][]uuid.UUID, error) {
	sets := make(map[uuid.UUID][]uuid.UUID, len(taskIDs))
	for _, id := range taskIDs {
		sets[id] = []uuid.UUID{}
	}

	query := `
		SELECT task_id, observer_id
		FROM task_observers
		WHERE task_id = ANY($1::uuid[])
	`

	rows, err := s.db.QueryContext(ctx, query, uuidStrings(taskIDs))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var taskID, observerID uuid.UUID
		if err := rows.Scan(&taskID, &observerID); err != nil {
			return nil, err
		}
		sets[taskID] = append(sets[taskID], observerID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sets, nil
}

// insertObservers writes the observer set rows for a task within the given
// transaction.
func insertObservers(
	ctx context.Context,
	tx *sql.Tx,
	taskID uuid.UUID,
	observerIDs []uuid.UUID,
) error {
	query := `
		INSERT INTO task_observers (task_id, observer_id)
		VALUES ($1, $2)
	`
	for _, observerID := range observerIDs {
		if _, err := tx.ExecContext(ctx, query, taskID, observerID); err != nil {
			return err
		}
	}
	return nil
}
