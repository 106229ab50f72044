package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/avoronin/task-tracker/internal/domain"
	"github.com/avoronin/task-tracker/internal/mocks"
	"github.com/avoronin/task-tracker/internal/service"
)

// testEnv wires real services over in-memory stores behind the API routes,
// mirroring the production router layout.
type testEnv struct {
	users  *mocks.MockUserStore
	tasks  *mocks.MockTaskStore
	server *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := mocks.NewMockUserStore()
	tasks := mocks.NewMockTaskStore()
	logger := slog.Default()

	resolver, err := service.NewTaskResolver(users, logger)
	require.NoError(t, err)

	taskService, err := service.NewTaskService(tasks, users, resolver, logger)
	require.NoError(t, err)

	userService, err := service.NewUserService(users, tasks, logger)
	require.NoError(t, err)

	taskHandler := NewTaskHandler(taskService)
	userHandler := NewUserHandler(userService)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", taskHandler.ListTasks)
			r.Post("/", taskHandler.CreateTask)
			r.Get("/{id}", taskHandler.GetTask)
			r.Put("/{id}", taskHandler.UpdateTask)
			r.Delete("/{id}", taskHandler.DeleteTask)
			r.Patch("/observers/{id}", taskHandler.AddObserver)
		})
		r.Route("/users", func(r chi.Router) {
			r.Get("/", userHandler.ListUsers)
			r.Post("/", userHandler.CreateUser)
			r.Get("/{id}", userHandler.GetUser)
			r.Put("/{id}", userHandler.UpdateUser)
			r.Delete("/{id}", userHandler.DeleteUser)
		})
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return &testEnv{users: users, tasks: tasks, server: server}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func (e *testEnv) seedUser(t *testing.T, name string) *domain.User {
	t.Helper()

	user, err := domain.NewUser(name, name+"@example.com")
	require.NoError(t, err)
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}

func (e *testEnv) seedTask(
	t *testing.T,
	authorID, assigneeID uuid.UUID,
	observerIDs []uuid.UUID,
) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(
		"Triage inbox",
		"Work through the backlog",
		authorID,
		assigneeID,
		observerIDs,
		domain.TaskStatusTodo,
	)
	require.NoError(t, err)
	require.NoError(t, e.tasks.Create(context.Background(), task))
	return task
}
