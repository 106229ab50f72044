package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronin/task-tracker/internal/store"
)

func TestUserHandler_CreateUser(t *testing.T) {
	t.Parallel()

	t.Run("creates a user", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		resp := env.do(t, http.MethodPost, "/api/v1/users", map[string]string{
			"name":  "Ada",
			"email": "ada@example.com",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var body UserResponse
		decodeBody(t, resp, &body)
		assert.NotEqual(t, uuid.Nil, body.ID)
		assert.Equal(t, "Ada", body.Name)
		assert.Equal(t, "ada@example.com", body.Email)
	})

	t.Run("invalid email yields 400", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		resp := env.do(t, http.MethodPost, "/api/v1/users", map[string]string{
			"name":  "Ada",
			"email": "not-an-email",
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing name yields 400", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		resp := env.do(t, http.MethodPost, "/api/v1/users", map[string]string{
			"email": "ada@example.com",
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestUserHandler_GetUser(t *testing.T) {
	t.Parallel()

	t.Run("returns the user", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		user := env.seedUser(t, "ada")

		resp := env.do(t, http.MethodGet, "/api/v1/users/"+user.ID.String(), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body UserResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, user.ID, body.ID)
	})

	t.Run("unknown user yields 404", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		resp := env.do(t, http.MethodGet, "/api/v1/users/"+uuid.NewString(), nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("malformed ID yields 400", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		resp := env.do(t, http.MethodGet, "/api/v1/users/42", nil)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestUserHandler_ListUsers(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.seedUser(t, "ada")
	env.seedUser(t, "grace")

	resp := env.do(t, http.MethodGet, "/api/v1/users", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body []UserResponse
	decodeBody(t, resp, &body)
	require.Len(t, body, 2)
}

func TestUserHandler_UpdateUser(t *testing.T) {
	t.Parallel()

	t.Run("overwrites name and email", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		user := env.seedUser(t, "ada")

		resp := env.do(t, http.MethodPut, "/api/v1/users/"+user.ID.String(),
			map[string]string{
				"name":  "Grace",
				"email": "grace@example.com",
			})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body UserResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, user.ID, body.ID)
		assert.Equal(t, "Grace", body.Name)
	})

	t.Run("unknown user yields 404", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		resp := env.do(t, http.MethodPut, "/api/v1/users/"+uuid.NewString(),
			map[string]string{
				"name":  "Grace",
				"email": "grace@example.com",
			})
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestUserHandler_DeleteUser(t *testing.T) {
	t.Parallel()

	t.Run("removes the user and its tasks", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		doomed := env.seedUser(t, "doomed")
		other := env.seedUser(t, "other")
		task := env.seedTask(t, doomed.ID, other.ID, nil)

		resp := env.do(t, http.MethodDelete, "/api/v1/users/"+doomed.ID.String(), nil)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		_, err := env.users.GetByID(context.Background(), doomed.ID)
		require.ErrorIs(t, err, store.ErrUserNotFound)

		_, err = env.tasks.GetByID(context.Background(), task.ID)
		require.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("unknown user still yields 204", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		resp := env.do(t, http.MethodDelete, "/api/v1/users/"+uuid.NewString(), nil)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
	})
}
