package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/avoronin/task-tracker/internal/domain"
)

// Common request/response structures

// UserRequest defines the payload for creating or updating a user.
type UserRequest struct {
	Name  string `json:"name"  validate:"required,min=1"`
	Email string `json:"email" validate:"required,email"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// CreateTaskRequest defines the payload for creating a task. The observer
// list may be omitted; the set then starts empty.
type CreateTaskRequest struct {
	Name        string      `json:"name"        validate:"required,min=1"`
	Description string      `json:"description"`
	AuthorID    uuid.UUID   `json:"author_id"   validate:"required"`
	AssigneeID  uuid.UUID   `json:"assignee_id" validate:"required"`
	ObserverIDs []uuid.UUID `json:"observer_ids"`
	Status      string      `json:"status"      validate:"required"`
}

// UpdateTaskRequest defines the payload for a partial task update. Every
// field is optional; absent fields keep their stored value.
type UpdateTaskRequest struct {
	Name        *string     `json:"name,omitempty"        validate:"omitempty,min=1"`
	Description *string     `json:"description,omitempty"`
	AuthorID    *uuid.UUID  `json:"author_id,omitempty"`
	AssigneeID  *uuid.UUID  `json:"assignee_id,omitempty"`
	ObserverIDs []uuid.UUID `json:"observer_ids,omitempty"`
	Status      *string     `json:"status,omitempty"`
}

// TaskResponse represents a task in API responses. The author, assignee and
// observers are returned as hydrated user objects, not bare IDs.
type TaskResponse struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Author      *UserResponse  `json:"author"`
	Assignee    *UserResponse  `json:"assignee"`
	Observers   []UserResponse `json:"observers"`
	Status      string         `json:"status"`
}

// toPatch converts the request into a domain patch.
func (r UpdateTaskRequest) toPatch() domain.TaskPatch {
	patch := domain.TaskPatch{
		Name:        r.Name,
		Description: r.Description,
		AuthorID:    r.AuthorID,
		AssigneeID:  r.AssigneeID,
		ObserverIDs: r.ObserverIDs,
	}
	if r.Status != nil {
		status := domain.TaskStatus(*r.Status)
		patch.Status = &status
	}
	return patch
}

// userToResponse converts a domain.User to a UserResponse.
func userToResponse(user *domain.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

// usersToResponses converts a slice of users, preserving order. The result
// is never nil so the observers field serializes as [] rather than null.
func usersToResponses(users []*domain.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		if user == nil {
			continue
		}
		responses = append(responses, *userToResponse(user))
	}
	return responses
}

// taskViewToResponse converts a resolved task view to a TaskResponse.
func taskViewToResponse(view *domain.TaskView) TaskResponse {
	return TaskResponse{
		ID:          view.ID,
		Name:        view.Name,
		Description: view.Description,
		CreatedAt:   view.CreatedAt,
		UpdatedAt:   view.UpdatedAt,
		Author:      userToResponse(view.Author),
		Assignee:    userToResponse(view.Assignee),
		Observers:   usersToResponses(view.Observers),
		Status:      string(view.Status),
	}
}

// taskViewsToResponses converts a slice of resolved views.
func taskViewsToResponses(views []*domain.TaskView) []TaskResponse {
	responses := make([]TaskResponse, 0, len(views))
	for _, view := range views {
		responses = append(responses, taskViewToResponse(view))
	}
	return responses
}
