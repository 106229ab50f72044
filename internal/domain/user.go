package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Common validation errors for User.
var (
	ErrEmptyUserID   = fmt.Errorf("%w: user ID cannot be empty", ErrValidation)
	ErrEmptyUserName = fmt.Errorf("%w: user name cannot be empty", ErrValidation)
	ErrEmptyEmail    = fmt.Errorf("%w: email cannot be empty", ErrValidation)
)

// User represents an account that tasks reference by ID as author,
// assignee or observer.
type User struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// NewUser creates a new User with the given name and email and a freshly
// generated ID. Returns an error if validation fails.
func NewUser(name, email string) (*User, error) {
	user := &User{
		ID:    uuid.New(),
		Name:  name,
		Email: email,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Name == "" {
		return ErrEmptyUserName
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	return nil
}
