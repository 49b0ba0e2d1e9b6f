package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account that can author posts.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Username is the unique public handle, used in profile URLs.
	Username string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// CreatedAt is when the account was created.
	CreatedAt time.Time
}

// NewUser creates a user with a fresh ID and the current timestamp.
func NewUser(username, passwordHash string) *User {
	return &User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
}
