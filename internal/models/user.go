package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User represents a registered user account.
// Bills are owned by users; participants on a bill are plain names.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Username is the display handle chosen at registration (unique, case-insensitive).
	Username string

	// Email is the user's email address (unique, stored lower case).
	// Used for login.
	Email string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the user account was created.
	CreatedAt int64
}

// NewUser builds a user with a fresh ID and creation time.
func NewUser(username, email, passwordHash string) *User {
	return &User{
		ID:           uuid.New().String(),
		Username:     strings.TrimSpace(username),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}
