package auth

import (
	"context"
	"errors"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User is an account as seen by handlers. Password hashes never leave the store.
type User struct {
	ID    string
	Email string
	Role  string
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// UserStore holds accounts allowed to log in. Emails are matched
// case-insensitively.
type UserStore interface {
	Create(ctx context.Context, email, password, role string) (User, error)
	// Verify returns ErrInvalidCredentials for both unknown emails and bad
	// passwords.
	Verify(ctx context.Context, email, password string) (User, error)
}
