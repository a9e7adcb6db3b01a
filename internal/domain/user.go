package domain

import (
	"context"
	"time"
)

// User represents a registered account. Users are never updated after creation.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// UserRepository defines persistence operations for users.
// Create must return ErrDuplicateEmail when the store's unique index on
// email rejects the insert.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
}
