package core

import (
	"context"
	"time"
)

// User is a staff member who prepares, sends, approves or converts quotations.
type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Actor returns the identity passed into quotation transitions.
func (u *User) Actor() Actor {
	return Actor{UserID: u.ID, Role: u.Role}
}

// UserService provides user lookup operations.
type UserService interface {
	// GetByUsername finds an active user by username.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// GetByID returns an active user by primary key.
	GetByID(ctx context.Context, userID int) (*User, error)
}
