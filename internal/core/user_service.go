package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type userService struct {
	pool *pgxpool.Pool
}

// NewUserService constructs a UserService backed by PostgreSQL.
func NewUserService(pool *pgxpool.Pool) UserService {
	return &userService{pool: pool}
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*User, error) {
	return s.getUser(ctx, "username = $1", username)
}

func (s *userService) GetByID(ctx context.Context, userID int) (*User, error) {
	return s.getUser(ctx, "id = $1", userID)
}

func (s *userService) getUser(ctx context.Context, where string, arg any) (*User, error) {
	u := &User{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, username, email, role, is_active, created_at
		FROM users
		WHERE `+where+` AND is_active = true
		LIMIT 1`,
		arg,
	).Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.IsActive, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFoundf("user %v", arg)
		}
		return nil, fmt.Errorf("get user %v: %w", arg, err)
	}
	return u, nil
}
