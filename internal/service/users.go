package service

import (
	"context"
	"fmt"
	"time"

	"sense-console/internal/gateway"
	"sense-console/internal/permission"
	"sense-console/internal/session"
)

// UserService manages user accounts under /auth/users.
type UserService struct {
	gw      *gateway.Client
	retries int
}

// User is the account record as listed by the backend.
type User struct {
	ID        int           `json:"id"`
	Username  string        `json:"username"`
	Email     string        `json:"email,omitempty"`
	Active    bool          `json:"active"`
	Role      *session.Role `json:"role,omitempty"`
	LastLogin time.Time     `json:"last_login,omitzero"`
	CreatedAt time.Time     `json:"created_at,omitzero"`
}

// UserInput is the create/update payload. Password is omitted on update to
// keep the current one.
type UserInput struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
	RoleID   int    `json:"role_id,omitempty"`
	Active   bool   `json:"active"`
}

func (s *UserService) List(ctx context.Context) ([]User, error) {
	var users []User
	err := gateway.Retry(ctx, s.retries, func() error {
		return s.gw.Get(ctx, "/auth/users", nil, &users)
	})
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id int) (*User, error) {
	var user User
	if err := s.gw.Get(ctx, fmt.Sprintf("/auth/users/%d", id), nil, &user); err != nil {
		return nil, fmt.Errorf("load user %d: %w", id, err)
	}
	return &user, nil
}

func (s *UserService) Create(ctx context.Context, in UserInput) (*User, error) {
	var user User
	if err := s.gw.Post(ctx, "/auth/users", in, &user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

func (s *UserService) Update(ctx context.Context, id int, in UserInput) (*User, error) {
	var user User
	if err := s.gw.Put(ctx, fmt.Sprintf("/auth/users/%d", id), in, &user); err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	return &user, nil
}

func (s *UserService) Delete(ctx context.Context, id int) error {
	if err := s.gw.Delete(ctx, fmt.Sprintf("/auth/users/%d", id), nil); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}

// ReplacePermissions replaces the user's individual permission overrides. The
// set is cloned before submission.
func (s *UserService) ReplacePermissions(ctx context.Context, id int, set permission.Set) error {
	if err := s.gw.Put(ctx, fmt.Sprintf("/auth/users/%d/permissions", id), set.Clone(), nil); err != nil {
		return fmt.Errorf("replace permissions for user %d: %w", id, err)
	}
	return nil
}
