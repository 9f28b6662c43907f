package service

import (
	"context"
	"fmt"
	"strings"

	"sense-console/internal/catalog"
	"sense-console/internal/gateway"
	"sense-console/internal/permission"
	"sense-console/internal/session"
	"sense-console/internal/validate"
)

// RoleService manages roles under /auth/roles.
type RoleService struct {
	gw      *gateway.Client
	retries int
}

// RoleInput is the create/update payload. The permission set is cloned before
// submission so the caller's working copy stays independent.
type RoleInput struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Permissions permission.Set `json:"permissions"`
	Active      bool           `json:"active"`
}

// roleNameRule is the client-side name check applied before any role submit.
var roleNameRule = validate.Combine(
	validate.Required("role_name"),
	validate.MinLen("role_name", 2),
	validate.MaxLen("role_name", 64),
)

// ValidateRoleInput runs the client-side checks the role form applies before
// submitting: name rules plus catalog conformance of the permission set. A
// role must grant at least one permission.
func ValidateRoleInput(in RoleInput, c *catalog.Catalog) []string {
	var errs []string
	if msg := roleNameRule(strings.TrimSpace(in.Name)); msg != "" {
		errs = append(errs, msg)
	}
	errs = append(errs, permission.ValidateRequired(in.Permissions, c)...)
	return errs
}

// NewRoleFromArchetype returns a role input pre-populated with the archetype's
// default permission set.
func NewRoleFromArchetype(c *catalog.Catalog, archetype string) RoleInput {
	return RoleInput{
		Permissions: permission.Defaults(c, archetype),
		Active:      true,
	}
}

func (s *RoleService) List(ctx context.Context) ([]session.Role, error) {
	var roles []session.Role
	err := gateway.Retry(ctx, s.retries, func() error {
		return s.gw.Get(ctx, "/auth/roles", nil, &roles)
	})
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	return roles, nil
}

func (s *RoleService) Get(ctx context.Context, id int) (*session.Role, error) {
	var role session.Role
	if err := s.gw.Get(ctx, fmt.Sprintf("/auth/roles/%d", id), nil, &role); err != nil {
		return nil, fmt.Errorf("load role %d: %w", id, err)
	}
	return &role, nil
}

func (s *RoleService) Create(ctx context.Context, in RoleInput) (*session.Role, error) {
	in.Permissions = in.Permissions.Clone()
	var role session.Role
	if err := s.gw.Post(ctx, "/auth/roles", in, &role); err != nil {
		return nil, fmt.Errorf("create role: %w", err)
	}
	return &role, nil
}

func (s *RoleService) Update(ctx context.Context, id int, in RoleInput) (*session.Role, error) {
	in.Permissions = in.Permissions.Clone()
	var role session.Role
	if err := s.gw.Put(ctx, fmt.Sprintf("/auth/roles/%d", id), in, &role); err != nil {
		return nil, fmt.Errorf("update role %d: %w", id, err)
	}
	return &role, nil
}

// Delete removes a role. The backend refuses while users still hold the role;
// system roles are never submitted for deletion in the first place.
func (s *RoleService) Delete(ctx context.Context, role *session.Role) error {
	if role.IsSystem() {
		return fmt.Errorf("role %q is a system role and cannot be deleted", role.Name)
	}
	if err := s.gw.Delete(ctx, fmt.Sprintf("/auth/roles/%d", role.ID), nil); err != nil {
		return fmt.Errorf("delete role %d: %w", role.ID, err)
	}
	return nil
}

// ReassignUsers moves every user holding fromRole onto toRole, the step the
// console offers before deleting a role that is still in use.
func (s *RoleService) ReassignUsers(ctx context.Context, fromRole, toRole int) error {
	body := map[string]int{"target_role_id": toRole}
	if err := s.gw.Post(ctx, fmt.Sprintf("/auth/roles/%d/reassign", fromRole), body, nil); err != nil {
		return fmt.Errorf("reassign users from role %d: %w", fromRole, err)
	}
	return nil
}
