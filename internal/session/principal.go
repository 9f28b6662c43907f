package session

import (
	"encoding/json"
	"strings"

	"sense-console/internal/permission"
)

// Role is the role record attached to a principal.
type Role struct {
	ID          int             `json:"id,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Active      bool            `json:"active"`
	// Permissions is kept raw because the backend has shipped both the
	// structured map and the legacy flat list here.
	Permissions json.RawMessage `json:"permissions,omitempty"`
	// System comes from newer backends. Older ones omit it and the
	// reserved-name heuristic applies instead.
	System *bool `json:"is_system,omitempty"`
}

// IsSystem reports whether the role is a non-deletable system role. The
// backend flag wins when present; otherwise the reserved names "admin" and
// "viewer" are treated as system roles.
func (r *Role) IsSystem() bool {
	if r == nil {
		return false
	}
	if r.System != nil {
		return *r.System
	}
	name := strings.ToLower(r.Name)
	return name == "admin" || name == "viewer"
}

// PermissionSet decodes the structured permission map, or nil when the role
// carries the legacy list or nothing.
func (r *Role) PermissionSet() permission.Set {
	if r == nil {
		return nil
	}
	if structured, ok := permission.Detect(r.Permissions).(permission.Structured); ok {
		return structured.Set
	}
	return nil
}

// Principal is the authenticated user as returned by login and profile
// endpoints.
type Principal struct {
	ID       int    `json:"id,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	IsAdmin  bool   `json:"is_admin,omitempty"`
	Role     *Role  `json:"role,omitempty"`
	// Permissions is the legacy principal-level flat permission list.
	Permissions []string `json:"permissions,omitempty"`
}

// RoleName returns the principal's role name, or "" without a role.
func (p *Principal) RoleName() string {
	if p == nil || p.Role == nil {
		return ""
	}
	return p.Role.Name
}

// representation picks the principal's permission model: the role's
// structured or legacy permissions first, then the principal-level legacy
// list, then None.
func (p *Principal) representation() permission.Representation {
	if p == nil {
		return permission.None{}
	}
	if p.Role != nil {
		rep := permission.Detect(p.Role.Permissions)
		if _, none := rep.(permission.None); !none {
			return rep
		}
	}
	if len(p.Permissions) > 0 {
		return permission.LegacyFlat{Permissions: p.Permissions}
	}
	return permission.None{}
}
