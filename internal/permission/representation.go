package permission

import "encoding/json"

// Representation is the permission model attached to a principal. The backend
// has shipped two shapes over time: the structured resource→actions map, and
// an older flat list of permission strings. A principal may also carry no
// model at all. Each variant evaluates itself; the caller never probes shapes.
type Representation interface {
	// Allows reports whether the representation grants the action on the
	// resource. An empty action asks for any access to the resource.
	Allows(resource, action string) bool
}

// Structured wraps the current resource→actions map representation.
type Structured struct {
	Set Set
}

func (r Structured) Allows(resource, action string) bool {
	if action == "" {
		return r.Set.HasAny(resource)
	}
	return r.Set.Has(resource, action)
}

// LegacyFlat wraps the pre-role flat permission string list. Deployed data
// used several naming conventions, so a lookup probes each of them.
type LegacyFlat struct {
	Permissions []string
}

func (r LegacyFlat) Allows(resource, action string) bool {
	if action == "" {
		return r.contains(resource)
	}
	candidates := []string{
		resource + ":" + action,
		resource + "." + action,
		resource + "_" + action,
		action + "_" + resource,
		resource,
		action,
	}
	for _, candidate := range candidates {
		if r.contains(candidate) {
			return true
		}
	}
	return false
}

func (r LegacyFlat) contains(s string) bool {
	for _, p := range r.Permissions {
		if p == s {
			return true
		}
	}
	return false
}

// None is the absence of a permission model. It grants nothing; whether an
// authenticated principal without a model passes checks anyway is a session
// policy, not a property of the representation.
type None struct{}

func (None) Allows(resource, action string) bool { return false }

// Detect decodes a raw permissions field into its representation. Unknown or
// malformed payloads degrade to None rather than failing.
func Detect(raw json.RawMessage) Representation {
	if len(raw) == 0 || string(raw) == "null" {
		return None{}
	}

	var s Set
	if err := json.Unmarshal(raw, &s); err == nil {
		return Structured{Set: s}
	}

	var flat []string
	if err := json.Unmarshal(raw, &flat); err == nil {
		return LegacyFlat{Permissions: flat}
	}

	return None{}
}
