// Package permission implements the permission model of the admin console:
// permission sets, catalog-conformance validation, default sets per role
// archetype, and role-type classification.
package permission

import (
	"sort"

	"sense-console/internal/catalog"
)

// Set maps a resource name to the actions granted on it. Absence of a
// resource key means no access to that resource; an empty action list is
// never stored (removing the last action removes the key).
type Set map[string][]string

// Clone returns a deep copy. Sets are copied whenever they are attached to a
// new owner so that toggling one owner's permissions never leaks into another.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	out := make(Set, len(s))
	for resource, actions := range s {
		out[resource] = append([]string(nil), actions...)
	}
	return out
}

// Has reports whether the set grants the action on the resource. Nil and
// malformed sets simply report false.
func (s Set) Has(resource, action string) bool {
	for _, a := range s[resource] {
		if a == action {
			return true
		}
	}
	return false
}

// HasAny reports whether the set grants any action at all on the resource.
func (s Set) HasAny(resource string) bool {
	return len(s[resource]) > 0
}

// HasAll reports whether every action the catalog defines for the resource is
// granted. Resources with no defined actions report false.
func (s Set) HasAll(res *catalog.Resource) bool {
	if res == nil || len(res.Actions) == 0 {
		return false
	}
	for _, a := range res.Actions {
		if !s.Has(res.Name, a.Name) {
			return false
		}
	}
	return true
}

// Resources returns the granted resource names in sorted order.
func (s Set) Resources() []string {
	out := make([]string, 0, len(s))
	for resource := range s {
		out = append(out, resource)
	}
	sort.Strings(out)
	return out
}

// Count returns the total number of granted (resource, action) pairs.
func (s Set) Count() int {
	n := 0
	for _, actions := range s {
		n += len(actions)
	}
	return n
}

// Toggle returns a new set with the (resource, action) pair present or absent
// according to enabled. The input set is never modified. Removing the last
// action of a resource removes the resource key entirely, so no empty action
// list survives a toggle.
func Toggle(s Set, resource, action string, enabled bool) Set {
	out := s.Clone()
	if out == nil {
		out = make(Set)
	}

	if enabled {
		if !out.Has(resource, action) {
			out[resource] = append(out[resource], action)
		}
		return out
	}

	actions := out[resource]
	kept := actions[:0]
	for _, a := range actions {
		if a != action {
			kept = append(kept, a)
		}
	}
	if len(kept) == 0 {
		delete(out, resource)
	} else {
		out[resource] = kept
	}
	return out
}

// Equal compares two sets structurally, ignoring resource key order, action
// order and duplicate action entries. Semantically identical sets assembled
// in different order must compare equal, otherwise role classification would
// report spurious "custom" roles.
func (s Set) Equal(other Set) bool {
	a := canonical(s)
	b := canonical(other)
	if len(a) != len(b) {
		return false
	}
	for resource, actions := range a {
		otherActions, ok := b[resource]
		if !ok || len(actions) != len(otherActions) {
			return false
		}
		for i := range actions {
			if actions[i] != otherActions[i] {
				return false
			}
		}
	}
	return true
}

// canonical returns a normalized copy: empty resources dropped, action lists
// sorted and deduplicated.
func canonical(s Set) map[string][]string {
	out := make(map[string][]string, len(s))
	for resource, actions := range s {
		if len(actions) == 0 {
			continue
		}
		sorted := append([]string(nil), actions...)
		sort.Strings(sorted)
		dedup := sorted[:0]
		for i, a := range sorted {
			if i == 0 || sorted[i-1] != a {
				dedup = append(dedup, a)
			}
		}
		out[resource] = dedup
	}
	return out
}
