package permission

import (
	"strings"

	"sense-console/internal/catalog"
)

// Archetype names with generated default permission sets. Any other role type
// (including the empty string) gets the small fallback set.
const (
	ArchetypeAdmin    = "admin"
	ArchetypeManager  = "manager"
	ArchetypeOperator = "operator"
	ArchetypeViewer   = "viewer"
	ArchetypeCustom   = "custom"
)

// Defaults derives the starter permission set for a role archetype from the
// catalog. The archetype tag is case-insensitive. Output is deterministic for
// a given catalog: resources and actions are emitted in catalog order, which
// Classify relies on via structural equality.
func Defaults(c *catalog.Catalog, archetype string) Set {
	defaults := make(Set)

	switch strings.ToLower(archetype) {
	case ArchetypeAdmin:
		// Every action on every resource. All other archetypes are subsets.
		for _, res := range c.Resources() {
			defaults[res.Name] = actionNames(res.Actions, func(a catalog.Action) bool {
				return true
			})
		}

	case ArchetypeManager:
		for _, res := range c.Resources() {
			allowed := actionNames(res.Actions, func(a catalog.Action) bool {
				return a.Risk != catalog.RiskCritical
			})
			if len(allowed) > 0 {
				defaults[res.Name] = allowed
			}
		}

	case ArchetypeOperator:
		for _, res := range c.Resources() {
			allowed := actionNames(res.Actions, func(a catalog.Action) bool {
				if a.Name != "read" && a.Name != "update" {
					return false
				}
				return a.Risk == "" || a.Risk == catalog.RiskLow || a.Risk == catalog.RiskMedium
			})
			if len(allowed) > 0 {
				defaults[res.Name] = allowed
			}
		}

	case ArchetypeViewer:
		for _, res := range c.Resources() {
			allowed := actionNames(res.Actions, func(a catalog.Action) bool {
				return a.Name == "read"
			})
			if len(allowed) > 0 {
				defaults[res.Name] = allowed
			}
		}

	default:
		// Custom roles start with basic read access to core business data.
		for _, name := range []string{"customers", "contracts", "events"} {
			if c.Resource(name) != nil {
				defaults[name] = []string{"read"}
			}
		}
	}

	return defaults
}

func actionNames(actions []catalog.Action, keep func(catalog.Action) bool) []string {
	var names []string
	for _, a := range actions {
		if keep(a) {
			names = append(names, a.Name)
		}
	}
	return names
}
