package permission

import (
	"fmt"

	"sense-console/internal/catalog"
)

// Validate checks the set against the catalog: every resource key must name a
// defined resource and every action must belong to that resource. Failures
// are returned as human-readable messages, never as errors or panics; callers
// decide whether to block submission. An empty or nil set is valid here (a
// no-access role is legal).
func Validate(s Set, c *catalog.Catalog) []string {
	var errs []string
	for _, resource := range s.Resources() {
		res := c.Resource(resource)
		if res == nil {
			errs = append(errs, fmt.Sprintf("unknown resource: %s", resource))
			continue
		}
		for _, action := range s[resource] {
			if res.Action(action) == nil {
				errs = append(errs, fmt.Sprintf("unknown action %q for resource %q", action, resource))
			}
		}
	}
	return errs
}

// ValidateRequired is Validate plus the rule that at least one permission must
// be granted. Used where an empty set makes no sense, such as API key creation.
func ValidateRequired(s Set, c *catalog.Catalog) []string {
	errs := Validate(s, c)
	if s.Count() == 0 {
		errs = append(errs, "at least one permission must be selected")
	}
	return errs
}
