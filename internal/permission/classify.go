package permission

import "sense-console/internal/catalog"

// archetypes checked by Classify, in priority order.
var classifyOrder = []string{
	ArchetypeAdmin,
	ArchetypeManager,
	ArchetypeOperator,
	ArchetypeViewer,
}

// Classify reports which archetype the permission set matches, or
// ArchetypeCustom when it matches none. Comparison is structural and
// order-insensitive: two sets granting the same (resource, action) pairs are
// the same archetype no matter how they were assembled.
func Classify(c *catalog.Catalog, s Set) string {
	for _, archetype := range classifyOrder {
		if s.Equal(Defaults(c, archetype)) {
			return archetype
		}
	}
	return ArchetypeCustom
}
