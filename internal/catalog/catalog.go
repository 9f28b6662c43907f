package catalog

import "fmt"

// Risk classifies how dangerous an action is when granted to a role or key.
type Risk string

const (
	RiskLow      Risk = "low"
	RiskMedium   Risk = "medium"
	RiskHigh     Risk = "high"
	RiskCritical Risk = "critical"
)

// Action is one operation permitted on a Resource. The zero Risk value is
// treated as RiskLow everywhere.
type Action struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Risk        Risk   `json:"risk,omitempty"`
}

// Resource identifies a protectable entity class exposed by the platform.
type Resource struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Actions     []Action `json:"actions"`
}

// Action returns the named action of the resource, or nil if undefined.
func (r *Resource) Action(name string) *Action {
	for i := range r.Actions {
		if r.Actions[i].Name == name {
			return &r.Actions[i]
		}
	}
	return nil
}

// Category groups resources for presentation.
type Category struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// Catalog is the immutable description of every protectable resource, its
// actions and categories. It is built once at startup and never mutated, so
// lookups require no locking. Unknown names resolve to zero values, never
// errors: callers treat "not found" as "no permission".
type Catalog struct {
	resources  []Resource
	categories []Category
	byName     map[string]*Resource
	byCategory map[string]bool
	apiKeyOK   []string
}

// New validates the resource definitions and builds a Catalog. Every resource
// must reference a defined category, resource names and per-resource action
// names must be unique, and every API key allow-list entry must name a defined
// resource.
func New(resources []Resource, categories []Category, apiKeyAllowed []string) (*Catalog, error) {
	c := &Catalog{
		resources:  resources,
		categories: categories,
		byName:     make(map[string]*Resource, len(resources)),
		byCategory: make(map[string]bool, len(categories)),
		apiKeyOK:   apiKeyAllowed,
	}

	for _, cat := range categories {
		if c.byCategory[cat.Name] {
			return nil, fmt.Errorf("duplicate category: %s", cat.Name)
		}
		c.byCategory[cat.Name] = true
	}

	for i := range c.resources {
		res := &c.resources[i]
		if res.Name == "" {
			return nil, fmt.Errorf("resource at index %d has no name", i)
		}
		if _, exists := c.byName[res.Name]; exists {
			return nil, fmt.Errorf("duplicate resource: %s", res.Name)
		}
		if !c.byCategory[res.Category] {
			return nil, fmt.Errorf("resource %s references unknown category %q", res.Name, res.Category)
		}
		seen := make(map[string]bool, len(res.Actions))
		for _, a := range res.Actions {
			if a.Name == "" {
				return nil, fmt.Errorf("resource %s has an action with no name", res.Name)
			}
			if seen[a.Name] {
				return nil, fmt.Errorf("resource %s has duplicate action %s", res.Name, a.Name)
			}
			seen[a.Name] = true
		}
		c.byName[res.Name] = res
	}

	for _, name := range apiKeyAllowed {
		if _, ok := c.byName[name]; !ok {
			return nil, fmt.Errorf("api key allow-list references unknown resource %q", name)
		}
	}

	return c, nil
}

// Resources returns the full ordered resource list. Callers must not modify it.
func (c *Catalog) Resources() []Resource {
	return c.resources
}

// Categories returns the defined categories in declaration order.
func (c *Catalog) Categories() []Category {
	return c.categories
}

// Resource looks up a resource by name. Returns nil when unknown.
func (c *Catalog) Resource(name string) *Resource {
	return c.byName[name]
}

// ResourcesByCategory returns all resources belonging to the given category.
func (c *Catalog) ResourcesByCategory(category string) []Resource {
	var out []Resource
	for _, r := range c.resources {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}

// ActionRisk returns the risk tier of the given (resource, action) pair.
// Unknown resources or actions default to RiskLow.
func (c *Catalog) ActionRisk(resource, action string) Risk {
	res := c.byName[resource]
	if res == nil {
		return RiskLow
	}
	a := res.Action(action)
	if a == nil || a.Risk == "" {
		return RiskLow
	}
	return a.Risk
}

// APIKeyResources returns the subset of resources eligible for API key
// permission assignment. Administrative resources (user, role and system
// configuration management) are deliberately excluded.
func (c *Catalog) APIKeyResources() []Resource {
	out := make([]Resource, 0, len(c.apiKeyOK))
	for _, name := range c.apiKeyOK {
		if r := c.byName[name]; r != nil {
			out = append(out, *r)
		}
	}
	return out
}
