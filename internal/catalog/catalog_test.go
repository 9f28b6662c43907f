package catalog

import "testing"

func TestDefaultCatalogIsValid(t *testing.T) {
	c := Default()
	if len(c.Resources()) == 0 {
		t.Fatal("default catalog has no resources")
	}
	if len(c.Categories()) != 5 {
		t.Fatalf("expected 5 categories, got %d", len(c.Categories()))
	}

	// Every resource must carry at least a read action.
	for _, res := range c.Resources() {
		if res.Action("read") == nil {
			t.Fatalf("resource %s has no read action", res.Name)
		}
	}
}

func TestNewRejectsUnknownCategory(t *testing.T) {
	_, err := New(
		[]Resource{{Name: "widgets", Category: "nope", Actions: []Action{{Name: "read"}}}},
		[]Category{{Name: "administration"}},
		nil,
	)
	if err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestNewRejectsDuplicates(t *testing.T) {
	cats := []Category{{Name: "administration"}}

	_, err := New([]Resource{
		{Name: "widgets", Category: "administration", Actions: []Action{{Name: "read"}}},
		{Name: "widgets", Category: "administration", Actions: []Action{{Name: "read"}}},
	}, cats, nil)
	if err == nil {
		t.Fatal("expected error for duplicate resource")
	}

	_, err = New([]Resource{
		{Name: "widgets", Category: "administration", Actions: []Action{{Name: "read"}, {Name: "read"}}},
	}, cats, nil)
	if err == nil {
		t.Fatal("expected error for duplicate action")
	}
}

func TestNewRejectsUnknownAllowListEntry(t *testing.T) {
	_, err := New(
		[]Resource{{Name: "widgets", Category: "administration", Actions: []Action{{Name: "read"}}}},
		[]Category{{Name: "administration"}},
		[]string{"gadgets"},
	)
	if err == nil {
		t.Fatal("expected error for unknown allow-list resource")
	}
}

func TestResourceLookup(t *testing.T) {
	c := Default()

	if c.Resource("cameras") == nil {
		t.Fatal("cameras should exist")
	}
	if c.Resource("spaceships") != nil {
		t.Fatal("unknown resource should resolve to nil")
	}
}

func TestActionRiskDefaultsToLow(t *testing.T) {
	c := Default()

	if risk := c.ActionRisk("roles", "delete"); risk != RiskCritical {
		t.Fatalf("roles.delete should be critical, got %s", risk)
	}
	if risk := c.ActionRisk("customers", "read"); risk != RiskLow {
		t.Fatalf("untagged action should default to low, got %s", risk)
	}
	if risk := c.ActionRisk("customers", "explode"); risk != RiskLow {
		t.Fatalf("unknown action should default to low, got %s", risk)
	}
	if risk := c.ActionRisk("spaceships", "read"); risk != RiskLow {
		t.Fatalf("unknown resource should default to low, got %s", risk)
	}
}

func TestAPIKeyResourcesExcludeAdministrative(t *testing.T) {
	c := Default()

	resources := c.APIKeyResources()
	if len(resources) == 0 {
		t.Fatal("no API key resources")
	}
	for _, res := range resources {
		switch res.Name {
		case "users", "roles", "system_config", "api_keys", "logs":
			t.Fatalf("administrative resource %s offered for API keys", res.Name)
		}
	}
}

func TestResourcesByCategory(t *testing.T) {
	c := Default()

	infra := c.ResourcesByCategory("infrastructure")
	if len(infra) != 3 {
		t.Fatalf("expected 3 infrastructure resources, got %d", len(infra))
	}
	if got := c.ResourcesByCategory("unknown"); len(got) != 0 {
		t.Fatalf("unknown category should be empty, got %d", len(got))
	}
}
