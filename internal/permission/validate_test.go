package permission

import (
	"strings"
	"testing"

	"sense-console/internal/catalog"
)

func TestValidateAcceptsCatalogConformingSet(t *testing.T) {
	c := catalog.Default()
	s := Set{"customers": {"read", "update"}, "cameras": {"read", "update"}}
	if errs := Validate(s, c); len(errs) != 0 {
		t.Fatalf("unexpected validation errors: %v", errs)
	}
}

func TestValidateReportsUnknownResourceAndAction(t *testing.T) {
	c := catalog.Default()
	s := Set{"spaceships": {"read"}, "customers": {"teleport"}}

	errs := Validate(s, c)
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
	joined := strings.Join(errs, "; ")
	if !strings.Contains(joined, "spaceships") || !strings.Contains(joined, "teleport") {
		t.Fatalf("errors should name the offending entries: %v", errs)
	}
}

func TestValidateEmptySet(t *testing.T) {
	c := catalog.Default()

	if errs := Validate(Set{}, c); len(errs) != 0 {
		t.Fatalf("empty set should be valid: %v", errs)
	}
	if errs := Validate(nil, c); len(errs) != 0 {
		t.Fatalf("nil set should be valid: %v", errs)
	}
	if errs := ValidateRequired(Set{}, c); len(errs) != 1 {
		t.Fatalf("ValidateRequired should reject the empty set: %v", errs)
	}
}
