package service

import (
	"context"
	"strings"
	"testing"

	"sense-console/internal/catalog"
	"sense-console/internal/permission"
)

func TestValidateAPIKeyInput(t *testing.T) {
	c := catalog.Default()

	valid := APIKeyInput{
		Name:        "integration",
		Permissions: permission.Set{"cameras": {"read"}, "events": {"read"}},
	}
	if errs := ValidateAPIKeyInput(valid, c); len(errs) != 0 {
		t.Fatalf("valid input rejected: %v", errs)
	}

	if errs := ValidateAPIKeyInput(APIKeyInput{}, c); len(errs) != 2 {
		t.Fatalf("empty input errors = %v", errs)
	}

	// Administrative resources are never eligible for external credentials.
	admin := APIKeyInput{
		Name:        "sneaky",
		Permissions: permission.Set{"users": {"read"}, "cameras": {"read"}},
	}
	errs := ValidateAPIKeyInput(admin, c)
	if len(errs) != 1 || !strings.Contains(errs[0], "users") {
		t.Fatalf("ineligible resource errors = %v", errs)
	}
}

func TestAPIKeyCreateReturnsSecretOnce(t *testing.T) {
	svc, _ := loggedInServices(t)
	ctx := context.Background()

	key, err := svc.APIKeys.Create(ctx, APIKeyInput{
		Name:        "integration",
		Permissions: permission.Set{"events": {"read"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(key.Key, "sk_") {
		t.Fatalf("create response missing the secret: %+v", key)
	}

	keys, err := svc.APIKeys.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 1 || keys[0].Name != "integration" {
		t.Fatalf("list = %+v", keys)
	}
}
