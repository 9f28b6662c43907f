package service

import (
	"context"
	"testing"

	"sense-console/internal/backendtest"
	"sense-console/internal/catalog"
	"sense-console/internal/gateway"
	"sense-console/internal/permission"
	"sense-console/internal/session"
)

// loggedInServices starts a stub backend, signs in an admin fixture and
// returns the service bundle bound to it.
func loggedInServices(t *testing.T) (*Services, *backendtest.Server) {
	t.Helper()
	srv, err := backendtest.Start(&backendtest.Account{
		Username: "root", Password: "pw", IsAdmin: true,
	})
	if err != nil {
		t.Fatalf("starting test backend: %v", err)
	}
	t.Cleanup(srv.Close)

	gw := gateway.New(srv.URL, 0)
	sess := session.New(gw, session.NewFileStore(t.TempDir()), session.Options{})
	if !sess.Login(context.Background(), "root", "pw") {
		t.Fatalf("fixture login failed: %+v", sess.LastFailure())
	}
	return New(gw, 2), srv
}

func TestRoleCreateAndList(t *testing.T) {
	svc, _ := loggedInServices(t)
	ctx := context.Background()

	in := NewRoleFromArchetype(catalog.Default(), permission.ArchetypeViewer)
	in.Name = "Night Shift"
	if errs := ValidateRoleInput(in, catalog.Default()); len(errs) != 0 {
		t.Fatalf("valid input rejected: %v", errs)
	}

	created, err := svc.Roles.Create(ctx, in)
	if err != nil {
		t.Fatal(err)
	}
	if created.ID == 0 || created.Name != "Night Shift" {
		t.Fatalf("created = %+v", created)
	}
	if got := permission.Classify(catalog.Default(), created.PermissionSet()); got != permission.ArchetypeViewer {
		t.Fatalf("round-tripped role classified as %s", got)
	}

	roles, err := svc.Roles.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(roles) != 1 || roles[0].ID != created.ID {
		t.Fatalf("list = %+v", roles)
	}
}

func TestRoleGetNotFound(t *testing.T) {
	svc, _ := loggedInServices(t)

	_, err := svc.Roles.Get(context.Background(), 999)
	if !gateway.IsNotFoundError(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestRoleDeleteRefusesSystemRoles(t *testing.T) {
	svc, srv := loggedInServices(t)
	ctx := context.Background()

	system := true
	role := srv.SeedRole(&backendtest.Role{Name: "Admin", Active: true, System: &system})

	err := svc.Roles.Delete(ctx, &session.Role{ID: role.ID, Name: role.Name, System: &system})
	if err == nil {
		t.Fatal("system role deletion allowed")
	}

	// The refusal is local: the backend must not have seen a delete.
	if _, getErr := svc.Roles.Get(ctx, role.ID); getErr != nil {
		t.Fatalf("system role gone from backend: %v", getErr)
	}
}

func TestRoleDeleteInUse(t *testing.T) {
	srv, err := backendtest.Start(&backendtest.Account{
		Username: "root", Password: "pw", IsAdmin: true,
		Role: &backendtest.Role{Name: "ops", Active: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(srv.Close)

	gw := gateway.New(srv.URL, 0)
	sess := session.New(gw, session.NewFileStore(t.TempDir()), session.Options{})
	if !sess.Login(context.Background(), "root", "pw") {
		t.Fatalf("fixture login failed: %+v", sess.LastFailure())
	}
	svc := New(gw, 0)

	roles, err := svc.Roles.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(roles) != 1 {
		t.Fatalf("roles = %+v", roles)
	}

	delErr := svc.Roles.Delete(context.Background(), &roles[0])
	if delErr == nil {
		t.Fatal("deleting an assigned role succeeded")
	}
	if gateway.StatusOf(delErr) != 409 {
		t.Fatalf("expected 409 conflict, got %v", delErr)
	}
}

func TestValidateRoleInput(t *testing.T) {
	c := catalog.Default()

	empty := RoleInput{}
	errs := ValidateRoleInput(empty, c)
	if len(errs) != 2 {
		t.Fatalf("empty input errors = %v", errs)
	}

	short := RoleInput{Name: "x", Permissions: permission.Set{"customers": {"read"}}}
	if errs := ValidateRoleInput(short, c); len(errs) != 1 {
		t.Fatalf("short-name errors = %v", errs)
	}

	bad := RoleInput{Name: "ok", Permissions: permission.Set{"spaceships": {"read"}}}
	if errs := ValidateRoleInput(bad, c); len(errs) != 1 {
		t.Fatalf("unknown-resource errors = %v", errs)
	}
}

func TestRoleCreateDoesNotShareCallerSet(t *testing.T) {
	svc, _ := loggedInServices(t)
	ctx := context.Background()

	mine := permission.Set{"customers": {"read"}}
	in := RoleInput{Name: "clerks", Permissions: mine, Active: true}
	if _, err := svc.Roles.Create(ctx, in); err != nil {
		t.Fatal(err)
	}

	mine["customers"] = append(mine["customers"], "delete")
	roles, err := svc.Roles.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if roles[0].PermissionSet().Has("customers", "delete") {
		t.Fatal("caller's set mutation leaked into the created role")
	}
}
