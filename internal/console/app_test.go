package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"sense-console/internal/backendtest"
	"sense-console/internal/config"
)

func newTestApp(t *testing.T, password string, accounts ...*backendtest.Account) (*App, *bytes.Buffer) {
	t.Helper()
	srv, err := backendtest.Start(accounts...)
	if err != nil {
		t.Fatalf("starting test backend: %v", err)
	}
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.API.BaseURL = srv.URL
	cfg.API.Retries = 1
	cfg.Auth.PermissiveFallback = false
	cfg.Credentials.Dir = t.TempDir()

	out := &bytes.Buffer{}
	app := New(cfg, out, func(string) (string, error) { return password, nil })
	return app, out
}

func viewerFixture() *backendtest.Account {
	return &backendtest.Account{
		Username: "vera",
		Password: "pw",
		Role: &backendtest.Role{
			Name:        "viewer",
			Active:      true,
			Permissions: map[string][]string{"customers": {"read"}},
		},
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	app, _ := newTestApp(t, "pw", viewerFixture())

	err := app.Dispatch(context.Background(), "frobnicate", nil)
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("got %v", err)
	}
}

func TestDispatchRequiresAuth(t *testing.T) {
	app, _ := newTestApp(t, "pw", viewerFixture())

	err := app.Dispatch(context.Background(), "whoami", nil)
	if err == nil || !strings.Contains(err.Error(), "not signed in") {
		t.Fatalf("got %v", err)
	}
}

func TestDispatchGuestOnly(t *testing.T) {
	app, _ := newTestApp(t, "pw", viewerFixture())
	ctx := context.Background()

	if err := app.Dispatch(ctx, "login", []string{"vera"}); err != nil {
		t.Fatal(err)
	}
	err := app.Dispatch(ctx, "login", []string{"vera"})
	if err == nil || !strings.Contains(err.Error(), "already signed in") {
		t.Fatalf("got %v", err)
	}
}

func TestDispatchPermissionGuard(t *testing.T) {
	app, _ := newTestApp(t, "pw", viewerFixture())
	ctx := context.Background()

	if err := app.Dispatch(ctx, "login", []string{"vera"}); err != nil {
		t.Fatal(err)
	}

	// The viewer fixture can read customers but not users.
	if err := app.Dispatch(ctx, "customers", nil); err != nil {
		t.Fatalf("customers denied to viewer: %v", err)
	}
	err := app.Dispatch(ctx, "users", nil)
	if err == nil || !strings.Contains(err.Error(), "permission denied") {
		t.Fatalf("got %v", err)
	}
}

func TestLoginFailureIsReported(t *testing.T) {
	app, _ := newTestApp(t, "wrong-password", viewerFixture())

	err := app.Dispatch(context.Background(), "login", []string{"vera"})
	if err == nil || !strings.Contains(err.Error(), "invalid_credentials") {
		t.Fatalf("got %v", err)
	}
	if app.Session.IsAuthenticated() {
		t.Fatal("failed login left an authenticated session")
	}
}

func TestWhoamiOutput(t *testing.T) {
	app, out := newTestApp(t, "pw", viewerFixture())
	ctx := context.Background()

	if err := app.Dispatch(ctx, "login", []string{"vera"}); err != nil {
		t.Fatal(err)
	}
	out.Reset()

	if err := app.Dispatch(ctx, "whoami", nil); err != nil {
		t.Fatal(err)
	}
	text := out.String()
	for _, want := range []string{"vera", "viewer"} {
		if !strings.Contains(text, want) {
			t.Fatalf("whoami output missing %q:\n%s", want, text)
		}
	}
}

func TestCatalogCommandNeedsNoAuth(t *testing.T) {
	app, out := newTestApp(t, "pw")

	if err := app.Dispatch(context.Background(), "catalog", nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "cameras") {
		t.Fatalf("catalog output missing resources:\n%s", out.String())
	}
}

func TestRolesCreateChecksPermission(t *testing.T) {
	app, _ := newTestApp(t, "pw", viewerFixture())
	ctx := context.Background()

	if err := app.Dispatch(ctx, "login", []string{"vera"}); err != nil {
		t.Fatal(err)
	}

	// The fixture has no roles grant at all, so the command-level roles:read
	// guard rejects before the handler's roles:create check.
	err := app.Dispatch(ctx, "roles", []string{"create", "viewer", "Night Shift"})
	if err == nil || !strings.Contains(err.Error(), "permission denied") {
		t.Fatalf("got %v", err)
	}
}

func TestUsersCreateRejectsWeakPassword(t *testing.T) {
	app, _ := newTestApp(t, "pw", &backendtest.Account{
		Username: "root", Password: "pw", IsAdmin: true,
	})
	ctx := context.Background()

	if err := app.Dispatch(ctx, "login", []string{"root"}); err != nil {
		t.Fatal(err)
	}

	// The scripted prompt answers "pw", which fails the password policy.
	err := app.Dispatch(ctx, "users", []string{"create", "nadia"})
	if err == nil || !strings.Contains(err.Error(), "Password must") {
		t.Fatalf("got %v", err)
	}
}

func TestUsersCreateRejectsBadUsername(t *testing.T) {
	app, _ := newTestApp(t, "pw", &backendtest.Account{
		Username: "root", Password: "pw", IsAdmin: true,
	})
	ctx := context.Background()

	if err := app.Dispatch(ctx, "login", []string{"root"}); err != nil {
		t.Fatal(err)
	}

	err := app.Dispatch(ctx, "users", []string{"create", "Nadia!", "--generate"})
	if err == nil || !strings.Contains(err.Error(), "username") {
		t.Fatalf("got %v", err)
	}
}

func TestUsersCreateWithGeneratedPassword(t *testing.T) {
	app, out := newTestApp(t, "pw", &backendtest.Account{
		Username: "root", Password: "pw", IsAdmin: true,
	})
	ctx := context.Background()

	if err := app.Dispatch(ctx, "login", []string{"root"}); err != nil {
		t.Fatal(err)
	}
	out.Reset()

	err := app.Dispatch(ctx, "users", []string{"create", "nadia", "nadia@example.com", "--generate"})
	if err != nil {
		t.Fatal(err)
	}
	text := out.String()
	if !strings.Contains(text, "Created user nadia") {
		t.Fatalf("output:\n%s", text)
	}
	if !strings.Contains(text, "Generated password: ") {
		t.Fatalf("generated secret not shown:\n%s", text)
	}

	out.Reset()
	if err := app.Dispatch(ctx, "users", []string{"list"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "nadia") {
		t.Fatalf("new user missing from list:\n%s", out.String())
	}
}

func TestRolesCreateAsAdmin(t *testing.T) {
	app, out := newTestApp(t, "pw", &backendtest.Account{
		Username: "root", Password: "pw", IsAdmin: true,
	})
	ctx := context.Background()

	if err := app.Dispatch(ctx, "login", []string{"root"}); err != nil {
		t.Fatal(err)
	}
	if err := app.Dispatch(ctx, "roles", []string{"create", "operator", "Night Shift"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Created role Night Shift") {
		t.Fatalf("output:\n%s", out.String())
	}

	out.Reset()
	if err := app.Dispatch(ctx, "roles", []string{"list"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "operator") {
		t.Fatalf("created role not classified in list:\n%s", out.String())
	}
}
