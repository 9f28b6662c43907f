package service

import (
	"context"
	"testing"

	"sense-console/internal/gateway"
	"sense-console/internal/session"
)

func TestUserCreateAndLogin(t *testing.T) {
	svc, srv := loggedInServices(t)
	ctx := context.Background()

	user, err := svc.Users.Create(ctx, UserInput{
		Username: "nadia",
		Email:    "nadia@example.com",
		Password: "Br1ght-Moon!",
		Active:   true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if user.ID == 0 || user.Username != "nadia" {
		t.Fatalf("created = %+v", user)
	}

	users, err := svc.Users.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, u := range users {
		if u.Username == "nadia" {
			found = true
		}
	}
	if !found {
		t.Fatalf("created user missing from list: %+v", users)
	}

	// The new account can sign in with the submitted password.
	sess := session.New(gateway.New(srv.URL, 0), session.NewFileStore(t.TempDir()), session.Options{})
	if !sess.Login(ctx, "nadia", "Br1ght-Moon!") {
		t.Fatalf("new account cannot sign in: %+v", sess.LastFailure())
	}
}

func TestUserCreateDuplicateUsername(t *testing.T) {
	svc, _ := loggedInServices(t)
	ctx := context.Background()

	_, err := svc.Users.Create(ctx, UserInput{Username: "root", Password: "Br1ght-Moon!", Active: true})
	if err == nil {
		t.Fatal("duplicate username accepted")
	}
	if gateway.StatusOf(err) != 409 {
		t.Fatalf("expected 409 conflict, got %v", err)
	}
}
