// Package console wires the session, gateway and services behind a
// declarative command table. Each command declares its auth requirements the
// way the old web console's routes did; Dispatch enforces them before any
// handler runs.
package console

import (
	"context"
	"fmt"
	"io"
	"sort"

	"sense-console/internal/catalog"
	"sense-console/internal/config"
	"sense-console/internal/gateway"
	"sense-console/internal/service"
	"sense-console/internal/session"
)

// App carries everything a command handler needs.
type App struct {
	Config   *config.Config
	Catalog  *catalog.Catalog
	Gateway  *gateway.Client
	Session  *session.Session
	Services *service.Services

	Out io.Writer
	// ReadPassword prompts for a secret. Injected so tests can script it.
	ReadPassword func(prompt string) (string, error)
}

// New assembles the app from loaded configuration.
func New(cfg *config.Config, out io.Writer, readPassword func(string) (string, error)) *App {
	gw := gateway.New(cfg.API.BaseURL, cfg.API.Timeout())
	store := session.NewFileStore(cfg.Credentials.Dir)
	sess := session.New(gw, store, session.Options{
		PermissiveFallback: cfg.Auth.PermissiveFallback,
	})

	return &App{
		Config:       cfg,
		Catalog:      catalog.Default(),
		Gateway:      gw,
		Session:      sess,
		Services:     service.New(gw, cfg.API.Retries),
		Out:          out,
		ReadPassword: readPassword,
	}
}

// Command is one console entry. Permission, when set, is checked against the
// session after the auth guard passes.
type Command struct {
	Name        string
	Usage       string
	Description string

	RequiresAuth bool
	GuestOnly    bool
	// Permission is the (resource, action) pair required to run the command.
	Permission [2]string

	Run func(ctx context.Context, app *App, args []string) error
}

// Dispatch finds the named command, applies its guards and runs it.
func (a *App) Dispatch(ctx context.Context, name string, args []string) error {
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q (run 'help')", name)
	}

	if cmd.RequiresAuth && !a.Session.IsAuthenticated() {
		return fmt.Errorf("not signed in; run 'login <username>' first")
	}
	if cmd.GuestOnly && a.Session.IsAuthenticated() {
		return fmt.Errorf("already signed in as %s; run 'logout' first", a.Session.Principal().Username)
	}
	if cmd.Permission[0] != "" && !a.Session.HasPermission(cmd.Permission[0], cmd.Permission[1]) {
		return fmt.Errorf("permission denied: %s requires %s:%s", name, cmd.Permission[0], cmd.Permission[1])
	}

	return cmd.Run(ctx, a, args)
}

// Commands returns the table sorted by name, for help output.
func Commands() []*Command {
	out := make([]*Command, 0, len(commands))
	for _, cmd := range commands {
		out = append(out, cmd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
