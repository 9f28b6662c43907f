package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"sense-console/internal/format"
	"sense-console/internal/permission"
	"sense-console/internal/service"
	"sense-console/internal/validate"
)

var commands = map[string]*Command{}

func register(cmd *Command) { commands[cmd.Name] = cmd }

func init() {
	register(&Command{
		Name: "login", Usage: "login <username>", GuestOnly: true,
		Description: "Authenticate against the backend",
		Run:         runLogin,
	})
	register(&Command{
		Name: "logout", Usage: "logout", RequiresAuth: true,
		Description: "Sign out and clear stored credentials",
		Run: func(ctx context.Context, app *App, args []string) error {
			app.Session.Logout(ctx)
			fmt.Fprintln(app.Out, "Signed out.")
			return nil
		},
	})
	register(&Command{
		Name: "whoami", Usage: "whoami", RequiresAuth: true,
		Description: "Show the current principal and its permissions",
		Run:         runWhoami,
	})
	register(&Command{
		Name: "roles", Usage: "roles [list|create <archetype> <name>|classify <id>]",
		RequiresAuth: true, Permission: [2]string{"roles", "read"},
		Description: "Inspect and manage roles",
		Run:         runRoles,
	})
	register(&Command{
		Name: "users", Usage: "users [list|create <username> [email] [--generate]]",
		RequiresAuth: true, Permission: [2]string{"users", "read"},
		Description: "Inspect and manage user accounts",
		Run:         runUsers,
	})
	register(&Command{
		Name: "apikeys", Usage: "apikeys", RequiresAuth: true,
		Permission:  [2]string{"api_keys", "read"},
		Description: "List API keys",
		Run:         runAPIKeys,
	})
	register(&Command{
		Name: "customers", Usage: "customers [search]", RequiresAuth: true,
		Permission:  [2]string{"customers", "read"},
		Description: "List customers",
		Run:         runCustomers,
	})
	register(&Command{
		Name: "catalog", Usage: "catalog",
		Description: "Show the permission catalog",
		Run:         runCatalog,
	})
	register(&Command{
		Name: "health", Usage: "health", RequiresAuth: true,
		Description: "Show backend health",
		Run:         runHealth,
	})
	register(&Command{
		Name: "help", Usage: "help",
		Description: "List commands",
		Run: func(ctx context.Context, app *App, args []string) error {
			for _, cmd := range Commands() {
				fmt.Fprintf(app.Out, "  %-42s %s\n", cmd.Usage, cmd.Description)
			}
			return nil
		},
	})
}

func runLogin(ctx context.Context, app *App, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: login <username>")
	}
	username := args[0]

	password, err := app.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	if !app.Session.Login(ctx, username, password) {
		failure := app.Session.LastFailure()
		if failure == nil {
			return fmt.Errorf("login failed")
		}
		return fmt.Errorf("login failed (%s): %s", failure.Kind, failure.Message)
	}

	// Confirm the token and pick up the freshest principal.
	app.Session.RefreshProfile(ctx)

	p := app.Session.Principal()
	fmt.Fprintf(app.Out, "Signed in as %s", p.Username)
	if name := p.RoleName(); name != "" {
		fmt.Fprintf(app.Out, " (%s)", name)
	}
	fmt.Fprintln(app.Out)
	return nil
}

func runWhoami(ctx context.Context, app *App, args []string) error {
	p := app.Session.Principal()
	fmt.Fprintf(app.Out, "Username: %s\n", p.Username)
	if name := p.RoleName(); name != "" {
		fmt.Fprintf(app.Out, "Role:     %s\n", name)
		if set := p.Role.PermissionSet(); set != nil {
			fmt.Fprintf(app.Out, "Type:     %s\n", permission.Classify(app.Catalog, set))
			fmt.Fprintf(app.Out, "Grants:   %d permissions on %d resources\n",
				set.Count(), len(set.Resources()))
		}
	}
	if expiry, ok := app.Session.TokenExpiry(); ok {
		fmt.Fprintf(app.Out, "Token:    expires %s\n", format.Relative(expiry))
	}
	return nil
}

func runRoles(ctx context.Context, app *App, args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub = args[0]
	}

	switch sub {
	case "list":
		roles, err := app.Services.Roles.List(ctx)
		if err != nil {
			return err
		}
		for _, role := range roles {
			kind := permission.ArchetypeCustom
			if set := role.PermissionSet(); set != nil {
				kind = permission.Classify(app.Catalog, set)
			}
			system := ""
			if role.IsSystem() {
				system = " [system]"
			}
			fmt.Fprintf(app.Out, "%4d  %-20s %-10s%s\n", role.ID, role.Name, kind, system)
		}
		return nil

	case "create":
		if len(args) < 3 {
			return fmt.Errorf("usage: roles create <archetype> <name>")
		}
		if !app.Session.HasPermission("roles", "create") {
			return fmt.Errorf("permission denied: roles:create")
		}
		in := service.NewRoleFromArchetype(app.Catalog, args[1])
		in.Name = args[2]
		if errs := service.ValidateRoleInput(in, app.Catalog); len(errs) > 0 {
			return fmt.Errorf("invalid role: %s", strings.Join(errs, "; "))
		}
		role, err := app.Services.Roles.Create(ctx, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(app.Out, "Created role %s (id %d)\n", role.Name, role.ID)
		return nil

	case "classify":
		if len(args) < 2 {
			return fmt.Errorf("usage: roles classify <id>")
		}
		id, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid role id %q", args[1])
		}
		role, err := app.Services.Roles.Get(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintln(app.Out, permission.Classify(app.Catalog, role.PermissionSet()))
		return nil

	default:
		return fmt.Errorf("unknown roles subcommand %q", sub)
	}
}

func runUsers(ctx context.Context, app *App, args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub = args[0]
	}

	switch sub {
	case "list":
		users, err := app.Services.Users.List(ctx)
		if err != nil {
			return err
		}
		for _, u := range users {
			role := "-"
			if u.Role != nil {
				role = u.Role.Name
			}
			state := "active"
			if !u.Active {
				state = "inactive"
			}
			fmt.Fprintf(app.Out, "%4d  %-20s %-12s %-8s last login %s\n",
				u.ID, u.Username, role, state, format.Relative(u.LastLogin))
		}
		return nil

	case "create":
		return runUserCreate(ctx, app, args[1:])

	default:
		return fmt.Errorf("unknown users subcommand %q", sub)
	}
}

// usernameRule matches the backend's account naming policy.
var usernameRule = validate.Combine(
	validate.Required("username"),
	validate.MinLen("username", 3),
	validate.MaxLen("username", 64),
	validate.Expr(`value matches "^[a-z][a-z0-9._-]*$"`,
		"username must start with a letter and use only lowercase letters, digits, '.', '_' and '-'"),
)

func runUserCreate(ctx context.Context, app *App, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: users create <username> [email] [--generate]")
	}
	if !app.Session.HasPermission("users", "create") {
		return fmt.Errorf("permission denied: users:create")
	}

	username := args[0]
	email := ""
	generate := false
	for _, arg := range args[1:] {
		if arg == "--generate" {
			generate = true
		} else {
			email = arg
		}
	}

	if msg := usernameRule(username); msg != "" {
		return fmt.Errorf("invalid user: %s", msg)
	}
	if msg := validate.Email()(email); msg != "" {
		return fmt.Errorf("invalid user: %s", msg)
	}

	var password string
	if generate {
		var err error
		password, err = validate.GeneratePassword(16)
		if err != nil {
			return fmt.Errorf("generate password: %w", err)
		}
	} else {
		var err error
		password, err = app.ReadPassword("Password: ")
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		if msg := validate.DefaultPasswordPolicy.Check(password, true); msg != "" {
			return fmt.Errorf("invalid user: %s", msg)
		}
	}

	user, err := app.Services.Users.Create(ctx, service.UserInput{
		Username: username,
		Email:    email,
		Password: password,
		Active:   true,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(app.Out, "Created user %s (id %d)\n", user.Username, user.ID)
	if generate {
		fmt.Fprintf(app.Out, "Generated password: %s\n", password)
	}
	return nil
}

func runAPIKeys(ctx context.Context, app *App, args []string) error {
	keys, err := app.Services.APIKeys.List(ctx)
	if err != nil {
		return err
	}
	for _, k := range keys {
		fmt.Fprintf(app.Out, "%4d  %-24s %d permissions, last used %s\n",
			k.ID, k.Name, k.Permissions.Count(), format.Relative(k.LastUsed))
	}
	return nil
}

func runCustomers(ctx context.Context, app *App, args []string) error {
	search := ""
	if len(args) > 0 {
		search = args[0]
	}
	customers, err := app.Services.Customers.List(ctx, search)
	if err != nil {
		return err
	}
	for _, c := range customers {
		fmt.Fprintf(app.Out, "%4d  %-28s %s\n", c.ID, c.Name, c.Email)
	}
	return nil
}

func runCatalog(ctx context.Context, app *App, args []string) error {
	for _, cat := range app.Catalog.Categories() {
		fmt.Fprintf(app.Out, "%s - %s\n", cat.Label, cat.Description)
		for _, res := range app.Catalog.ResourcesByCategory(cat.Name) {
			actions := make([]string, 0, len(res.Actions))
			for _, a := range res.Actions {
				name := a.Name
				if a.Risk != "" {
					name += "(" + string(a.Risk) + ")"
				}
				actions = append(actions, name)
			}
			fmt.Fprintf(app.Out, "  %-16s %s\n", res.Name, strings.Join(actions, " "))
		}
	}
	return nil
}

func runHealth(ctx context.Context, app *App, args []string) error {
	health, err := app.Services.System.Health(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.Out, "Status: %s\n", health.Status)
	if health.Uptime > 0 {
		fmt.Fprintf(app.Out, "Uptime: %s\n", format.Uptime(health.Uptime))
	}
	for component, state := range health.Components {
		fmt.Fprintf(app.Out, "  %-16s %s\n", component, state)
	}
	return nil
}
