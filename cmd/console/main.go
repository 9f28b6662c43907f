package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"sense-console/internal/config"
	"sense-console/internal/console"
)

func main() {
	apiURL := pflag.String("api-url", "", "backend base URL (overrides config)")
	credentialsDir := pflag.String("credentials-dir", "", "credential storage directory (overrides config)")
	strict := pflag.Bool("strict", false, "deny permission checks for principals without a permission model")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *apiURL != "" {
		cfg.API.BaseURL = *apiURL
	}
	if *credentialsDir != "" {
		cfg.Credentials.Dir = *credentialsDir
	}
	if *strict {
		cfg.Auth.PermissiveFallback = false
	}

	app := console.New(cfg, os.Stdout, readPassword)

	args := pflag.Args()
	if len(args) == 0 {
		args = []string{"help"}
	}

	if err := app.Dispatch(context.Background(), args[0], args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// readPassword prompts on the terminal without echo, falling back to a plain
// line read when stdin is not a TTY (piped input in scripts).
func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		return string(raw), err
	}

	var line string
	if _, err := fmt.Fscanln(os.Stdin, &line); err != nil {
		return "", err
	}
	return line, nil
}
