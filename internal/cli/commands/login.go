package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var email, password string
	var admin bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the portal",
		Long: `Sign in to the portal and store the session token in the OS keychain.

Use --admin to sign in through the admin endpoint, which only accepts
administrator accounts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd.Context(), email, password, admin, globalOptions(cmd)...)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set PORTAL_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set PORTAL_PASSWORD, will prompt if not provided)")
	cmd.Flags().BoolVar(&admin, "admin", false, "Sign in as an administrator")

	return cmd
}

func runLogin(ctx context.Context, email, password string, admin bool, opts ...Option) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Check for environment variables (useful for CI/CD)
	email = fillFromEnv(email, "PORTAL_EMAIL")
	password = fillFromEnv(password, "PORTAL_PASSWORD")

	if email == "" {
		return fmt.Errorf("email is required (use --email flag or PORTAL_EMAIL env var)")
	}

	rt, err := newRuntime(opts...)
	if err != nil {
		return err
	}

	if password == "" {
		password, err = readPassword("Password")
		if errors.Is(err, errNonInteractive) {
			return fmt.Errorf("password is required in non-interactive mode (use --password flag or PORTAL_PASSWORD env var)")
		}
		if err != nil {
			return err
		}
	}

	m := rt.manager(rt.api())

	fmt.Fprintf(rt.out, "Logging in to %s...\n", rt.server.Label())

	if admin {
		user, err := m.AdminLogin(ctx, email, password)
		if err != nil {
			return failed("login failed", fallbackAdminLogin, err)
		}
		fmt.Fprintln(rt.out, "✓ Login successful!")
		fmt.Fprintf(rt.out, "  User: %s (%s)\n", user.Name, user.Email)
		fmt.Fprintln(rt.out, "  Role: Admin")
		return nil
	}

	user, err := m.Login(ctx, email, password)
	if err != nil {
		return failed("login failed", fallbackLogin, err)
	}

	fmt.Fprintln(rt.out, "✓ Login successful!")
	fmt.Fprintf(rt.out, "  User: %s (%s)\n", user.Name, user.Email)
	if user.IsAdmin() {
		fmt.Fprintln(rt.out, "  Role: Admin")
	}

	return nil
}
