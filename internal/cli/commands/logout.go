package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(globalOptions(cmd)...)
		},
	}
}

func runLogout(opts ...Option) error {
	rt, err := newRuntime(opts...)
	if err != nil {
		return err
	}

	if err := rt.manager(rt.api()).Logout(); err != nil {
		return fmt.Errorf("failed to remove stored token: %w", err)
	}

	fmt.Fprintf(rt.out, "✓ Logged out of %s\n", rt.server.Label())
	return nil
}
