package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gurukulschool/portal/internal/cli/client"
	"github.com/gurukulschool/portal/internal/cli/guard"
)

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhoami(cmd.Context(), globalOptions(cmd)...)
		},
	}
}

func runWhoami(ctx context.Context, opts ...Option) error {
	if ctx == nil {
		ctx = context.Background()
	}

	rt, err := newRuntime(opts...)
	if err != nil {
		return err
	}

	_, m, err := rt.authorize(ctx, guard.Protected)
	if err != nil {
		return err
	}

	printProfile(rt.out, m.Session().User)
	return nil
}

// NewProfileCmd creates the profile command
func NewProfileCmd() *cobra.Command {
	var update client.ProfileUpdate

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update your name or phone number",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfile(cmd.Context(), update, globalOptions(cmd)...)
		},
	}

	cmd.Flags().StringVar(&update.Name, "name", "", "New name")
	cmd.Flags().StringVar(&update.Phone, "phone", "", "New phone number")

	return cmd
}

func runProfile(ctx context.Context, update client.ProfileUpdate, opts ...Option) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if update.Name == "" && update.Phone == "" {
		return fmt.Errorf("nothing to update (use --name and/or --phone)")
	}

	rt, err := newRuntime(opts...)
	if err != nil {
		return err
	}

	api, m, err := rt.authorize(ctx, guard.Protected)
	if err != nil {
		return err
	}

	user, err := api.UpdateProfile(ctx, m.AuthHeader(), update)
	if err != nil {
		return failed("failed to update profile", fallbackGeneric, err)
	}

	fmt.Fprintln(rt.out, "✓ Profile updated")
	printProfile(rt.out, user)
	return nil
}

// NewDashboardCmd creates the dashboard command
func NewDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"dash"},
		Short:   "Show your account and the latest announcements",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd.Context(), globalOptions(cmd)...)
		},
	}
}

func runDashboard(ctx context.Context, opts ...Option) error {
	if ctx == nil {
		ctx = context.Background()
	}

	rt, err := newRuntime(opts...)
	if err != nil {
		return err
	}

	api, m, err := rt.authorize(ctx, guard.Protected)
	if err != nil {
		return err
	}

	user := m.Session().User
	fmt.Fprintf(rt.out, "Welcome, %s!\n\n", user.Name)
	printProfile(rt.out, user)

	announcements, err := api.ListAnnouncements(ctx)
	if err != nil {
		return failed("failed to load announcements", fallbackGeneric, err)
	}

	fmt.Fprintln(rt.out)
	printAnnouncements(rt.out, announcements)
	return nil
}

func printProfile(w io.Writer, user *client.User) {
	fmt.Fprintf(w, "  Name:   %s\n", user.Name)
	fmt.Fprintf(w, "  Email:  %s\n", user.Email)
	fmt.Fprintf(w, "  Phone:  %s\n", user.Phone)
	fmt.Fprintf(w, "  Role:   %s\n", user.Role)
	if !user.CreatedAt.IsZero() {
		fmt.Fprintf(w, "  Member since: %s\n", user.CreatedAt.Format("2006-01-02"))
	}
}
