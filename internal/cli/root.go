package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gurukulschool/portal/internal/cli/commands"
)

var version = "dev" // Will be set during build

var rootCmd = &cobra.Command{
	Use:   "portal",
	Short: "Gurukul School portal",
	Long: `Portal CLI - admissions, announcements and school administration.

Sign in with 'portal login' (or 'portal login --admin' for the back office).
Your session is kept in the OS keychain until you run 'portal logout'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("server", "", "Server alias or URL from portal.json (or set PORTAL_URL)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print diagnostic logs to stderr")

	// Add version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("portal version %s\n", version)
		},
	})

	// Setup
	rootCmd.AddCommand(commands.NewInitCmd())
	rootCmd.AddCommand(commands.NewSelectServerCmd())

	// Session
	rootCmd.AddCommand(commands.NewLoginCmd())
	rootCmd.AddCommand(commands.NewRegisterCmd())
	rootCmd.AddCommand(commands.NewLogoutCmd())
	rootCmd.AddCommand(commands.NewWhoamiCmd())
	rootCmd.AddCommand(commands.NewProfileCmd())
	rootCmd.AddCommand(commands.NewDashboardCmd())

	// Public site
	rootCmd.AddCommand(commands.NewAnnouncementsCmd())
	rootCmd.AddCommand(commands.NewGalleryCmd())
	rootCmd.AddCommand(commands.NewApplyCmd())
	rootCmd.AddCommand(commands.NewContactCmd())

	// Back office
	rootCmd.AddCommand(commands.NewAdminCmd())
}

// Execute runs the root command
func Execute() error {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
