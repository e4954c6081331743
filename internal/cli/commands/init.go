package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gurukulschool/portal/internal/cli/config"
)

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	var alias string

	cmd := &cobra.Command{
		Use:   "init <server-url>",
		Short: "Add a portal server to ./portal.json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			currentDir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get current directory: %w", err)
			}
			return runInit(currentDir, args[0], alias, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&alias, "alias", "", "Name for the server (defaults to production, then server-N)")

	return cmd
}

func runInit(dir, rawURL, alias string, out io.Writer) error {
	serverURL, err := config.NormalizeURL(rawURL)
	if err != nil {
		return err
	}

	configPath := filepath.Join(dir, config.ConfigFileName)

	cfg := &config.Config{Servers: []config.Server{}}
	isNewConfig := true

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load existing config: %w", err)
		}
		isNewConfig = false
		fmt.Fprintln(out, "Found existing portal.json")
	}

	if alias == "" {
		if len(cfg.Servers) == 0 {
			alias = "production"
		} else {
			alias = fmt.Sprintf("server-%d", len(cfg.Servers)+1)
		}
	}

	if !cfg.AddServer(config.Server{URL: serverURL, Alias: alias}) {
		fmt.Fprintf(out, "Server %s already exists in portal.json\n", serverURL)
		return nil
	}

	if err := config.Save(configPath, cfg); err != nil {
		return err
	}

	if isNewConfig {
		fmt.Fprintf(out, "✓ Created ./portal.json with server %s (%s)\n", serverURL, alias)
	} else {
		fmt.Fprintf(out, "✓ Added server %s (%s) to ./portal.json\n", serverURL, alias)
	}

	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "  Run 'portal login' or 'portal register' to sign in")

	return nil
}
