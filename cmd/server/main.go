package main

import (
	"fmt"
	"os"

	"github.com/gurukulschool/portal/internal/config"
	"github.com/gurukulschool/portal/internal/logger"
	"github.com/gurukulschool/portal/internal/seed"
	"github.com/gurukulschool/portal/internal/server"
)

var version = "dev" // Will be set during build with -ldflags

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.GetLogger()

	// Create server
	srv, err := server.New(cfg, log, version)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}

	// Seeding only fills empty collections
	if _, err := seed.Run(srv.GetDB(), cfg.Seed.AdminEmail, cfg.Seed.AdminPassword, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed database")
	}

	log.Info().Str("version", version).Msg("Starting portal server...")

	// Start HTTP server (this blocks)
	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("Server failed to start")
	}
}
