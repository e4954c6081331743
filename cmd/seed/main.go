package main

import (
	"fmt"
	"os"

	"github.com/gurukulschool/portal/internal/config"
	"github.com/gurukulschool/portal/internal/database"
	"github.com/gurukulschool/portal/internal/logger"
	"github.com/gurukulschool/portal/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.GetLogger()

	db, err := database.Open(cfg.Database.URL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer database.Close(db)

	result, err := seed.Run(db, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword, log)
	if err != nil {
		log.Error().Err(err).Msg("Seeding failed")
		return
	}

	log.Info().
		Bool("admin_created", result.AdminCreated).
		Int("gallery", result.Gallery).
		Int("announcements", result.Announcements).
		Msg("Seeding complete")
}
