package main

import (
	"os"
	"time"

	"github.com/gdg-garage/campus-events/internal/config"
	"github.com/gdg-garage/campus-events/internal/database"
	"github.com/gdg-garage/campus-events/internal/logging"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger := logging.New(cfg.LogLevel, cfg.LogPretty)

	db, err := database.Connect(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	cli := commandLine{db: db, out: os.Stdout, now: time.Now}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error().Err(err).Str("command", os.Args[1]).Msg("Command failed")
		}
		os.Exit(1)
	}
}
