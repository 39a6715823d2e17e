package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdg-garage/campus-events/internal/auth"
	"github.com/gdg-garage/campus-events/internal/config"
	"github.com/gdg-garage/campus-events/internal/database"
	"github.com/gdg-garage/campus-events/internal/handlers"
	"github.com/gdg-garage/campus-events/internal/logging"
	"github.com/gdg-garage/campus-events/internal/metrics"
	"github.com/gdg-garage/campus-events/internal/notifier"
	"github.com/gdg-garage/campus-events/internal/reports"
	"github.com/gdg-garage/campus-events/web"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load Configuration
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger := logging.New(cfg.LogLevel, cfg.LogPretty)

	// Connect to Database
	db, err := database.Connect(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	n, err := notifier.New(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialise notifier")
	}

	m := metrics.New()
	service := reports.NewService(db)

	// Initialize Router
	r := chi.NewRouter()
	handlers.RegisterRoutes(r, handlers.Server{
		Config:  cfg,
		Logger:  logger,
		Metrics: m,
		Static:  web.Handler(),
		Handlers: handlers.Handlers{
			Auth:         auth.NewAuthHandler(cfg, db),
			Colleges:     handlers.NewCollegeHandler(db),
			Students:     handlers.NewStudentHandler(db),
			Events:       handlers.NewEventHandler(db, service, n, m),
			Registration: handlers.NewRegistrationHandler(db, n, m),
			Reports:      handlers.NewReportHandler(service, cfg.TopStudentsLimit),
			APIKeys:      handlers.NewAPIKeyHandler(db),
		},
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", srv.Addr).Str("database", cfg.DatabaseDriver).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
