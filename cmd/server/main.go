// Package main is the entry point for the entangle program library service.
// It stores quantum programs, evaluates measurement results posted by
// execution backends, and prunes expired evaluation results on a schedule.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/entangle/internal/config"
	"github.com/aristath/entangle/internal/database"
	"github.com/aristath/entangle/internal/modules/library"
	"github.com/aristath/entangle/internal/scheduler"
	"github.com/aristath/entangle/internal/server"
	"github.com/aristath/entangle/pkg/logger"
)

func main() {
	// Load configuration first to get log level
	cfg, err := config.Load()
	if err != nil {
		// Use fallback logger so the configuration error is still logged
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting entangle")

	// Open and migrate the program library database
	db, err := database.New(database.Config{
		Path: cfg.DatabasePath,
		Name: "library",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}
	log.Info().Str("path", cfg.DatabasePath).Msg("Database ready")

	// Wire the program library
	repo := library.NewRepository(db.Conn(), log)
	service := library.NewService(repo, log)

	// Schedule retention of evaluation results
	sched := scheduler.New(log)
	retention := scheduler.NewRetentionJob(repo, cfg.ResultRetentionDays, db, log)
	if err := sched.AddJob(cfg.RetentionSchedule, retention); err != nil {
		log.Fatal().Err(err).Msg("Failed to register retention job")
	}
	sched.Start()

	// Initialize HTTP server
	srv := server.New(server.Config{
		Log:     log,
		DB:      db,
		Config:  cfg,
		Service: service,
		Port:    cfg.Port,
		DevMode: cfg.DevMode,
	})

	// Start server in goroutine so the main thread can wait for signals
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Stop the scheduler first so no prune runs against a closing database
	sched.Stop()

	// Graceful shutdown with a deadline for in-flight requests
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
