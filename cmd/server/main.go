// Package main implements the entry point for the aftlab API server,
// which stores right-censored duration datasets, fits survival models to
// them in the background, and exposes lognormal parameterization tools.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/lburgess/aftlab/internal/config"
	"github.com/lburgess/aftlab/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "",
		"run a migration command (up, down, reset, status, version, create) and exit")
	migrationName := flag.String("migration-name", "",
		"name for a new migration, used with -migrate create")
	flag.Parse()

	if err := run(*migrateCmd, *migrationName); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// run loads configuration, dispatches migration commands, and otherwise
// starts the HTTP server.
func run(migrateCmd, migrationName string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(logger.Config{Level: cfg.Server.LogLevel})
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	if migrateCmd != "" {
		return runMigrations(cfg, migrateCmd, migrationName)
	}

	slog.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := openDatabase(cfg, appLogger)
	if err != nil {
		return err
	}

	ctx := context.Background()
	app, err := newApplication(ctx, cfg, appLogger, db)
	if err != nil {
		// The application owns the connection only once it initializes.
		if closeErr := db.Close(); closeErr != nil {
			appLogger.Error("failed to close database", "error", closeErr)
		}
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	if err := app.Run(ctx); err != nil {
		return err
	}

	return nil
}

// getExecutionMode reports whether the process is running under CI, for
// migration log context.
func getExecutionMode() string {
	if os.Getenv("CI") != "" {
		return "ci"
	}
	return "local"
}
