package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pollsterfm/pollster/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup provisions a local installation: the config file, the SQLite database,
// and its schema.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	config := r.ensureConfig(cmd.String("config"))

	r.logger.Info("initializing database", "path", config.Database.Path, "environment", config.App.Environment)

	db, err := r.openDatabase(config)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Setup still succeeds with an incomplete config; serve refuses instead.
	if err := config.Validate(); err != nil {
		r.logger.Warn("configuration incomplete", "error", err)
	}

	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	return nil
}

// ensureConfig loads the config file at path, first creating it from the
// embedded template when absent. Falls back to defaults on any failure so
// setup can still provision a database.
func (r *Runner) ensureConfig(path string) *shared.Config {
	if _, err := os.Stat(path); err != nil {
		r.logger.Info("config file not found, creating from template", "path", path)
		if err := shared.CreateConfigFile(path); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			return shared.DefaultConfig()
		}
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		r.logger.Warn("failed to load config, using defaults", "path", path, "error", err)
		return shared.DefaultConfig()
	}

	return config
}
