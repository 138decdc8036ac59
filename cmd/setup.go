package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/shrtx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file if missing and initializes the local
// session database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	config := r.config
	if _, err := os.Stat(configPath); err == nil {
		if loaded, err := shared.LoadConfig(configPath); err == nil {
			config = loaded
		} else {
			r.logger.Warn("failed to load config, using defaults", "error", err)
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else {
			r.logger.Info("config file created", "path", configPath)
			if loaded, err := shared.LoadConfig(configPath); err == nil {
				config = loaded
			}
		}
	}
	if err := shared.ApplyEnv(config); err != nil {
		r.logger.Warn("failed to apply environment overrides", "error", err)
	}

	r.logger.Info("initializing session database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	r.writePlain("✓ Setup complete\n")
	return r.writePlain("Run 'shrtx auth login' or 'shrtx tui' to get started\n")
}
