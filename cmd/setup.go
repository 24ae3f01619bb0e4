package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/apx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup initializes the config file and the local match cache database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	config, err := r.ensureConfigFile(configPath)
	if err != nil {
		return err
	}

	r.logger.Info("initializing match cache", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.writePlainln("✓ Setup complete")
	r.writePlain("  Config: %s\n", configPath)
	r.writePlain("  Database: %s\n", config.Database.Path)
	r.writePlain("Fill in your Spotify credentials, then run 'apx auth'.\n")

	return nil
}

// ensureConfigFile loads the config at path, writing it from the embedded
// template first when it does not exist. Falls back to defaults rather than
// failing, since setup should succeed on a blank machine.
func (r *Runner) ensureConfigFile(path string) (*shared.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		r.logger.Info("config file not found, creating from template", "path", path)
		if err := shared.CreateConfigFile(path); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			return shared.DefaultConfig(), nil
		}
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		r.logger.Warn("failed to load config, using defaults", "error", err)
		return shared.DefaultConfig(), nil
	}
	return config, nil
}
