package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/photoyarn/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file when missing, then initializes the database and runs migrations.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	if configPath == "" {
		configPath = r.configPath
	}

	config := r.config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else if configPath != "" {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else {
			r.logger.Info("config file created", "path", configPath)
		}
	}

	if err := config.Validate(); err != nil {
		return err
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.OpenSessionDatabase(config.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	r.config = config
	r.logger.Infof("setup complete for database: %v", config.Database.Path)

	r.writePlain("✓ Session database ready at %s\n", config.Database.Path)
	if configPath != "" {
		r.writePlain("✓ Configuration at %s\n", configPath)
	}
	r.writePlainln("Next steps:")
	r.writePlain("1. Set backend.base_url in %s if the backend is not local\n", configPath)
	r.writePlain("2. Run 'photoyarn upload photo.jpg' or 'photoyarn tui'\n")
	return nil
}
