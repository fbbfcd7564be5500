package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/audiolib/internal/shared"
)

// Setup creates the config file when missing and prepares the configured storage.
//
// For sqlite storage the database is created and migrated, or rebuilt empty with --reset.
// For file storage the snapshot directory is created.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := r.configPath
	if configPath == "" {
		configPath = "config.toml"
	}

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else if config, err := shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load created config, using defaults", "error", err)
		} else {
			r.config = config
			r.logger.Info("config file created", "path", configPath)
		}
	}

	if r.config.Library.Storage == shared.StorageFile {
		dir := filepath.Dir(r.config.Library.File)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("%w: failed to create library directory: %v", shared.ErrIO, err)
		}
		r.logger.Infof("setup complete for library file: %v", r.config.Library.File)
		return r.writePlain("✓ Library file: %s\n", r.config.Library.File)
	}

	r.logger.Info("initializing database", "path", r.config.Database.Path)
	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrIO, err)
	}
	defer db.Close()

	migrator := shared.NewMigrator(db)
	if cmd.Bool("reset") {
		r.logger.Warn("resetting database schema", "path", r.config.Database.Path)
		if err := migrator.Reset(); err != nil {
			return fmt.Errorf("%w: failed to reset database: %v", shared.ErrIO, err)
		}
	}

	version, err := migrator.Version()
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrIO, err)
	}
	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	return r.writePlain("✓ Database ready: %s (schema v%d)\n", r.config.Database.Path, version)
}
