package main

import (
	"context"
	"fmt"

	"github.com/Mohakgarg5/littlescreen-v2/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the example configuration to path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("output")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("%s\n", r.palette.OK("Config written to "+path))
	r.writePlain("%s\n", r.palette.Hint("Set admin.secret and mail.api_key before serving."))
	return nil
}

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("initializing database", "path", r.config.Database.Path)

	db, err := r.database()
	if err != nil {
		return err
	}

	status, err := shared.MigrationStatus(db)
	if err != nil {
		return fmt.Errorf("failed to read migration status: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	r.writePlain("%s\n", r.palette.OK(fmt.Sprintf("Database ready at %s", r.config.Database.Path)))
	r.writePlain("Migrations: %d/%d applied (version %d)\n", status.Applied, status.Known, status.Current)
	return nil
}

// SetupRollback undoes the most recent migration.
func (r *Runner) SetupRollback(ctx context.Context, cmd *cli.Command) error {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	mig, err := shared.RollbackMigration(db)
	if err != nil {
		return err
	}
	r.writePlain("%s\n", r.palette.OK(fmt.Sprintf("Rolled back %04d_%s", mig.Version, mig.Name)))
	return nil
}
