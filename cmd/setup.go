package main

import (
	"context"

	"github.com/avrelia/mdexport/internal/repositories"
	"github.com/avrelia/mdexport/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the example configuration file.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	return r.writePlain("✓ Wrote %s\n", path)
}

// SetupDatabase creates the session database and its schema.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	path := r.config.Database.Path
	if path == "" {
		path = "mdexport.db"
	}

	db, err := repositories.OpenDatabase(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repositories.EnsureSchema(db); err != nil {
		return err
	}
	return r.writePlain("✓ Session database ready at %s\n", path)
}
