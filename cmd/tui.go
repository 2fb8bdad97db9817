package main

import (
	"context"
	"fmt"

	"github.com/pollsterfm/pollster/internal/shared"
	"github.com/pollsterfm/pollster/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive catalog browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd.String("config"))

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	resolver, err := r.buildResolver(config, db)
	if err != nil {
		return err
	}

	return ui.Run(ctx, resolver, cmd.String("query"))
}
