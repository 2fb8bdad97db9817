package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pollsterfm/pollster/internal/formatter"
	"github.com/pollsterfm/pollster/internal/shared"
	"github.com/urfave/cli/v3"
)

// CatalogResolve resolves an artist/album/track chain from the command line.
func (r *Runner) CatalogResolve(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd.String("config"))

	artistName := cmd.String("artist")
	albumName := cmd.String("album")
	trackName := cmd.String("track")

	if trackName != "" && albumName == "" {
		return fmt.Errorf("%w: --track requires --album", shared.ErrMissingArgument)
	}

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

	r.logger.Info("resolving catalog chain", "artist", artistName, "album", albumName, "track", trackName)

	chain, err := resolver.ResolveChain(ctx, artistName, albumName, trackName)
	if err != nil {
		return fmt.Errorf("resolution failed: %w", err)
	}

	if outputPath := cmd.String("output"); outputPath != "" {
		data, err := formatter.ChainJSON(chain, true)
		if err != nil {
			return fmt.Errorf("failed to render chain: %w", err)
		}
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			return fmt.Errorf("failed to save output: %w", err)
		}
		r.logger.Info("result saved", "path", outputPath)
	}

	if cmd.Bool("json") {
		return r.writeJSON(chain, cmd.Bool("pretty"))
	}

	if _, err := r.output.Write(formatter.ChainMarkdown(chain)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}
