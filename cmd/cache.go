package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pollsterfm/pollster/internal/shared"
	"github.com/pollsterfm/pollster/internal/tasks"
	"github.com/urfave/cli/v3"
)

// CacheWarm pre-resolves artist names into the catalog cache.
//
// Names come from positional arguments, from --file, or both.
func (r *Runner) CacheWarm(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd.String("config"))

	names := cmd.Args().Slice()
	if filePath := cmd.String("file"); filePath != "" {
		fromFile, err := readNamesFile(filePath)
		if err != nil {
			return err
		}
		names = append(names, fromFile...)
	}

	if len(names) == 0 {
		return fmt.Errorf("%w: provide artist names as arguments or via --file", shared.ErrMissingArgument)
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

	warmer := tasks.NewCacheWarmer(resolver)
	prog := make(chan tasks.ProgressUpdate, len(names)+2)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range prog {
			switch update.Phase {
			case tasks.WarmStart:
				r.writePlain("%s\n", update.Message)
			case tasks.WarmArtist:
				r.writePlain("[%d/%d] %s\n", update.Step, update.Total, update.Message)
			}
		}
	}()

	result, err := warmer.Warm(ctx, prog, names, tasks.WarmOpts{
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  cmd.Float("rate"),
	})
	close(prog)
	<-done

	if err != nil {
		return fmt.Errorf("warm failed: %w", err)
	}

	r.writePlainln("✓ Warmed %d/%d artists (%d missing)", result.Resolved, result.Total, result.Missing)
	for _, failure := range result.Failures {
		r.writePlain("  ✗ %s: %v\n", failure.Name, failure.Error)
	}

	return nil
}

// readNamesFile reads a newline-separated list of names, skipping blanks and
// lines starting with '#'.
func readNamesFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open names file: %w", err)
	}
	defer file.Close()

	var names []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read names file: %w", err)
	}

	return names, nil
}
