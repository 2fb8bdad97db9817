// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand initializes configuration, the database, and migrations.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize config file, database, and run migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// serveCommand runs the HTTP server.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the Pollster HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind (overrides config)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to bind (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the server URL in a browser once listening",
			},
		},
		Action: r.Serve,
	}
}

// catalogCommand handles catalog resolution from the command line.
func catalogCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "Catalog lookup operations",
		Commands: []*cli.Command{
			{
				Name:  "resolve",
				Usage: "Resolve an artist, album, and track chain",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.StringFlag{
						Name:     "artist",
						Usage:    "Artist name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "album",
						Usage: "Album name",
					},
					&cli.StringFlag{
						Name:  "track",
						Usage: "Track name (requires --album)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Save result to a file",
					},
				},
				Action: r.CatalogResolve,
			},
		},
	}
}

// cacheCommand handles catalog cache maintenance.
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Catalog cache operations",
		Commands: []*cli.Command{
			{
				Name:  "warm",
				Usage: "Pre-resolve a list of artist names into the cache",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.StringFlag{
						Name:  "file",
						Usage: "Path to a newline-separated file of artist names",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent workers (max 10)",
						Value: 5,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Provider requests per second",
						Value: 5.0,
					},
				},
				Action: r.CacheWarm,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive catalog browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive catalog browser",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "query",
				Usage: "Initial query (artist / album / track)",
			},
		},
		Action: r.TUI,
	}
}
