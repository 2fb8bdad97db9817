package main

import (
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/pollsterfm/pollster/internal/catalog"
	"github.com/pollsterfm/pollster/internal/repositories"
	"github.com/pollsterfm/pollster/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, serveCommand, catalogCommand, cacheCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig reloads configuration from the given path, falling back to the
// runner's existing config when the file is absent.
func (r *Runner) loadConfig(path string) *shared.Config {
	if _, err := os.Stat(path); err != nil {
		return r.config
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		r.logger.Warn("failed to load config, using defaults", "path", path, "error", err)
		return r.config
	}
	return config
}

// validatePort rejects listener ports outside the valid TCP range.
func validatePort(port int64) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%w: port %d out of range", shared.ErrInvalidFlag, port)
	}
	return nil
}

// openDatabase opens and configures the sqlite connection pool.
func (r *Runner) openDatabase(config *shared.Config) (*sql.DB, error) {
	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
	return db, nil
}

// buildResolver assembles the catalog resolver over the sqlite-backed cache.
//
// Spotify is preferred when its credentials are present; Last.fm is the
// fallback provider.
func (r *Runner) buildResolver(config *shared.Config, db *sql.DB) (*catalog.Resolver, error) {
	provider, err := r.buildProvider(config)
	if err != nil {
		return nil, err
	}

	cache := repositories.NewCatalogRepository(db)
	return catalog.NewResolver(cache, provider, r.logger), nil
}

func (r *Runner) buildProvider(config *shared.Config) (catalog.Provider, error) {
	spotify := config.Credentials.Spotify
	if spotify.ClientID != "" && spotify.ClientSecret != "" {
		return catalog.NewSpotifyProvider(map[string]string{
			"client_id":     spotify.ClientID,
			"client_secret": spotify.ClientSecret,
		})
	}

	if config.Credentials.LastFM.APIKey != "" {
		return catalog.NewLastFMProvider(config.Credentials.LastFM.APIKey)
	}

	return nil, fmt.Errorf("%w: no catalog provider credentials configured", shared.ErrMissingCredentials)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
