package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/pollsterfm/pollster/internal/realtime"
	"github.com/pollsterfm/pollster/internal/repositories"
	"github.com/pollsterfm/pollster/internal/server"
	"github.com/pollsterfm/pollster/internal/shared"
	"github.com/pollsterfm/pollster/internal/turnstile"
	"github.com/urfave/cli/v3"
)

// Serve assembles the full HTTP stack and runs it until interrupted.
//
// Startup validates configuration first: in production a missing Turnstile
// secret refuses to boot rather than running with an unusable verification
// gate. Outside production the mock verifier is substituted so sign-in flows
// work without Cloudflare credentials.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd.String("config"))
	if host := cmd.String("host"); host != "" {
		config.Server.Host = host
	}
	if port := cmd.Int("port"); port != 0 {
		if err := validatePort(int64(port)); err != nil {
			return err
		}
		config.Server.Port = int(port)
	}

	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
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

	var verifier turnstile.Verifier
	if config.IsProduction() {
		verifier, err = turnstile.NewCloudflareVerifier(config.Turnstile.SecretKey, r.logger)
		if err != nil {
			return fmt.Errorf("failed to create verifier: %w", err)
		}
	} else {
		r.logger.Info("non-production environment, using mock verifier")
		verifier = &turnstile.MockVerifier{}
	}
	gate := turnstile.NewGate(verifier, config.IsProduction())

	signingKey := config.Realtime.SigningKey
	if signingKey == "" && !config.IsProduction() {
		signingKey = shared.GenerateID()
		r.logger.Warn("realtime signing key not configured, using ephemeral key")
	}
	broker, err := realtime.NewHMACBroker(signingKey, time.Duration(config.Realtime.TokenTTL)*time.Second)
	if err != nil {
		return fmt.Errorf("failed to create realtime broker: %w", err)
	}

	sessions := repositories.NewSessionRepository(db)
	users := repositories.NewUserRepository(db)

	router := server.NewBasicRouter()
	guard := server.NewRouteGuard(server.NewSessionResolver(sessions), server.DefaultProtectedPrefixes, r.logger)
	router.Use(server.Recover(r.logger), server.RequestLogger(r.logger), guard.Middleware())

	api := server.NewAPI(server.APIOpts{
		Gate:     gate,
		Users:    users,
		Sessions: sessions,
		Resolver: resolver,
		Broker:   broker,
		Logger:   r.logger,
	})
	api.Register(router)

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("server listening", "addr", addr, "environment", config.App.Environment)
		errCh <- httpServer.ListenAndServe()
	}()

	if cmd.Bool("open") {
		url := fmt.Sprintf("http://%s", addr)
		if err := shared.OpenBrowser(url); err != nil {
			r.logger.Warn("failed to open browser", "url", url, "error", err)
		}
	}

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-serveCtx.Done():
		r.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
	}

	return nil
}
