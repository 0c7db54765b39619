package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/smarttrip/tripplanner/internal/auth"
	"github.com/smarttrip/tripplanner/internal/config"
	"github.com/smarttrip/tripplanner/internal/gemini"
	"github.com/smarttrip/tripplanner/internal/handler"
	"github.com/smarttrip/tripplanner/internal/middleware"
	"github.com/smarttrip/tripplanner/internal/service"
	"github.com/smarttrip/tripplanner/migrations"
)

// writeSlack is added to the provider timeout so a slow generation still
// has time to be written back to the client.
const writeSlack = 15 * time.Second

func serveCmd(load func() (config.Config, *slog.Logger, error)) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, logger, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving")
	return cmd
}

func serve(ctx context.Context, cfg config.Config, logger *slog.Logger, migrate bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()
	logger.Info("database connected", "driver", cfg.DBDriver)

	if migrate {
		provider, err := migrations.NewProvider(st.sqlDB, cfg.DBDriver)
		if err != nil {
			return err
		}
		results, err := provider.Up(ctx)
		if err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		logger.Info("migrations applied", "count", len(results))
	}

	transport, err := newTransport(ctx, cfg)
	if err != nil {
		return err
	}
	if transport == nil {
		logger.Error("GEMINI_API_KEY is not set; trip planning requests will fail until it is configured")
	}
	generator := gemini.NewClient(gemini.Config{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		Timeout: cfg.GeminiTimeout,
	}, transport, logger)

	// Wire dependencies: repo → service → handler.
	tokens := auth.NewTokenIssuer(cfg.JWTSecretKey, cfg.JWTTTL)
	srv := handler.NewServer(handler.Deps{
		Planning: service.NewPlanningService(generator, st.history, logger),
		Users:    service.NewUserService(st.users, tokens),
		History:  service.NewHistoryService(st.history, cfg.HistoryLimit),
		Export:   service.NewExportService(st.history),
		Tokens:   tokens,
		Store:    st,
		Log:      logger,
	})

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Mount("/", srv.Routes())

	httpSrv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.GeminiTimeout + writeSlack,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine so it doesn't block the shutdown listener.
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", httpSrv.Addr, "model", generator.Model(), "transport", cfg.GeminiTransport)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Block until we receive SIGINT or SIGTERM, or the server fails.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-quit:
	}

	logger.Info("shutting down server")

	// Give in-flight requests up to 10 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// newTransport builds the configured provider transport, or returns nil
// when no API key is set.
func newTransport(ctx context.Context, cfg config.Config) (gemini.Transport, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, nil
	}
	tc := gemini.TransportConfig{
		APIKey:     cfg.GeminiAPIKey,
		BaseURL:    cfg.GeminiBaseURL,
		APIVersion: cfg.GeminiAPIVersion,
		Timeout:    cfg.GeminiTimeout,
	}
	if cfg.GeminiTransport == config.TransportREST {
		return gemini.NewRESTTransport(tc), nil
	}
	t, err := gemini.NewSDKTransport(ctx, tc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return t, nil
}
