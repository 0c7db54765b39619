// Package main is the entry point for the trip planner API.
// Its sole responsibility is wiring dependencies together and running the
// selected command. No business logic belongs here.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/smarttrip/tripplanner/internal/config"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "tripplanner",
		Short:         "Smart trip planner API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "load variables from this file instead of ./.env")

	load := func() (config.Config, *slog.Logger, error) {
		var files []string
		if envFile != "" {
			files = append(files, envFile)
		}
		cfg, err := config.Load(files...)
		if err != nil {
			return config.Config{}, nil, fmt.Errorf("configuration error: %w", err)
		}
		logger := newLogger(cfg.LogLevel)
		for _, w := range cfg.Warnings() {
			logger.Warn("configuration warning", "detail", w)
		}
		return cfg, logger, nil
	}

	serve := serveCmd(load)
	root.AddCommand(serve, migrateCmd(load))
	// Running the bare binary starts the server.
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())
	return root
}

// newLogger installs a JSON slog handler on stdout as the process default.
func newLogger(level string) *slog.Logger {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(level)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	return logger
}
