package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/smarttrip/tripplanner/internal/config"
	"github.com/smarttrip/tripplanner/migrations"
)

func migrateCmd(load func() (config.Config, *slog.Logger, error)) *cobra.Command {
	var downTo int64

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations (or roll back with --down-to)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			st, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.close()

			provider, err := migrations.NewProvider(st.sqlDB, cfg.DBDriver)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("down-to") {
				results, err := provider.DownTo(ctx, downTo)
				if err != nil {
					return err
				}
				for _, r := range results {
					logger.Info("migration rolled back", "version", r.Source.Version, "duration_ms", r.Duration.Milliseconds())
				}
				return nil
			}

			results, err := provider.Up(ctx)
			if err != nil {
				return err
			}
			for _, r := range results {
				logger.Info("migration applied", "version", r.Source.Version, "duration_ms", r.Duration.Milliseconds())
			}
			version, err := provider.GetDBVersion(ctx)
			if err != nil {
				return err
			}
			logger.Info("database is up to date", "driver", cfg.DBDriver, "version", version)
			return nil
		},
	}
	cmd.Flags().Int64Var(&downTo, "down-to", 0, "roll back to this version (0 removes every migration)")
	return cmd
}
