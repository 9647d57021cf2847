package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vncsmyrnk/election/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/election/internal/config"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply the embedded ballot store schema",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(postgres.Up), string(postgres.Down)},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}
			if err := cfg.ValidateStore(); err != nil {
				return err
			}

			direction := postgres.Up
			if len(args) == 1 {
				direction = postgres.Direction(args[0])
			}
			if cfg.DBDriver == config.DriverSQLite && direction == postgres.Down {
				return fmt.Errorf("the sqlite store does not support down migrations")
			}

			st, err := openStore(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer st.db.Close()

			if cfg.DBDriver == config.DriverSQLite {
				// opening the sqlite store already created the schema
				log.Info().Str("path", cfg.DatabaseURL).Msg("sqlite schema is up to date")
				return nil
			}

			applied, err := postgres.Migrate(cmd.Context(), st.db, direction)
			if err != nil {
				return err
			}
			for _, name := range applied {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			log.Info().Str("direction", string(direction)).Int("files", len(applied)).Msg("migration executed successfully")
			return nil
		},
	}
}
