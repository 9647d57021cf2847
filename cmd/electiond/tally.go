package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/vncsmyrnk/election/internal/adapters/metrics"
	"github.com/vncsmyrnk/election/internal/core/ports"
	"github.com/vncsmyrnk/election/internal/core/services"
)

func newTallyCommand() *cobra.Command {
	var (
		includeZero bool
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "tally",
		Short: "Print the current leaderboard as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}
			if err := cfg.ValidateStore(); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			st, err := openStore(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer st.db.Close()

			tally, err := services.NewTallyService(st.ballots, st.catalog, metrics.NewNoopCollector()).
				ComputeTally(ctx, ports.TallyOptions{IncludeZero: includeZero})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(tally)
		},
	}

	cmd.Flags().BoolVar(&includeZero, "include-zero", false, "list candidates without votes")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "deadline for the whole job")
	return cmd
}
