package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vncsmyrnk/election/internal/config"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "electiond",
		Short:        "Election backend: one ballot per voter and position, with a live leaderboard",
		SilenceUsage: true,
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newTallyCommand(),
		newTokenCommand(),
	)
	return root
}

// setup loads the configuration and builds the root logger for a command.
func setup(cmd *cobra.Command) (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return config.Config{}, zerolog.Nop(), err
	}

	log, err := config.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return config.Config{}, zerolog.Nop(), err
	}
	return cfg, log, nil
}
