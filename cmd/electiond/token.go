package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/services"
)

func newTokenCommand() *cobra.Command {
	var (
		voterID string
		role    string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed voter token for local testing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := setup(cmd)
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return errors.New("jwt_secret is required")
			}

			id := uuid.New()
			if voterID != "" {
				if id, err = uuid.Parse(voterID); err != nil {
					return fmt.Errorf("invalid voter id: %w", err)
				}
			}

			token, err := services.NewIdentityService([]byte(cfg.JWTSecret)).
				Issue(domain.Voter{ID: id, Role: domain.Role(role)}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&voterID, "voter-id", "", "voter id (random when empty)")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleVoter), "voter or admin")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}
