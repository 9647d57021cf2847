package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/vncsmyrnk/election/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/election/internal/adapters/repository/sqlite"
	"github.com/vncsmyrnk/election/internal/config"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type store struct {
	db      *sql.DB
	ballots ports.BallotRepository
	catalog ports.CatalogRepository
}

func openStore(ctx context.Context, cfg config.Config, log zerolog.Logger) (*store, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.DatabaseURL, cfg.RequestTimeout)
		if err != nil {
			return nil, err
		}
		return &store{
			db:      db,
			ballots: sqlite.NewBallotRepository(db),
			catalog: sqlite.NewCatalogRepository(db),
		}, nil

	case config.DriverPostgres:
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		if err := waitForPostgres(ctx, db, cfg.DBConnectRetries, log); err != nil {
			db.Close()
			return nil, err
		}
		return &store{
			db:      db,
			ballots: postgres.NewBallotRepository(db),
			catalog: postgres.NewCatalogRepository(db),
		}, nil

	default:
		return nil, fmt.Errorf("unknown db driver %q", cfg.DBDriver)
	}
}

// waitForPostgres pings with exponential backoff so the service can start
// alongside its database.
func waitForPostgres(ctx context.Context, db *sql.DB, attempts int, log zerolog.Logger) error {
	if attempts < 1 {
		attempts = 1
	}
	backoff := retry.WithCappedDuration(5*time.Second, retry.NewExponential(250*time.Millisecond))
	backoff = retry.WithMaxRetries(uint64(attempts-1), backoff)

	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()

		if err := db.PingContext(pingCtx); err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Msg("postgres not reachable yet")
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to reach postgres after %d attempts: %w", attempt, err)
	}
	return nil
}
