package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httphandler "github.com/vncsmyrnk/election/internal/adapters/handler/http"
	"github.com/vncsmyrnk/election/internal/adapters/handler/ws"
	"github.com/vncsmyrnk/election/internal/adapters/metrics"
	"github.com/vncsmyrnk/election/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/election/internal/config"
	"github.com/vncsmyrnk/election/internal/core/services"
)

const shutdownTimeout = 30 * time.Second

func newServeCommand() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the voting API and the live leaderboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			st, err := openStore(ctx, cfg, log)
			if err != nil {
				return err
			}

			if migrate && cfg.DBDriver == config.DriverPostgres {
				applied, err := postgres.Migrate(ctx, st.db, postgres.Up)
				if err != nil {
					st.db.Close()
					return err
				}
				log.Info().Strs("migrations", applied).Msg("schema migrated")
			}

			registry := prometheus.NewRegistry()
			registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			collector := metrics.NewCollector(registry)

			identity := services.NewIdentityService([]byte(cfg.JWTSecret))
			tally := services.NewTallyService(st.ballots, st.catalog, collector)
			hub := ws.NewHub(collector, log)
			broadcaster := services.NewBroadcaster(tally, hub, collector, log, services.BroadcasterConfig{
				QueueSize: cfg.BroadcastQueue,
				Timeout:   cfg.TallyTimeout,
			})
			votes := services.NewVoteService(st.catalog, st.ballots, broadcaster, collector, log)
			catalog := services.NewCatalogService(st.catalog)

			handler := httphandler.NewHandler(
				httphandler.RouterConfig{
					CORSOrigins:    cfg.CORSOrigins,
					JWTCookie:      cfg.JWTCookie,
					RequestTimeout: cfg.RequestTimeout,
				},
				httphandler.Handlers{
					Votes:       httphandler.NewVoteHandler(votes),
					Leaderboard: httphandler.NewLeaderboardHandler(tally),
					Catalog:     httphandler.NewCatalogHandler(catalog),
					Stream: ws.NewHandler(hub, tally, ws.Config{
						PingPeriod:     cfg.WSPingPeriod,
						PongWait:       cfg.WSPongWait,
						WriteWait:      cfg.WSWriteWait,
						SendBuffer:     cfg.WSSendBuffer,
						AllowedOrigins: cfg.CORSOrigins,
						TallyTimeout:   cfg.TallyTimeout,
					}, log),
				},
				identity, st.db, registry, log,
			)

			server := &http.Server{
				Addr:              cfg.HTTPAddr,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}

			g, gCtx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return broadcaster.Run(gCtx)
			})
			g.Go(func() error {
				log.Info().Str("addr", cfg.HTTPAddr).Str("driver", cfg.DBDriver).Msg("server listening")
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gCtx.Done()
				log.Info().Msg("gracefully shutting down")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()

				var result *multierror.Error
				if err := hub.Close(); err != nil {
					result = multierror.Append(result, err)
				}
				if err := server.Shutdown(shutdownCtx); err != nil {
					result = multierror.Append(result, err)
				}
				return result.ErrorOrNil()
			})

			var result *multierror.Error
			if err := g.Wait(); err != nil {
				result = multierror.Append(result, err)
			}
			if err := st.db.Close(); err != nil {
				result = multierror.Append(result, err)
			}
			return result.ErrorOrNil()
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply postgres migrations before serving")
	return cmd
}
