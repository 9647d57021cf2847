package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

// Pinger reports whether the ballot store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type RouterConfig struct {
	CORSOrigins    []string
	JWTCookie      string
	RequestTimeout time.Duration
}

type Handlers struct {
	Votes       *VoteHandler
	Leaderboard *LeaderboardHandler
	Catalog     *CatalogHandler
	// Stream serves the live leaderboard. It bypasses the request timeout.
	Stream http.Handler
}

func NewHandler(
	cfg RouterConfig,
	h Handlers,
	identity ports.IdentityService,
	store Pinger,
	gatherer prometheus.Gatherer,
	log zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := store.PingContext(ctx); err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Msg("health check failed")
			writeMessage(w, http.StatusServiceUnavailable, "ballot store unreachable")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		if h.Stream != nil {
			r.Handle("/leaderboard/ws", h.Stream)
		}

		r.Group(func(r chi.Router) {
			r.Use(withTimeout(cfg.RequestTimeout))

			r.Get("/leaderboard", h.Leaderboard.GetLeaderboard)
			r.Get("/positions", h.Catalog.ListPositions)
			r.Get("/positions/{id}", h.Catalog.GetPosition)
			r.Get("/candidates", h.Catalog.ListCandidates)
			r.Get("/candidates/{id}", h.Catalog.GetCandidate)

			r.Group(func(r chi.Router) {
				r.Use(authenticate(identity, cfg.JWTCookie))

				r.Group(func(r chi.Router) {
					r.Use(requireRole(domain.RoleVoter))

					r.Post("/votes", h.Votes.CastVote)
					r.Get("/votes/status/{positionId}", h.Votes.VoteStatus)
				})
				r.Post("/positions", h.Catalog.CreatePosition)
				r.Post("/candidates", h.Catalog.CreateCandidate)
			})
		})
	})

	return r
}
