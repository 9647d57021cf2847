package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type BroadcasterConfig struct {
	// QueueSize bounds the number of pending notifications. Notifications
	// arriving at a full queue are dropped; the next one still carries the
	// complete tally.
	QueueSize int
	// Timeout bounds each recompute.
	Timeout time.Duration
}

// Broadcaster recomputes the tally after every committed ballot and pushes it
// to the publisher. Delivery is best-effort: the voter's request never waits
// on it and a failed recompute or publish is only logged.
//
// A single worker drains the queue, so tallies reach the publisher in the
// order the notifications were accepted and never regress.
type Broadcaster struct {
	tally     ports.TallyService
	publisher ports.TallyPublisher
	metrics   ports.BroadcastMetrics
	log       zerolog.Logger
	timeout   time.Duration
	queue     chan domain.Ballot
}

var _ ports.VoteNotifier = (*Broadcaster)(nil)

func NewBroadcaster(
	tally ports.TallyService,
	publisher ports.TallyPublisher,
	metrics ports.BroadcastMetrics,
	log zerolog.Logger,
	cfg BroadcasterConfig,
) *Broadcaster {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	return &Broadcaster{
		tally:     tally,
		publisher: publisher,
		metrics:   metrics,
		log:       log.With().Str("component", "broadcaster").Logger(),
		timeout:   cfg.Timeout,
		queue:     make(chan domain.Ballot, cfg.QueueSize),
	}
}

// Notify enqueues a recompute without blocking.
func (b *Broadcaster) Notify(ballot domain.Ballot) {
	select {
	case b.queue <- ballot:
	default:
		b.metrics.BroadcastDropped()
		b.log.Warn().
			Str("ballot_id", ballot.ID.String()).
			Msg("broadcast queue full, dropping notification")
	}
}

// Run processes notifications until ctx is cancelled.
func (b *Broadcaster) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ballot := <-b.queue:
			b.broadcast(ctx, ballot)
		}
	}
}

func (b *Broadcaster) broadcast(ctx context.Context, ballot domain.Ballot) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	tally, err := b.tally.ComputeTally(ctx, ports.TallyOptions{})
	if err != nil {
		b.log.Warn().Err(err).
			Str("ballot_id", ballot.ID.String()).
			Msg("failed to recompute tally for broadcast")
		return
	}

	b.publisher.Publish(tally)
	b.log.Debug().Str("ballot_id", ballot.ID.String()).Msg("tally broadcast")
}
