package ports

import (
	"context"

	"github.com/vncsmyrnk/election/internal/core/domain"
)

type TallyOptions struct {
	// IncludeZero lists every catalog candidate, not only those with votes.
	IncludeZero bool
}

type TallyService interface {
	ComputeTally(ctx context.Context, opts TallyOptions) (domain.Tally, error)
}

// TallyPublisher delivers a recomputed tally to every connected observer.
// Publish must not block on slow observers.
type TallyPublisher interface {
	Publish(tally domain.Tally)
}

// VoteNotifier is told about every committed ballot. Notify must return
// immediately.
type VoteNotifier interface {
	Notify(ballot domain.Ballot)
}
