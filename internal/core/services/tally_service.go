package services

import (
	"context"
	"fmt"
	"time"

	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type tallyService struct {
	ballots ports.BallotRepository
	catalog ports.CatalogRepository
	metrics ports.TallyMetrics
}

func NewTallyService(ballots ports.BallotRepository, catalog ports.CatalogRepository, metrics ports.TallyMetrics) ports.TallyService {
	return &tallyService{
		ballots: ballots,
		catalog: catalog,
		metrics: metrics,
	}
}

// ComputeTally reads the grouped ballot counts first and the catalog second,
// so the result covers every ballot committed before the call started.
func (s *tallyService) ComputeTally(ctx context.Context, opts ports.TallyOptions) (domain.Tally, error) {
	start := time.Now()

	counts, err := s.ballots.CountVotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}

	positions, err := s.catalog.ListPositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}

	candidates, err := s.catalog.ListCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}

	tally := domain.BuildTally(counts, positions, candidates, opts.IncludeZero)
	s.metrics.TallyComputed(time.Since(start))

	return tally, nil
}
