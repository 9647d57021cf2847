package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type voteService struct {
	catalog  ports.CatalogRepository
	ballots  ports.BallotRepository
	notifier ports.VoteNotifier
	metrics  ports.VoteMetrics
	log      zerolog.Logger
}

func NewVoteService(
	catalog ports.CatalogRepository,
	ballots ports.BallotRepository,
	notifier ports.VoteNotifier,
	metrics ports.VoteMetrics,
	log zerolog.Logger,
) ports.VoteService {
	return &voteService{
		catalog:  catalog,
		ballots:  ballots,
		notifier: notifier,
		metrics:  metrics,
		log:      log.With().Str("component", "vote-service").Logger(),
	}
}

// CastVote validates the request and persists one ballot. The duplicate
// lookup only gives an early answer; the store's uniqueness constraint
// decides, and both paths report domain.ErrAlreadyVoted. Observers are
// notified only after the insert has committed.
func (s *voteService) CastVote(ctx context.Context, input ports.CastVoteInput) (*domain.Ballot, error) {
	ballot, err := s.castVote(ctx, input)
	s.metrics.VoteAttempted(outcomeOf(err))
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("ballot_id", ballot.ID.String()).
		Str("position_id", ballot.PositionID.String()).
		Msg("ballot cast")

	s.notifier.Notify(*ballot)
	return ballot, nil
}

func (s *voteService) castVote(ctx context.Context, input ports.CastVoteInput) (*domain.Ballot, error) {
	if input.Voter.ID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}
	if !input.Voter.Role.CanVote() {
		return nil, domain.ErrForbidden
	}

	candidate, err := s.catalog.GetCandidate(ctx, input.CandidateID)
	if err != nil {
		return nil, err
	}
	if candidate.PositionID != input.PositionID {
		return nil, domain.ErrPositionMismatch
	}

	existing, err := s.ballots.FindByVoterAndPosition(ctx, input.Voter.ID, input.PositionID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrAlreadyVoted
	}

	ballot := &domain.Ballot{
		ID:          uuid.New(),
		VoterID:     input.Voter.ID,
		CandidateID: candidate.ID,
		PositionID:  input.PositionID,
		CastAt:      time.Now().UTC().Truncate(time.Microsecond),
	}

	if err := s.ballots.Insert(ctx, ballot); err != nil {
		return nil, err
	}

	return ballot, nil
}

func (s *voteService) VoteStatus(ctx context.Context, voter domain.Voter, positionID uuid.UUID) (domain.VoteStatus, error) {
	if voter.ID == uuid.Nil {
		return domain.VoteStatus{}, domain.ErrUnauthenticated
	}

	ballot, err := s.ballots.FindByVoterAndPosition(ctx, voter.ID, positionID)
	if err != nil {
		return domain.VoteStatus{}, err
	}
	if ballot == nil {
		return domain.VoteStatus{}, nil
	}

	candidateID := ballot.CandidateID
	return domain.VoteStatus{Voted: true, CandidateID: &candidateID}, nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return ports.OutcomeCast
	case errors.Is(err, domain.ErrUnauthenticated):
		return ports.OutcomeUnauthenticated
	case errors.Is(err, domain.ErrForbidden):
		return ports.OutcomeForbidden
	case errors.Is(err, domain.ErrCandidateNotFound), errors.Is(err, domain.ErrPositionNotFound):
		return ports.OutcomeNotFound
	case errors.Is(err, domain.ErrPositionMismatch), errors.Is(err, domain.ErrInvalidInput):
		return ports.OutcomeInvalid
	case errors.Is(err, domain.ErrAlreadyVoted):
		return ports.OutcomeConflict
	default:
		return ports.OutcomeUnavailable
	}
}
