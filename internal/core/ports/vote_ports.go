package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
)

// BallotRepository is the durable ballot store. Insert is the only write and
// must return domain.ErrAlreadyVoted when the (voter, position) uniqueness
// constraint rejects the row.
type BallotRepository interface {
	Insert(ctx context.Context, ballot *domain.Ballot) error
	FindByVoterAndPosition(ctx context.Context, voterID, positionID uuid.UUID) (*domain.Ballot, error)
	CountVotes(ctx context.Context) ([]domain.VoteCount, error)
}

type CastVoteInput struct {
	Voter       domain.Voter
	CandidateID uuid.UUID
	PositionID  uuid.UUID
}

type VoteService interface {
	CastVote(ctx context.Context, input CastVoteInput) (*domain.Ballot, error)
	VoteStatus(ctx context.Context, voter domain.Voter, positionID uuid.UUID) (domain.VoteStatus, error)
}
