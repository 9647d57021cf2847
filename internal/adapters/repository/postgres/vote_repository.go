package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type ballotRepository struct {
	db *sql.DB
}

func NewBallotRepository(db *sql.DB) ports.BallotRepository {
	return &ballotRepository{
		db: db,
	}
}

// Insert relies on ballots_voter_position_key to reject a second ballot for
// the same voter and position, including one racing this insert.
func (r *ballotRepository) Insert(ctx context.Context, ballot *domain.Ballot) error {
	query := `
		INSERT INTO ballots (id, voter_id, candidate_id, position_id, cast_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, ballot.ID, ballot.VoterID, ballot.CandidateID, ballot.PositionID, ballot.CastAt)
	if err != nil {
		switch errorCodeName(err) {
		case uniqueViolation:
			return domain.ErrAlreadyVoted
		case foreignKeyViolation:
			return domain.ErrCandidateNotFound
		}
		return unavailable("failed to save ballot", err)
	}
	return nil
}

func (r *ballotRepository) FindByVoterAndPosition(ctx context.Context, voterID, positionID uuid.UUID) (*domain.Ballot, error) {
	query := `
		SELECT id, voter_id, candidate_id, position_id, cast_at
		FROM ballots
		WHERE voter_id = $1 AND position_id = $2
	`
	var b domain.Ballot
	err := r.db.QueryRowContext(ctx, query, voterID, positionID).Scan(
		&b.ID, &b.VoterID, &b.CandidateID, &b.PositionID, &b.CastAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, unavailable("failed to check existing ballot", err)
	}
	b.CastAt = b.CastAt.UTC()
	return &b, nil
}

func (r *ballotRepository) CountVotes(ctx context.Context) ([]domain.VoteCount, error) {
	query := `
		SELECT position_id, candidate_id, COUNT(*)
		FROM ballots
		GROUP BY position_id, candidate_id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, unavailable("failed to count votes", err)
	}
	defer rows.Close()

	var counts []domain.VoteCount
	for rows.Next() {
		var vc domain.VoteCount
		if err := rows.Scan(&vc.PositionID, &vc.CandidateID, &vc.Votes); err != nil {
			return nil, unavailable("failed to scan vote count", err)
		}
		counts = append(counts, vc)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("error iterating vote counts", err)
	}
	return counts, nil
}
