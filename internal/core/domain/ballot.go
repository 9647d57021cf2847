package domain

import (
	"time"

	"github.com/google/uuid"
)

// Ballot is one cast vote. At most one Ballot exists per (VoterID, PositionID).
type Ballot struct {
	ID          uuid.UUID `json:"id"`
	VoterID     uuid.UUID `json:"voterId"`
	CandidateID uuid.UUID `json:"candidateId"`
	PositionID  uuid.UUID `json:"positionId"`
	CastAt      time.Time `json:"castAt"`
}

type VoteStatus struct {
	Voted       bool       `json:"hasVoted"`
	CandidateID *uuid.UUID `json:"votedFor"`
}

// VoteCount is one (position, candidate) group of the ballot table.
type VoteCount struct {
	PositionID  uuid.UUID
	CandidateID uuid.UUID
	Votes       int64
}
