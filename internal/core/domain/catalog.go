package domain

import (
	"time"

	"github.com/google/uuid"
)

type Position struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Candidate struct {
	ID         uuid.UUID `json:"id"`
	PositionID uuid.UUID `json:"positionId"`
	Name       string    `json:"name"`
	Bio        string    `json:"bio,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
