package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
)

// CatalogRepository holds positions and candidates. The vote path only reads
// from it.
type CatalogRepository interface {
	SavePosition(ctx context.Context, position *domain.Position) error
	SaveCandidate(ctx context.Context, candidate *domain.Candidate) error
	GetPosition(ctx context.Context, id uuid.UUID) (*domain.Position, error)
	GetCandidate(ctx context.Context, id uuid.UUID) (*domain.Candidate, error)
	ListPositions(ctx context.Context) ([]domain.Position, error)
	ListCandidates(ctx context.Context) ([]domain.Candidate, error)
}

type CreatePositionInput struct {
	Name        string
	Description string
}

type CreateCandidateInput struct {
	PositionID uuid.UUID
	Name       string
	Bio        string
}

type CatalogService interface {
	CreatePosition(ctx context.Context, actor domain.Voter, input CreatePositionInput) (*domain.Position, error)
	CreateCandidate(ctx context.Context, actor domain.Voter, input CreateCandidateInput) (*domain.Candidate, error)
	ListPositions(ctx context.Context) ([]domain.Position, error)
	GetPosition(ctx context.Context, id uuid.UUID) (*domain.Position, error)
	ListCandidates(ctx context.Context, positionID *uuid.UUID) ([]domain.Candidate, error)
	GetCandidate(ctx context.Context, id uuid.UUID) (*domain.Candidate, error)
}
