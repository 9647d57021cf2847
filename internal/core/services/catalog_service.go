package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type catalogService struct {
	repo ports.CatalogRepository
}

func NewCatalogService(repo ports.CatalogRepository) ports.CatalogService {
	return &catalogService{
		repo: repo,
	}
}

func (s *catalogService) CreatePosition(ctx context.Context, actor domain.Voter, input ports.CreatePositionInput) (*domain.Position, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: position name is required", domain.ErrInvalidInput)
	}

	position := &domain.Position{
		ID:          uuid.New(),
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}

	if err := s.repo.SavePosition(ctx, position); err != nil {
		return nil, err
	}

	return position, nil
}

func (s *catalogService) CreateCandidate(ctx context.Context, actor domain.Voter, input ports.CreateCandidateInput) (*domain.Candidate, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: candidate name is required", domain.ErrInvalidInput)
	}

	if _, err := s.repo.GetPosition(ctx, input.PositionID); err != nil {
		return nil, err
	}

	candidate := &domain.Candidate{
		ID:         uuid.New(),
		PositionID: input.PositionID,
		Name:       name,
		Bio:        strings.TrimSpace(input.Bio),
		CreatedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}

	if err := s.repo.SaveCandidate(ctx, candidate); err != nil {
		return nil, err
	}

	return candidate, nil
}

func (s *catalogService) ListPositions(ctx context.Context) ([]domain.Position, error) {
	return s.repo.ListPositions(ctx)
}

func (s *catalogService) GetPosition(ctx context.Context, id uuid.UUID) (*domain.Position, error) {
	return s.repo.GetPosition(ctx, id)
}

func (s *catalogService) ListCandidates(ctx context.Context, positionID *uuid.UUID) ([]domain.Candidate, error) {
	candidates, err := s.repo.ListCandidates(ctx)
	if err != nil {
		return nil, err
	}
	if positionID == nil {
		return candidates, nil
	}

	filtered := make([]domain.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.PositionID == *positionID {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

func (s *catalogService) GetCandidate(ctx context.Context, id uuid.UUID) (*domain.Candidate, error) {
	return s.repo.GetCandidate(ctx, id)
}
