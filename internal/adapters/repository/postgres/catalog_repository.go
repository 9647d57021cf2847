package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type catalogRepository struct {
	db *sql.DB
}

func NewCatalogRepository(db *sql.DB) ports.CatalogRepository {
	return &catalogRepository{
		db: db,
	}
}

func (r *catalogRepository) SavePosition(ctx context.Context, position *domain.Position) error {
	query := `
		INSERT INTO positions (id, name, description, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query, position.ID, position.Name, position.Description, position.CreatedAt)
	if err != nil {
		if errorCodeName(err) == uniqueViolation {
			return domain.ErrPositionExists
		}
		return unavailable("failed to insert position", err)
	}
	return nil
}

func (r *catalogRepository) SaveCandidate(ctx context.Context, candidate *domain.Candidate) error {
	query := `
		INSERT INTO candidates (id, position_id, name, bio, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, candidate.ID, candidate.PositionID, candidate.Name, candidate.Bio, candidate.CreatedAt)
	if err != nil {
		if errorCodeName(err) == foreignKeyViolation {
			return domain.ErrPositionNotFound
		}
		return unavailable("failed to insert candidate", err)
	}
	return nil
}

func (r *catalogRepository) GetPosition(ctx context.Context, id uuid.UUID) (*domain.Position, error) {
	query := `
		SELECT id, name, description, created_at
		FROM positions
		WHERE id = $1
	`
	var p domain.Position
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPositionNotFound
		}
		return nil, unavailable("failed to get position", err)
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return &p, nil
}

func (r *catalogRepository) GetCandidate(ctx context.Context, id uuid.UUID) (*domain.Candidate, error) {
	query := `
		SELECT id, position_id, name, bio, created_at
		FROM candidates
		WHERE id = $1
	`
	var c domain.Candidate
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.PositionID, &c.Name, &c.Bio, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCandidateNotFound
		}
		return nil, unavailable("failed to get candidate", err)
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return &c, nil
}

func (r *catalogRepository) ListPositions(ctx context.Context) ([]domain.Position, error) {
	query := `
		SELECT id, name, description, created_at
		FROM positions
		ORDER BY name
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, unavailable("failed to list positions", err)
	}
	defer rows.Close()

	positions := []domain.Position{}
	for rows.Next() {
		var p domain.Position
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt); err != nil {
			return nil, unavailable("failed to scan position", err)
		}
		p.CreatedAt = p.CreatedAt.UTC()
		positions = append(positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("error iterating positions", err)
	}
	return positions, nil
}

func (r *catalogRepository) ListCandidates(ctx context.Context) ([]domain.Candidate, error) {
	query := `
		SELECT id, position_id, name, bio, created_at
		FROM candidates
		ORDER BY name, id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, unavailable("failed to list candidates", err)
	}
	defer rows.Close()

	candidates := []domain.Candidate{}
	for rows.Next() {
		var c domain.Candidate
		if err := rows.Scan(&c.ID, &c.PositionID, &c.Name, &c.Bio, &c.CreatedAt); err != nil {
			return nil, unavailable("failed to scan candidate", err)
		}
		c.CreatedAt = c.CreatedAt.UTC()
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("error iterating candidates", err)
	}
	return candidates, nil
}
