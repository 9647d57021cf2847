// Package testutil provides shared fixtures backed by a throwaway SQLite
// database.
package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/election/internal/adapters/repository/sqlite"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type Store struct {
	DB      *sql.DB
	Ballots ports.BallotRepository
	Catalog ports.CatalogRepository
}

// NewStore opens a fresh database file under t.TempDir().
func NewStore(t *testing.T) *Store {
	t.Helper()

	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "election.db"), 0)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &Store{
		DB:      db,
		Ballots: sqlite.NewBallotRepository(db),
		Catalog: sqlite.NewCatalogRepository(db),
	}
}

// AddPosition stores a position together with one candidate per name.
func (s *Store) AddPosition(t *testing.T, name string, candidates ...string) (domain.Position, []domain.Candidate) {
	t.Helper()
	ctx := context.Background()

	position := domain.Position{ID: uuid.New(), Name: name, CreatedAt: time.Now().UTC()}
	require.NoError(t, s.Catalog.SavePosition(ctx, &position))

	var stored []domain.Candidate
	for _, n := range candidates {
		c := domain.Candidate{ID: uuid.New(), PositionID: position.ID, Name: n, CreatedAt: time.Now().UTC()}
		require.NoError(t, s.Catalog.SaveCandidate(ctx, &c))
		stored = append(stored, c)
	}
	return position, stored
}

// CountBallots counts stored ballots for a voter and position.
func (s *Store) CountBallots(t *testing.T, voterID, positionID uuid.UUID) int {
	t.Helper()

	var n int
	err := s.DB.QueryRow(
		`SELECT COUNT(*) FROM ballots WHERE voter_id = ? AND position_id = ?`, voterID, positionID,
	).Scan(&n)
	require.NoError(t, err)
	return n
}

func NewVoter() domain.Voter {
	return domain.Voter{ID: uuid.New(), Role: domain.RoleVoter}
}

func NewAdmin() domain.Voter {
	return domain.Voter{ID: uuid.New(), Role: domain.RoleAdmin}
}
