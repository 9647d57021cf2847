package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
	"github.com/vncsmyrnk/election/internal/testutil"
)

func TestCatalogService(t *testing.T) {
	store := testutil.NewStore(t)
	svc := NewCatalogService(store.Catalog)
	admin := testutil.NewAdmin()
	ctx := context.Background()

	president, err := svc.CreatePosition(ctx, admin, ports.CreatePositionInput{Name: "  President ", Description: "Head of state"})
	require.NoError(t, err)
	assert.Equal(t, "President", president.Name)

	treasurer, err := svc.CreatePosition(ctx, admin, ports.CreatePositionInput{Name: "Treasurer"})
	require.NoError(t, err)

	t.Run("writes require the admin role", func(t *testing.T) {
		_, err := svc.CreatePosition(ctx, testutil.NewVoter(), ports.CreatePositionInput{Name: "Auditor"})
		assert.ErrorIs(t, err, domain.ErrForbidden)

		_, err = svc.CreateCandidate(ctx, testutil.NewVoter(), ports.CreateCandidateInput{PositionID: president.ID, Name: "A"})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := svc.CreatePosition(ctx, admin, ports.CreatePositionInput{Name: "   "})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = svc.CreatePosition(ctx, admin, ports.CreatePositionInput{Name: "President"})
		assert.ErrorIs(t, err, domain.ErrPositionExists)

		_, err = svc.CreateCandidate(ctx, admin, ports.CreateCandidateInput{PositionID: president.ID})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = svc.CreateCandidate(ctx, admin, ports.CreateCandidateInput{PositionID: uuid.New(), Name: "A"})
		assert.ErrorIs(t, err, domain.ErrPositionNotFound)
	})

	t.Run("positions", func(t *testing.T) {
		got, err := svc.GetPosition(ctx, president.ID)
		require.NoError(t, err)
		assert.Equal(t, "Head of state", got.Description)

		_, err = svc.GetPosition(ctx, uuid.New())
		assert.ErrorIs(t, err, domain.ErrPositionNotFound)
	})

	t.Run("candidates", func(t *testing.T) {
		a, err := svc.CreateCandidate(ctx, admin, ports.CreateCandidateInput{PositionID: president.ID, Name: "A", Bio: "bio"})
		require.NoError(t, err)
		_, err = svc.CreateCandidate(ctx, admin, ports.CreateCandidateInput{PositionID: treasurer.ID, Name: "T"})
		require.NoError(t, err)

		got, err := svc.GetCandidate(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, "bio", got.Bio)

		all, err := svc.ListCandidates(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		filtered, err := svc.ListCandidates(ctx, &president.ID)
		require.NoError(t, err)
		require.Len(t, filtered, 1)
		assert.Equal(t, a.ID, filtered[0].ID)
	})

	positions, err := svc.ListPositions(ctx)
	require.NoError(t, err)
	require.Len(t, positions, 2)
	assert.Equal(t, "President", positions[0].Name)
}
