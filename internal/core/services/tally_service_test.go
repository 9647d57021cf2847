package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
	"github.com/vncsmyrnk/election/internal/testutil"
)

func TestComputeTally(t *testing.T) {
	store := testutil.NewStore(t)
	president, candidates := store.AddPosition(t, "President", "A", "B", "C")
	secretary, _ := store.AddPosition(t, "Secretary", "S")
	a, b := candidates[0], candidates[1]

	rec := newRecorder()
	votes := NewVoteService(store.Catalog, store.Ballots, rec, rec, zerolog.Nop())
	tallies := NewTallyService(store.Ballots, store.Catalog, rec)
	ctx := context.Background()

	for _, candidate := range []domain.Candidate{a, b, b} {
		_, err := votes.CastVote(ctx, ports.CastVoteInput{Voter: testutil.NewVoter(), CandidateID: candidate.ID, PositionID: president.ID})
		require.NoError(t, err)
	}

	tally, err := tallies.ComputeTally(ctx, ports.TallyOptions{})
	require.NoError(t, err)
	require.Len(t, tally, 2)

	got, ok := tally.Position(president.ID)
	require.True(t, ok)
	assert.Equal(t, []domain.CandidateTally{
		{CandidateID: b.ID, Name: "B", Votes: 2},
		{CandidateID: a.ID, Name: "A", Votes: 1},
	}, got.Candidates)

	empty, ok := tally.Position(secretary.ID)
	require.True(t, ok)
	assert.NotNil(t, empty.Candidates)
	assert.Empty(t, empty.Candidates)

	full, err := tallies.ComputeTally(ctx, ports.TallyOptions{IncludeZero: true})
	require.NoError(t, err)
	got, _ = full.Position(president.ID)
	require.Len(t, got.Candidates, 3)
	assert.Equal(t, "C", got.Candidates[2].Name)
	assert.Zero(t, got.Candidates[2].Votes)
	empty, _ = full.Position(secretary.ID)
	assert.Len(t, empty.Candidates, 1)
}

func TestComputeTallyStoreFailure(t *testing.T) {
	ballots := &mockBallotRepository{}
	catalog := &mockCatalogRepository{}
	ballots.On("CountVotes", mock.Anything).Return(nil, domain.ErrUnavailable)

	_, err := NewTallyService(ballots, catalog, newRecorder()).ComputeTally(context.Background(), ports.TallyOptions{})
	assert.ErrorIs(t, err, domain.ErrUnavailable)
	catalog.AssertNotCalled(t, "ListPositions", mock.Anything)
}
