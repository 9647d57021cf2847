package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
	"github.com/vncsmyrnk/election/internal/testutil"
)

func receiveTally(t *testing.T, ch <-chan domain.Tally) domain.Tally {
	t.Helper()
	select {
	case tally := <-ch:
		return tally
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a published tally")
		return nil
	}
}

func TestBroadcasterPublishesCommittedVotes(t *testing.T) {
	store := testutil.NewStore(t)
	position, candidates := store.AddPosition(t, "President", "A", "B")

	rec := newRecorder()
	tallies := NewTallyService(store.Ballots, store.Catalog, rec)
	broadcaster := NewBroadcaster(tallies, rec, rec, zerolog.Nop(), BroadcasterConfig{})
	votes := NewVoteService(store.Catalog, store.Ballots, broadcaster, rec, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- broadcaster.Run(ctx) }()

	_, err := votes.CastVote(ctx, ports.CastVoteInput{Voter: testutil.NewVoter(), CandidateID: candidates[0].ID, PositionID: position.ID})
	require.NoError(t, err)

	first := receiveTally(t, rec.published)
	got, ok := first.Position(position.ID)
	require.True(t, ok)
	require.Len(t, got.Candidates, 1)
	assert.Equal(t, int64(1), got.Candidates[0].Votes)

	_, err = votes.CastVote(ctx, ports.CastVoteInput{Voter: testutil.NewVoter(), CandidateID: candidates[1].ID, PositionID: position.ID})
	require.NoError(t, err)

	second := receiveTally(t, rec.published)
	got, _ = second.Position(position.ID)
	assert.Len(t, got.Candidates, 2)

	// rejected votes trigger nothing
	voter := testutil.NewVoter()
	_, err = votes.CastVote(ctx, ports.CastVoteInput{Voter: voter, CandidateID: candidates[0].ID, PositionID: position.ID})
	require.NoError(t, err)
	receiveTally(t, rec.published)
	_, err = votes.CastVote(ctx, ports.CastVoteInput{Voter: voter, CandidateID: candidates[1].ID, PositionID: position.ID})
	require.ErrorIs(t, err, domain.ErrAlreadyVoted)

	cancel()
	require.NoError(t, <-done)
	assert.Empty(t, rec.published)
}

func TestBroadcasterDropsOnFullQueue(t *testing.T) {
	rec := newRecorder()
	broadcaster := NewBroadcaster(&mockTallyService{}, rec, rec, zerolog.Nop(), BroadcasterConfig{QueueSize: 1})

	broadcaster.Notify(domain.Ballot{})
	broadcaster.Notify(domain.Ballot{})
	broadcaster.Notify(domain.Ballot{})

	assert.Equal(t, 2, rec.droppedCount())
	assert.Len(t, broadcaster.queue, 1)
}

func TestBroadcasterSkipsFailedRecompute(t *testing.T) {
	tallies := &mockTallyService{}
	want := domain.Tally{{PositionName: "President", Candidates: []domain.CandidateTally{}}}
	tallies.On("ComputeTally", mock.Anything, ports.TallyOptions{}).Return(nil, errors.New("boom")).Once()
	tallies.On("ComputeTally", mock.Anything, ports.TallyOptions{}).Return(want, nil).Once()

	rec := newRecorder()
	broadcaster := NewBroadcaster(tallies, rec, rec, zerolog.Nop(), BroadcasterConfig{Timeout: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go broadcaster.Run(ctx)

	broadcaster.Notify(domain.Ballot{})
	broadcaster.Notify(domain.Ballot{})

	assert.Equal(t, want, receiveTally(t, rec.published))
	tallies.AssertNumberOfCalls(t, "ComputeTally", 2)
}
