package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type catalogFixture struct {
	president, treasurer Position
	alice, bob, carol    Candidate
}

func newCatalogFixture() catalogFixture {
	president := Position{ID: uuid.New(), Name: "President"}
	treasurer := Position{ID: uuid.New(), Name: "Treasurer"}
	return catalogFixture{
		president: president,
		treasurer: treasurer,
		alice:     Candidate{ID: uuid.New(), PositionID: president.ID, Name: "Alice"},
		bob:       Candidate{ID: uuid.New(), PositionID: president.ID, Name: "Bob"},
		carol:     Candidate{ID: uuid.New(), PositionID: treasurer.ID, Name: "Carol"},
	}
}

func (f catalogFixture) positions() []Position {
	// deliberately out of name order
	return []Position{f.treasurer, f.president}
}

func (f catalogFixture) candidates() []Candidate {
	return []Candidate{f.bob, f.alice, f.carol}
}

func TestBuildTallyRanksByVotesThenName(t *testing.T) {
	f := newCatalogFixture()
	counts := []VoteCount{
		{PositionID: f.president.ID, CandidateID: f.bob.ID, Votes: 1},
		{PositionID: f.president.ID, CandidateID: f.alice.ID, Votes: 1},
		{PositionID: f.treasurer.ID, CandidateID: f.carol.ID, Votes: 4},
	}

	tally := BuildTally(counts, f.positions(), f.candidates(), false)

	require.Len(t, tally, 2)
	assert.Equal(t, "President", tally[0].PositionName)
	assert.Equal(t, "Treasurer", tally[1].PositionName)

	require.Len(t, tally[0].Candidates, 2)
	assert.Equal(t, "Alice", tally[0].Candidates[0].Name)
	assert.Equal(t, "Bob", tally[0].Candidates[1].Name)

	counts[1].Votes = 3
	tally = BuildTally(counts, f.positions(), f.candidates(), false)
	assert.Equal(t, "Alice", tally[0].Candidates[0].Name)
	assert.Equal(t, int64(3), tally[0].Candidates[0].Votes)

	counts[0].Votes = 5
	tally = BuildTally(counts, f.positions(), f.candidates(), false)
	assert.Equal(t, "Bob", tally[0].Candidates[0].Name)
	assert.Equal(t, int64(5), tally[0].Candidates[0].Votes)
}

func TestBuildTallyEmptyPosition(t *testing.T) {
	f := newCatalogFixture()

	tally := BuildTally(nil, f.positions(), f.candidates(), false)

	require.Len(t, tally, 2)
	for _, p := range tally {
		assert.NotNil(t, p.Candidates)
		assert.Empty(t, p.Candidates)
	}
}

func TestBuildTallyIncludeZero(t *testing.T) {
	f := newCatalogFixture()
	counts := []VoteCount{
		{PositionID: f.president.ID, CandidateID: f.bob.ID, Votes: 2},
	}

	tally := BuildTally(counts, f.positions(), f.candidates(), true)

	president, ok := tally.Position(f.president.ID)
	require.True(t, ok)
	require.Len(t, president.Candidates, 2)
	assert.Equal(t, CandidateTally{CandidateID: f.bob.ID, Name: "Bob", Votes: 2}, president.Candidates[0])
	assert.Equal(t, CandidateTally{CandidateID: f.alice.ID, Name: "Alice", Votes: 0}, president.Candidates[1])

	treasurer, ok := tally.Position(f.treasurer.ID)
	require.True(t, ok)
	require.Len(t, treasurer.Candidates, 1)
	assert.Equal(t, int64(0), treasurer.Candidates[0].Votes)
}

func TestBuildTallyDropsDanglingReferences(t *testing.T) {
	f := newCatalogFixture()
	counts := []VoteCount{
		{PositionID: f.president.ID, CandidateID: uuid.New(), Votes: 7},
		{PositionID: uuid.New(), CandidateID: f.alice.ID, Votes: 3},
		{PositionID: f.treasurer.ID, CandidateID: f.alice.ID, Votes: 2},
		{PositionID: f.president.ID, CandidateID: f.alice.ID, Votes: 1},
	}

	tally := BuildTally(counts, f.positions(), f.candidates(), false)

	president, ok := tally.Position(f.president.ID)
	require.True(t, ok)
	require.Len(t, president.Candidates, 1)
	assert.Equal(t, int64(1), president.Candidates[0].Votes)

	treasurer, ok := tally.Position(f.treasurer.ID)
	require.True(t, ok)
	assert.Empty(t, treasurer.Candidates)
}

func TestTallyPositionMissing(t *testing.T) {
	_, ok := Tally{}.Position(uuid.New())
	assert.False(t, ok)
}

func TestRoleCanVote(t *testing.T) {
	assert.True(t, RoleVoter.CanVote())
	assert.False(t, RoleAdmin.CanVote())
	assert.False(t, Role("guest").CanVote())
	assert.False(t, Role("guest").Valid())
}
