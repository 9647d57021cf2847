package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type mockBallotRepository struct {
	mock.Mock
}

func (m *mockBallotRepository) Insert(ctx context.Context, ballot *domain.Ballot) error {
	args := m.Called(ctx, ballot)
	return args.Error(0)
}

func (m *mockBallotRepository) FindByVoterAndPosition(ctx context.Context, voterID, positionID uuid.UUID) (*domain.Ballot, error) {
	args := m.Called(ctx, voterID, positionID)
	b, _ := args.Get(0).(*domain.Ballot)
	return b, args.Error(1)
}

func (m *mockBallotRepository) CountVotes(ctx context.Context) ([]domain.VoteCount, error) {
	args := m.Called(ctx)
	counts, _ := args.Get(0).([]domain.VoteCount)
	return counts, args.Error(1)
}

type mockCatalogRepository struct {
	mock.Mock
}

func (m *mockCatalogRepository) SavePosition(ctx context.Context, position *domain.Position) error {
	return m.Called(ctx, position).Error(0)
}

func (m *mockCatalogRepository) SaveCandidate(ctx context.Context, candidate *domain.Candidate) error {
	return m.Called(ctx, candidate).Error(0)
}

func (m *mockCatalogRepository) GetPosition(ctx context.Context, id uuid.UUID) (*domain.Position, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*domain.Position)
	return p, args.Error(1)
}

func (m *mockCatalogRepository) GetCandidate(ctx context.Context, id uuid.UUID) (*domain.Candidate, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*domain.Candidate)
	return c, args.Error(1)
}

func (m *mockCatalogRepository) ListPositions(ctx context.Context) ([]domain.Position, error) {
	args := m.Called(ctx)
	ps, _ := args.Get(0).([]domain.Position)
	return ps, args.Error(1)
}

func (m *mockCatalogRepository) ListCandidates(ctx context.Context) ([]domain.Candidate, error) {
	args := m.Called(ctx)
	cs, _ := args.Get(0).([]domain.Candidate)
	return cs, args.Error(1)
}

type mockTallyService struct {
	mock.Mock
}

func (m *mockTallyService) ComputeTally(ctx context.Context, opts ports.TallyOptions) (domain.Tally, error) {
	args := m.Called(ctx, opts)
	t, _ := args.Get(0).(domain.Tally)
	return t, args.Error(1)
}

// recorder implements the notifier, publisher and metrics ports and keeps
// what it was given.
type recorder struct {
	mu        sync.Mutex
	ballots   []domain.Ballot
	outcomes  []string
	dropped   int
	published chan domain.Tally
}

func newRecorder() *recorder {
	return &recorder{published: make(chan domain.Tally, 128)}
}

func (r *recorder) Notify(ballot domain.Ballot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ballots = append(r.ballots, ballot)
}

func (r *recorder) Publish(tally domain.Tally) {
	r.published <- tally
}

func (r *recorder) VoteAttempted(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func (r *recorder) TallyComputed(time.Duration) {}
func (r *recorder) BroadcastPublished(int)      {}
func (r *recorder) ObserverConnected()          {}
func (r *recorder) ObserverDisconnected()       {}

func (r *recorder) BroadcastDropped() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dropped++
}

func (r *recorder) notified() []domain.Ballot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Ballot(nil), r.ballots...)
}

func (r *recorder) attempts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.outcomes...)
}

func (r *recorder) droppedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

var _ ports.Metrics = (*recorder)(nil)
