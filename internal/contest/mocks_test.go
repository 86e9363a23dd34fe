package contest

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/accrabet/accrabet/internal/domain"
)

// MockRepository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateContest(ctx context.Context, c *domain.Contest) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockRepository) GetContest(ctx context.Context, id uuid.UUID) (*domain.Contest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contest), args.Error(1)
}

func (m *MockRepository) ListActiveContests(ctx context.Context) ([]domain.Contest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contest), args.Error(1)
}

func (m *MockRepository) TransitionPhaseIfMatches(ctx context.Context, id uuid.UUID, expected domain.Phase, expectedRound int64, c *domain.Contest) (int64, error) {
	args := m.Called(ctx, id, expected, expectedRound, c)
	return int64(args.Int(0)), args.Error(1)
}

func (m *MockRepository) MarkVoided(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return int64(args.Int(0)), args.Error(1)
}

func (m *MockRepository) SaveRoundResult(ctx context.Context, r *domain.RoundResult) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRepository) GetRoundResult(ctx context.Context, contestID uuid.UUID, roundID int64) (*domain.RoundResult, error) {
	args := m.Called(ctx, contestID, roundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RoundResult), args.Error(1)
}
