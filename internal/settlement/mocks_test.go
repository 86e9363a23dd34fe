package settlement

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/accrabet/accrabet/internal/domain"
	"github.com/accrabet/accrabet/internal/repository"
)

// MockWagerRepository
type MockWagerRepository struct {
	mock.Mock
}

func (m *MockWagerRepository) GetWager(ctx context.Context, id uuid.UUID) (*domain.Wager, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wager), args.Error(1)
}

func (m *MockWagerRepository) GetWagerByIdempotencyKey(ctx context.Context, ownerID uuid.UUID, key string) (*domain.Wager, error) {
	args := m.Called(ctx, ownerID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wager), args.Error(1)
}

func (m *MockWagerRepository) ListPendingByRound(ctx context.Context, contestID uuid.UUID, roundID int64) ([]domain.Wager, error) {
	args := m.Called(ctx, contestID, roundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Wager), args.Error(1)
}

func (m *MockWagerRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]domain.Wager, error) {
	args := m.Called(ctx, ownerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Wager), args.Error(1)
}

func (m *MockWagerRepository) BeginPlaceTx(ctx context.Context) (repository.PlaceTx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.PlaceTx), args.Error(1)
}

func (m *MockWagerRepository) BeginSettleTx(ctx context.Context) (repository.SettleTx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.SettleTx), args.Error(1)
}

// MockContestRepository
type MockContestRepository struct {
	mock.Mock
}

func (m *MockContestRepository) CreateContest(ctx context.Context, c *domain.Contest) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockContestRepository) GetContest(ctx context.Context, id uuid.UUID) (*domain.Contest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contest), args.Error(1)
}

func (m *MockContestRepository) ListActiveContests(ctx context.Context) ([]domain.Contest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contest), args.Error(1)
}

func (m *MockContestRepository) TransitionPhaseIfMatches(ctx context.Context, id uuid.UUID, expected domain.Phase, expectedRound int64, c *domain.Contest) (int64, error) {
	args := m.Called(ctx, id, expected, expectedRound, c)
	return int64(args.Int(0)), args.Error(1)
}

func (m *MockContestRepository) MarkVoided(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return int64(args.Int(0)), args.Error(1)
}

func (m *MockContestRepository) SaveRoundResult(ctx context.Context, r *domain.RoundResult) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockContestRepository) GetRoundResult(ctx context.Context, contestID uuid.UUID, roundID int64) (*domain.RoundResult, error) {
	args := m.Called(ctx, contestID, roundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RoundResult), args.Error(1)
}

// MockSettleTx
type MockSettleTx struct {
	mock.Mock
}

func (m *MockSettleTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSettleTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSettleTx) ApplyWalletDelta(ctx context.Context, userID uuid.UUID, delta decimal.Decimal) (*domain.Wallet, error) {
	args := m.Called(ctx, userID, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockSettleTx) ApplyBonusDelta(ctx context.Context, userID uuid.UUID, delta decimal.Decimal) (*domain.Wallet, error) {
	args := m.Called(ctx, userID, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockSettleTx) CreateMovement(ctx context.Context, movement *domain.Movement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockSettleTx) UpdateWagerStatusIfPending(ctx context.Context, id uuid.UUID, next domain.WagerStatus) (int64, error) {
	args := m.Called(ctx, id, next)
	return int64(args.Int(0)), args.Error(1)
}
