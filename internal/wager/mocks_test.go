package wager

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/accrabet/accrabet/internal/domain"
	"github.com/accrabet/accrabet/internal/repository"
)

// MockRepository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetWager(ctx context.Context, id uuid.UUID) (*domain.Wager, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wager), args.Error(1)
}

func (m *MockRepository) GetWagerByIdempotencyKey(ctx context.Context, ownerID uuid.UUID, key string) (*domain.Wager, error) {
	args := m.Called(ctx, ownerID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wager), args.Error(1)
}

func (m *MockRepository) ListPendingByRound(ctx context.Context, contestID uuid.UUID, roundID int64) ([]domain.Wager, error) {
	args := m.Called(ctx, contestID, roundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Wager), args.Error(1)
}

func (m *MockRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]domain.Wager, error) {
	args := m.Called(ctx, ownerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Wager), args.Error(1)
}

func (m *MockRepository) BeginPlaceTx(ctx context.Context) (repository.PlaceTx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.PlaceTx), args.Error(1)
}

func (m *MockRepository) BeginSettleTx(ctx context.Context) (repository.SettleTx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.SettleTx), args.Error(1)
}

// MockPlaceTx
type MockPlaceTx struct {
	mock.Mock
}

func (m *MockPlaceTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPlaceTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPlaceTx) ApplyWalletDelta(ctx context.Context, userID uuid.UUID, delta decimal.Decimal) (*domain.Wallet, error) {
	args := m.Called(ctx, userID, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockPlaceTx) ApplyBonusDelta(ctx context.Context, userID uuid.UUID, delta decimal.Decimal) (*domain.Wallet, error) {
	args := m.Called(ctx, userID, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockPlaceTx) CreateMovement(ctx context.Context, movement *domain.Movement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockPlaceTx) CreateWager(ctx context.Context, w *domain.Wager) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

// MockContestReader
type MockContestReader struct {
	mock.Mock
}

func (m *MockContestReader) Get(ctx context.Context, id uuid.UUID) (*domain.Contest, time.Duration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(*domain.Contest), args.Get(1).(time.Duration), args.Error(2)
}
