package reconcile

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/accrabet/accrabet/internal/domain"
	"github.com/accrabet/accrabet/internal/repository"
)

// MockLedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) GetWallet(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockLedgerRepository) ListMovements(ctx context.Context, walletID uuid.UUID, limit int) ([]domain.Movement, error) {
	args := m.Called(ctx, walletID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Movement), args.Error(1)
}

func (m *MockLedgerRepository) CreateMovement(ctx context.Context, movement *domain.Movement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockLedgerRepository) GetMovementByExternalRef(ctx context.Context, externalRef string) (*domain.Movement, error) {
	args := m.Called(ctx, externalRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Movement), args.Error(1)
}

func (m *MockLedgerRepository) BeginReconcileTx(ctx context.Context) (repository.ReconcileTx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.ReconcileTx), args.Error(1)
}

// MockReconcileTx
type MockReconcileTx struct {
	mock.Mock
}

func (m *MockReconcileTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockReconcileTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockReconcileTx) ApplyWalletDelta(ctx context.Context, userID uuid.UUID, delta decimal.Decimal) (*domain.Wallet, error) {
	args := m.Called(ctx, userID, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockReconcileTx) ApplyBonusDelta(ctx context.Context, userID uuid.UUID, delta decimal.Decimal) (*domain.Wallet, error) {
	args := m.Called(ctx, userID, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockReconcileTx) CreateMovement(ctx context.Context, movement *domain.Movement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockReconcileTx) UpdateMovementStatusIfMatches(ctx context.Context, id uuid.UUID, expected, next domain.MovementStatus, payload []byte) (int64, error) {
	args := m.Called(ctx, id, expected, next, payload)
	return int64(args.Int(0)), args.Error(1)
}

func (m *MockReconcileTx) GetPendingReferralByReferred(ctx context.Context, userID uuid.UUID) (*domain.Referral, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Referral), args.Error(1)
}

func (m *MockReconcileTx) CompleteReferralIfPending(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return int64(args.Int(0)), args.Error(1)
}

func (m *MockReconcileTx) SetMovementBalances(ctx context.Context, id uuid.UUID, before, after decimal.Decimal) error {
	args := m.Called(ctx, id, before, after)
	return args.Error(0)
}

func (m *MockReconcileTx) GetWalletByID(ctx context.Context, walletID uuid.UUID) (*domain.Wallet, error) {
	args := m.Called(ctx, walletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockReconcileTx) SetBonusExpiry(ctx context.Context, userID uuid.UUID, expiresAt time.Time) error {
	args := m.Called(ctx, userID, expiresAt)
	return args.Error(0)
}

// MockReferralRepository
type MockReferralRepository struct {
	mock.Mock
}

func (m *MockReferralRepository) RecordClick(ctx context.Context, code, sourceAddr string) (bool, int64, error) {
	args := m.Called(ctx, code, sourceAddr)
	return args.Bool(0), int64(args.Int(1)), args.Error(2)
}

func (m *MockReferralRepository) ClaimClickReward(ctx context.Context, referrerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, referrerID)
	return int64(args.Int(0)), args.Error(1)
}

func (m *MockReferralRepository) GetUserByReferralCode(ctx context.Context, code string) (*domain.User, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
