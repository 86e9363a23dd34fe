package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/accrabet/accrabet/internal/domain"
)

// MockWagerService is a mock implementation of wager.Service
type MockWagerService struct {
	mock.Mock
}

func (m *MockWagerService) Place(ctx context.Context, ownerID uuid.UUID, stake decimal.Decimal, selections []domain.Selection, idemKey string) (*domain.Wager, error) {
	args := m.Called(ctx, ownerID, stake, selections, idemKey)
	if w := args.Get(0); w != nil {
		return w.(*domain.Wager), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockWagerService) Get(ctx context.Context, id uuid.UUID) (*domain.Wager, error) {
	args := m.Called(ctx, id)
	if w := args.Get(0); w != nil {
		return w.(*domain.Wager), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockWagerService) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]domain.Wager, error) {
	args := m.Called(ctx, ownerID, limit)
	if w := args.Get(0); w != nil {
		return w.([]domain.Wager), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockReconcileService is a mock implementation of reconcile.Service
type MockReconcileService struct {
	mock.Mock
}

func (m *MockReconcileService) InitiateDeposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, externalRef string) (*domain.Movement, error) {
	args := m.Called(ctx, userID, amount, externalRef)
	if mv := args.Get(0); mv != nil {
		return mv.(*domain.Movement), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReconcileService) ConfirmDeposit(ctx context.Context, externalRef, reportedStatus string, payload []byte) error {
	args := m.Called(ctx, externalRef, reportedStatus, payload)
	return args.Error(0)
}

func (m *MockReconcileService) RecordClick(ctx context.Context, code, sourceAddr string) error {
	args := m.Called(ctx, code, sourceAddr)
	return args.Error(0)
}

// MockContestService is a mock implementation of contest.Service
type MockContestService struct {
	mock.Mock
}

func (m *MockContestService) Create(ctx context.Context, templateID string, seed int64) (*domain.Contest, error) {
	args := m.Called(ctx, templateID, seed)
	if c := args.Get(0); c != nil {
		return c.(*domain.Contest), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockContestService) Get(ctx context.Context, id uuid.UUID) (*domain.Contest, time.Duration, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*domain.Contest), args.Get(1).(time.Duration), args.Error(2)
	}
	return nil, 0, args.Error(2)
}

func (m *MockContestService) Tick(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockContestService) Recover(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockContestService) Void(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockContestService) ActiveContests(ctx context.Context) ([]domain.Contest, error) {
	args := m.Called(ctx)
	if c := args.Get(0); c != nil {
		return c.([]domain.Contest), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockWalletReader is a mock implementation of WalletReader
type MockWalletReader struct {
	mock.Mock
}

func (m *MockWalletReader) GetWallet(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	args := m.Called(ctx, userID)
	if w := args.Get(0); w != nil {
		return w.(*domain.Wallet), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockWalletReader) ListMovements(ctx context.Context, walletID uuid.UUID, limit int) ([]domain.Movement, error) {
	args := m.Called(ctx, walletID, limit)
	if mv := args.Get(0); mv != nil {
		return mv.([]domain.Movement), args.Error(1)
	}
	return nil, args.Error(1)
}
