package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/accrabet/accrabet/internal/domain"
)

// Tx is the base interface for transactional operations
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// LedgerTx groups the conditional ledger primitives shared by admission,
// settlement and reconciliation transactions. Every monetary mutation goes
// through ApplyWalletDelta: a signed delta applied atomically against the
// stored balance, rejected when it would drive the balance negative.
type LedgerTx interface {
	Tx

	// ApplyWalletDelta applies a signed delta to the wallet's main balance and
	// returns the wallet as stored after the update. Returns
	// domain.ErrInsufficientFunds when the delta would make the balance
	// negative, domain.ErrWalletNotFound when no wallet exists for the user.
	ApplyWalletDelta(ctx context.Context, userID uuid.UUID, delta decimal.Decimal) (*domain.Wallet, error)

	// ApplyBonusDelta is ApplyWalletDelta for the restricted bonus balance.
	ApplyBonusDelta(ctx context.Context, userID uuid.UUID, delta decimal.Decimal) (*domain.Wallet, error)

	// CreateMovement appends a movement record.
	CreateMovement(ctx context.Context, m *domain.Movement) error
}
