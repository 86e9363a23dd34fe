package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/accrabet/accrabet/internal/domain"
)

// Wager defines data access for wager placement and settlement
type Wager interface {
	GetWager(ctx context.Context, id uuid.UUID) (*domain.Wager, error)

	// GetWagerByIdempotencyKey returns a previously accepted wager for the
	// same (owner, token) pair, or nil, nil when the submission is new.
	GetWagerByIdempotencyKey(ctx context.Context, ownerID uuid.UUID, key string) (*domain.Wager, error)

	// ListPendingByRound returns all pending wagers with at least one
	// selection against the given contest round.
	ListPendingByRound(ctx context.Context, contestID uuid.UUID, roundID int64) ([]domain.Wager, error)

	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]domain.Wager, error)

	// BeginPlaceTx starts the transaction that makes stake deduction,
	// stake movement and wager creation a single atomic unit.
	BeginPlaceTx(ctx context.Context) (PlaceTx, error)

	// BeginSettleTx starts a per-wager settlement transaction.
	BeginSettleTx(ctx context.Context) (SettleTx, error)
}

// PlaceTx is the admission transaction: a crash between the debit and the
// wager insert must not leave a debited wallet with no wager.
type PlaceTx interface {
	LedgerTx

	CreateWager(ctx context.Context, w *domain.Wager) error
}

// SettleTx is the settlement transaction for a single wager
type SettleTx interface {
	LedgerTx

	// UpdateWagerStatusIfPending performs the pending->terminal
	// compare-and-swap. Zero rows affected means another run already
	// settled the wager; callers treat that as success-already-done.
	UpdateWagerStatusIfPending(ctx context.Context, id uuid.UUID, next domain.WagerStatus) (int64, error)
}
