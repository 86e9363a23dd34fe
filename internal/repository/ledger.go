package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/accrabet/accrabet/internal/domain"
)

// Ledger defines data access for wallets and money movements.
// The ledger store is the single point of mutation for monetary state;
// no caller caches a balance across a blocking boundary before mutating it.
type Ledger interface {
	GetWallet(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error)
	ListMovements(ctx context.Context, walletID uuid.UUID, limit int) ([]domain.Movement, error)

	// CreateMovement appends a movement outside a transaction (deposit
	// initiation records a pending movement before the gateway round trip).
	CreateMovement(ctx context.Context, m *domain.Movement) error

	// GetMovementByExternalRef looks up the movement correlated with a
	// gateway reference. Returns nil, nil when no such movement exists.
	GetMovementByExternalRef(ctx context.Context, externalRef string) (*domain.Movement, error)

	// BeginReconcileTx starts the transaction wrapping one external event.
	BeginReconcileTx(ctx context.Context) (ReconcileTx, error)
}

// ReconcileTx wraps the indivisible application of one external payment
// event: the movement's own pending->terminal transition acts as the lock;
// only the caller that wins it proceeds to the wallet credit and the
// referral cascade.
type ReconcileTx interface {
	LedgerTx

	// UpdateMovementStatusIfMatches performs a compare-and-swap on movement
	// status, storing the raw gateway payload for audit. Returns rows
	// affected (0 if the status didn't match).
	UpdateMovementStatusIfMatches(ctx context.Context, id uuid.UUID, expected, next domain.MovementStatus, payload []byte) (int64, error)

	// GetPendingReferralByReferred returns the pending referral naming the
	// user as referred, or nil, nil when none exists.
	GetPendingReferralByReferred(ctx context.Context, userID uuid.UUID) (*domain.Referral, error)

	// CompleteReferralIfPending is the pending->completed compare-and-swap.
	CompleteReferralIfPending(ctx context.Context, id uuid.UUID) (int64, error)

	// SetMovementBalances stamps the balance surrounding a movement once the
	// credit lands. Initiation records 0/0 because the balance is unknown
	// until confirmation wins the status compare-and-swap.
	SetMovementBalances(ctx context.Context, id uuid.UUID, before, after decimal.Decimal) error

	// GetWalletByID reads a wallet by its own id. Movements reference
	// wallets, not users, so reconciliation resolves the owner this way.
	GetWalletByID(ctx context.Context, walletID uuid.UUID) (*domain.Wallet, error)

	// SetBonusExpiry stamps the validity window of a bonus-balance credit.
	SetBonusExpiry(ctx context.Context, userID uuid.UUID, expiresAt time.Time) error
}
