package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/accrabet/accrabet/internal/domain"
	"github.com/accrabet/accrabet/internal/repository"
)

const getWalletSQL = `
	SELECT wallet_id, user_id, balance::text, bonus_balance::text, bonus_expires_at, version, updated_at
	FROM wallets
	WHERE user_id = $1`

const getMovementSQL = `
	SELECT movement_id, wallet_id, kind, amount::text, balance_before::text, balance_after::text,
	       external_ref, status, payload, created_at, updated_at
	FROM movements`

// LedgerRepository implements the ledger repository for PostgreSQL
type LedgerRepository struct {
	db *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// GetWallet retrieves a wallet by user ID
func (r *LedgerRepository) GetWallet(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	w, err := scanWallet(r.db.QueryRow(ctx, getWalletSQL, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return w, nil
}

// ListMovements returns the most recent movements for a wallet
func (r *LedgerRepository) ListMovements(ctx context.Context, walletID uuid.UUID, limit int) ([]domain.Movement, error) {
	query := getMovementSQL + `
	WHERE wallet_id = $1
	ORDER BY created_at DESC
	LIMIT $2`

	rows, err := r.db.Query(ctx, query, walletID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	defer rows.Close()

	var movements []domain.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movement: %w", err)
		}
		movements = append(movements, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate movements: %w", err)
	}
	return movements, nil
}

// CreateMovement appends a movement record outside a transaction
func (r *LedgerRepository) CreateMovement(ctx context.Context, m *domain.Movement) error {
	return insertMovement(ctx, r.db, m)
}

// GetMovementByExternalRef looks up the movement correlated with a gateway
// reference. Returns nil, nil when no such movement exists.
func (r *LedgerRepository) GetMovementByExternalRef(ctx context.Context, externalRef string) (*domain.Movement, error) {
	query := getMovementSQL + `
	WHERE external_ref = $1`

	m, err := scanMovement(r.db.QueryRow(ctx, query, externalRef))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get movement by external ref: %w", err)
	}
	return m, nil
}

// BeginReconcileTx starts the transaction wrapping one external event
func (r *LedgerRepository) BeginReconcileTx(ctx context.Context) (repository.ReconcileTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &reconcileTx{tx: tx}, nil
}

// reconcileTx wraps a pgx transaction with the reconciliation primitives.
// The movement status compare-and-swap is the lock: only the caller that
// flips pending to a terminal status applies the wallet credit.
type reconcileTx struct {
	tx pgx.Tx
}

func (t *reconcileTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *reconcileTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

func (t *reconcileTx) ApplyWalletDelta(ctx context.Context, userID uuid.UUID, delta decimal.Decimal) (*domain.Wallet, error) {
	return applyDelta(ctx, t.tx, walletDeltaSQL, userID, delta)
}

func (t *reconcileTx) ApplyBonusDelta(ctx context.Context, userID uuid.UUID, delta decimal.Decimal) (*domain.Wallet, error) {
	return applyDelta(ctx, t.tx, bonusDeltaSQL, userID, delta)
}

func (t *reconcileTx) CreateMovement(ctx context.Context, m *domain.Movement) error {
	return insertMovement(ctx, t.tx, m)
}

// UpdateMovementStatusIfMatches performs a compare-and-swap on movement
// status, storing the raw gateway payload for audit
func (t *reconcileTx) UpdateMovementStatusIfMatches(ctx context.Context, id uuid.UUID, expected, next domain.MovementStatus, payload []byte) (int64, error) {
	query := `
		UPDATE movements
		SET status = $3, payload = COALESCE($4, payload), updated_at = NOW()
		WHERE movement_id = $1 AND status = $2`

	tag, err := t.tx.Exec(ctx, query, id, string(expected), string(next), payload)
	if err != nil {
		return 0, fmt.Errorf("failed to update movement status: %w", err)
	}
	return tag.RowsAffected(), nil
}

// GetPendingReferralByReferred returns the pending referral naming the user
// as referred, or nil, nil when none exists
func (t *reconcileTx) GetPendingReferralByReferred(ctx context.Context, userID uuid.UUID) (*domain.Referral, error) {
	query := `
		SELECT referral_id, referrer_id, referred_user_id, code, status, completed_at, created_at
		FROM referrals
		WHERE referred_user_id = $1 AND status = $2`

	var ref domain.Referral
	err := t.tx.QueryRow(ctx, query, userID, string(domain.ReferralStatusPending)).Scan(
		&ref.ID, &ref.ReferrerID, &ref.ReferredUserID, &ref.Code, &ref.Status, &ref.CompletedAt, &ref.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pending referral: %w", err)
	}
	return &ref, nil
}

// CompleteReferralIfPending is the pending->completed compare-and-swap
func (t *reconcileTx) CompleteReferralIfPending(ctx context.Context, id uuid.UUID) (int64, error) {
	query := `
		UPDATE referrals
		SET status = $2, completed_at = NOW()
		WHERE referral_id = $1 AND status = $3`

	tag, err := t.tx.Exec(ctx, query, id, string(domain.ReferralStatusCompleted), string(domain.ReferralStatusPending))
	if err != nil {
		return 0, fmt.Errorf("failed to complete referral: %w", err)
	}
	return tag.RowsAffected(), nil
}

// SetMovementBalances stamps the balance surrounding a settled movement
func (t *reconcileTx) SetMovementBalances(ctx context.Context, id uuid.UUID, before, after decimal.Decimal) error {
	query := `
		UPDATE movements
		SET balance_before = $2::numeric, balance_after = $3::numeric, updated_at = NOW()
		WHERE movement_id = $1`

	_, err := t.tx.Exec(ctx, query, id, before.String(), after.String())
	if err != nil {
		return fmt.Errorf("failed to set movement balances: %w", err)
	}
	return nil
}

// GetWalletByID reads a wallet by its primary key
func (t *reconcileTx) GetWalletByID(ctx context.Context, walletID uuid.UUID) (*domain.Wallet, error) {
	query := `
		SELECT wallet_id, user_id, balance::text, bonus_balance::text, bonus_expires_at, version, updated_at
		FROM wallets
		WHERE wallet_id = $1`

	w, err := scanWallet(t.tx.QueryRow(ctx, query, walletID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet by id: %w", err)
	}
	return w, nil
}

// SetBonusExpiry stamps the bonus-balance validity window
func (t *reconcileTx) SetBonusExpiry(ctx context.Context, userID uuid.UUID, expiresAt time.Time) error {
	query := `
		UPDATE wallets
		SET bonus_expires_at = $2, updated_at = NOW()
		WHERE user_id = $1`

	_, err := t.tx.Exec(ctx, query, userID, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to set bonus expiry: %w", err)
	}
	return nil
}
