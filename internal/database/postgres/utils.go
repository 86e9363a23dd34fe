package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/accrabet/accrabet/internal/domain"
)

// parseDecimal converts a NUMERIC column scanned as text
func parseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid numeric value %q: %w", s, err)
	}
	return d, nil
}

const walletDeltaSQL = `
	UPDATE wallets
	SET balance = balance + $2::numeric, version = version + 1, updated_at = NOW()
	WHERE user_id = $1 AND balance + $2::numeric >= 0
	RETURNING wallet_id, user_id, balance::text, bonus_balance::text, bonus_expires_at, version, updated_at`

const bonusDeltaSQL = `
	UPDATE wallets
	SET bonus_balance = bonus_balance + $2::numeric, version = version + 1, updated_at = NOW()
	WHERE user_id = $1 AND bonus_balance + $2::numeric >= 0
	RETURNING wallet_id, user_id, balance::text, bonus_balance::text, bonus_expires_at, version, updated_at`

// applyDelta runs a conditional signed-delta update against a wallet balance
// column. The balance check happens inside the UPDATE itself so a concurrent
// movement can never drive the balance negative.
func applyDelta(ctx context.Context, q rowQuerier, sql string, userID uuid.UUID, delta decimal.Decimal) (*domain.Wallet, error) {
	w, err := scanWallet(q.QueryRow(ctx, sql, userID, delta.String()))
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to apply wallet delta: %w", err)
	}

	// Distinguish a missing wallet from an insufficient balance
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM wallets WHERE user_id = $1)`, userID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check wallet existence: %w", err)
	}
	if !exists {
		return nil, domain.ErrWalletNotFound
	}
	return nil, domain.ErrInsufficientFunds
}

// rowQuerier is the minimal query surface shared by pools and transactions
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// execQuerier adds Exec for insert/update helpers
type execQuerier interface {
	rowQuerier
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const insertMovementSQL = `
	INSERT INTO movements (movement_id, wallet_id, kind, amount, balance_before, balance_after, external_ref, status, payload)
	VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6::numeric, NULLIF($7, ''), $8, $9)`

func insertMovement(ctx context.Context, q execQuerier, m *domain.Movement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Status == "" {
		m.Status = domain.MovementStatusPending
	}

	_, err := q.Exec(ctx, insertMovementSQL,
		m.ID, m.WalletID, string(m.Kind),
		m.Amount.String(), m.BalanceBefore.String(), m.BalanceAfter.String(),
		m.ExternalRef, string(m.Status), m.Payload)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEvent
		}
		return fmt.Errorf("failed to insert movement: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func scanMovement(row pgx.Row) (*domain.Movement, error) {
	var (
		m                     domain.Movement
		amount, before, after string
		externalRef           *string
	)
	if err := row.Scan(&m.ID, &m.WalletID, &m.Kind, &amount, &before, &after,
		&externalRef, &m.Status, &m.Payload, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	if externalRef != nil {
		m.ExternalRef = *externalRef
	}

	var err error
	if m.Amount, err = parseDecimal(amount); err != nil {
		return nil, err
	}
	if m.BalanceBefore, err = parseDecimal(before); err != nil {
		return nil, err
	}
	if m.BalanceAfter, err = parseDecimal(after); err != nil {
		return nil, err
	}
	return &m, nil
}

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations
const pgUniqueViolation = "23505"

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	var (
		w       domain.Wallet
		balance string
		bonus   string
	)
	if err := row.Scan(&w.ID, &w.UserID, &balance, &bonus, &w.BonusExpiresAt, &w.Version, &w.UpdatedAt); err != nil {
		return nil, err
	}

	var err error
	if w.Balance, err = parseDecimal(balance); err != nil {
		return nil, err
	}
	if w.BonusBalance, err = parseDecimal(bonus); err != nil {
		return nil, err
	}
	return &w, nil
}
