package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementKind classifies a balance change
type MovementKind string

const (
	MovementDeposit       MovementKind = "deposit"
	MovementWithdrawal    MovementKind = "withdrawal"
	MovementWagerStake    MovementKind = "wager_stake"
	MovementWagerPayout   MovementKind = "wager_payout"
	MovementReferralBonus MovementKind = "referral_bonus"
	MovementClickBonus    MovementKind = "click_bonus"
	MovementReversal      MovementKind = "reversal"
)

// MovementStatus is the lifecycle status of a movement
type MovementStatus string

const (
	MovementStatusPending MovementStatus = "pending"
	MovementStatusSuccess MovementStatus = "success"
	MovementStatusFailed  MovementStatus = "failed"
)

// Terminal reports whether the status can no longer change.
func (s MovementStatus) Terminal() bool {
	return s == MovementStatusSuccess || s == MovementStatusFailed
}

// Movement is an append-only record of a single signed balance change.
// For any ExternalRef, at most one movement ever reaches status success;
// that is the idempotency anchor for external reconciliation.
type Movement struct {
	ID            uuid.UUID       `json:"id"`
	WalletID      uuid.UUID       `json:"wallet_id"`
	Kind          MovementKind    `json:"kind"`
	Amount        decimal.Decimal `json:"amount"` // signed; negative for debits
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	ExternalRef   string          `json:"external_ref,omitempty"`
	Status        MovementStatus  `json:"status"`
	Payload       []byte          `json:"-"` // raw gateway payload kept for audit
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
