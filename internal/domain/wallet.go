package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet holds a user's funds. One per user, created at registration,
// never deleted. Balance never goes negative as a result of a ledger
// operation; every mutation is a signed delta applied atomically against
// the current stored balance, never an overwrite of a cached value.
type Wallet struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"user_id"`
	Balance        decimal.Decimal `json:"balance"`
	BonusBalance   decimal.Decimal `json:"bonus_balance"`
	BonusExpiresAt *time.Time      `json:"bonus_expires_at,omitempty"`
	Version        int64           `json:"version"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// User is the minimal account record the engine needs. Authentication and
// profile concerns live with the identity collaborator.
type User struct {
	ID            uuid.UUID `json:"id"`
	Username      string    `json:"username"`
	ReferralCode  string    `json:"referral_code"`
	RewardClaimed bool      `json:"reward_claimed"` // one-way flag for the click-milestone bonus
	CreatedAt     time.Time `json:"created_at"`
}
