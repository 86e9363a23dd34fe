package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReferralStatus is the completion status of a referral link
type ReferralStatus string

const (
	ReferralStatusPending   ReferralStatus = "pending"
	ReferralStatusCompleted ReferralStatus = "completed"
)

// Referral links a referrer to a referred user. Created at
// registration-with-code time; completed at most once, gated on the
// referred user's first qualifying deposit.
type Referral struct {
	ID             uuid.UUID      `json:"id"`
	ReferrerID     uuid.UUID      `json:"referrer_id"`
	ReferredUserID uuid.UUID      `json:"referred_user_id"`
	Code           string         `json:"code"`
	Status         ReferralStatus `json:"status"`
	CompletedAt    *time.Time     `json:"completed_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// ReferralClick records one unique (code, source address) visit.
type ReferralClick struct {
	Code       string    `json:"code"`
	SourceAddr string    `json:"source_addr"`
	CreatedAt  time.Time `json:"created_at"`
}
