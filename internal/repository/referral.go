package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/accrabet/accrabet/internal/domain"
)

// Referral defines data access for referral links and click tracking.
// Referral rows themselves are created inside User.CreateUser (registration
// is the only producer) and completed inside the reconcile transaction.
type Referral interface {
	// RecordClick inserts a (code, source address) pair if unseen and
	// returns whether it was inserted plus the total unique clicks for the
	// code. A duplicate address is not an error.
	RecordClick(ctx context.Context, code, sourceAddr string) (inserted bool, total int64, err error)

	// ClaimClickReward flips the referrer's one-way reward flag. Returns
	// rows affected: 0 means the reward was already claimed.
	ClaimClickReward(ctx context.Context, referrerID uuid.UUID) (int64, error)

	GetUserByReferralCode(ctx context.Context, code string) (*domain.User, error)
}

// User defines data access for account registration
type User interface {
	// CreateUser inserts the user and their wallet in one transaction; when
	// referredBy is non-empty a pending referral is recorded against the
	// owner of that code.
	CreateUser(ctx context.Context, u *domain.User, referredBy string) error

	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
}
