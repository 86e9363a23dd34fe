package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/accrabet/accrabet/internal/domain"
)

const getUserSQL = `
	SELECT user_id, username, referral_code, reward_claimed, created_at
	FROM users`

// ReferralRepository implements the referral repository for PostgreSQL
type ReferralRepository struct {
	db *pgxpool.Pool
}

// NewReferralRepository creates a new ReferralRepository
func NewReferralRepository(db *pgxpool.Pool) *ReferralRepository {
	return &ReferralRepository{db: db}
}

// RecordClick inserts a (code, source address) pair if unseen and returns
// whether it was inserted plus the total unique clicks for the code
func (r *ReferralRepository) RecordClick(ctx context.Context, code, sourceAddr string) (bool, int64, error) {
	insertQuery := `
		INSERT INTO referral_clicks (code, source_addr)
		VALUES ($1, $2)
		ON CONFLICT (code, source_addr) DO NOTHING`

	tag, err := r.db.Exec(ctx, insertQuery, code, sourceAddr)
	if err != nil {
		return false, 0, fmt.Errorf("failed to record referral click: %w", err)
	}
	inserted := tag.RowsAffected() > 0

	var total int64
	countQuery := `SELECT COUNT(*) FROM referral_clicks WHERE code = $1`
	if err := r.db.QueryRow(ctx, countQuery, code).Scan(&total); err != nil {
		return inserted, 0, fmt.Errorf("failed to count referral clicks: %w", err)
	}
	return inserted, total, nil
}

// ClaimClickReward flips the referrer's one-way reward flag
func (r *ReferralRepository) ClaimClickReward(ctx context.Context, referrerID uuid.UUID) (int64, error) {
	query := `
		UPDATE users
		SET reward_claimed = TRUE
		WHERE user_id = $1 AND reward_claimed = FALSE`

	tag, err := r.db.Exec(ctx, query, referrerID)
	if err != nil {
		return 0, fmt.Errorf("failed to claim click reward: %w", err)
	}
	return tag.RowsAffected(), nil
}

// GetUserByReferralCode retrieves a user by their referral code
func (r *ReferralRepository) GetUserByReferralCode(ctx context.Context, code string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, getUserSQL+` WHERE referral_code = $1`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by referral code: %w", err)
	}
	return u, nil
}

// UserRepository implements the user repository for PostgreSQL
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts the user and their wallet in one transaction. When
// referredBy is non-empty a pending referral is recorded against the owner
// of that code.
func (r *UserRepository) CreateUser(ctx context.Context, u *domain.User, referredBy string) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	userQuery := `
		INSERT INTO users (user_id, username, referral_code)
		VALUES ($1, $2, $3)`
	if _, err := tx.Exec(ctx, userQuery, u.ID, u.Username, u.ReferralCode); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	walletQuery := `
		INSERT INTO wallets (user_id)
		VALUES ($1)`
	if _, err := tx.Exec(ctx, walletQuery, u.ID); err != nil {
		return fmt.Errorf("failed to insert wallet: %w", err)
	}

	if referredBy != "" {
		var referrerID uuid.UUID
		err := tx.QueryRow(ctx, `SELECT user_id FROM users WHERE referral_code = $1`, referredBy).Scan(&referrerID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrUnknownReference
			}
			return fmt.Errorf("failed to resolve referral code: %w", err)
		}
		if referrerID == u.ID {
			return domain.ErrSelfReferral
		}

		referralQuery := `
			INSERT INTO referrals (referral_id, referrer_id, referred_user_id, code, status)
			VALUES ($1, $2, $3, $4, $5)`
		_, err = tx.Exec(ctx, referralQuery,
			uuid.New(), referrerID, u.ID, referredBy, string(domain.ReferralStatusPending))
		if err != nil {
			return fmt.Errorf("failed to insert referral: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// GetUser retrieves a user by ID
func (r *UserRepository) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, getUserSQL+` WHERE user_id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.ReferralCode, &u.RewardClaimed, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
