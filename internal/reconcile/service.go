package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/shopspring/decimal"

	"github.com/accrabet/accrabet/internal/domain"
	"github.com/accrabet/accrabet/internal/event"
	"github.com/accrabet/accrabet/internal/logger"
	"github.com/accrabet/accrabet/internal/metrics"
	"github.com/accrabet/accrabet/internal/repository"
)

// Service defines the interface for external event reconciliation
type Service interface {
	// InitiateDeposit records a pending movement correlated with a gateway
	// reference before the payment round trip starts.
	InitiateDeposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, externalRef string) (*domain.Movement, error)

	// ConfirmDeposit applies one external payment event. Safe to call any
	// number of times with the same reference; only the first success
	// report moves money.
	ConfirmDeposit(ctx context.Context, externalRef, reportedStatus string, payload []byte) error

	// RecordClick counts one referral link visit, at most once per
	// (code, source address) pair. The Nth unique click issues the
	// time-limited click-milestone bonus to the code's owner exactly once.
	RecordClick(ctx context.Context, code, sourceAddr string) error
}

// Params are the referral program knobs, loaded from configuration
type Params struct {
	DepositThreshold decimal.Decimal
	ReferralBonus    decimal.Decimal
	ClickTarget      int
	ClickBonus       decimal.Decimal
	ClickBonusTTL    time.Duration
}

type service struct {
	ledger    repository.Ledger
	referrals repository.Referral
	eventBus  event.Bus
	params    Params
	clicks    *lru.Cache[string, struct{}]
	now       func() time.Time
}

// NewService creates a new reconciliation service
func NewService(ledger repository.Ledger, referrals repository.Referral, eventBus event.Bus, params Params) (Service, error) {
	clicks, err := lru.New[string, struct{}](ClickCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create click cache: %w", err)
	}
	return &service{
		ledger:    ledger,
		referrals: referrals,
		eventBus:  eventBus,
		params:    params,
		clicks:    clicks,
		now:       time.Now,
	}, nil
}

func (s *service) InitiateDeposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, externalRef string) (*domain.Movement, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: deposit amount must be positive", domain.ErrInvalidInput)
	}
	if externalRef == "" {
		return nil, fmt.Errorf("%w: external reference is required", domain.ErrInvalidInput)
	}

	wallet, err := s.ledger.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	m := &domain.Movement{
		ID:          uuid.New(),
		WalletID:    wallet.ID,
		Kind:        domain.MovementDeposit,
		Amount:      amount,
		ExternalRef: externalRef,
		Status:      domain.MovementStatusPending,
	}
	if err := s.ledger.CreateMovement(ctx, m); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Deposit initiated",
		"movement_id", m.ID, "user_id", userID, "amount", amount, "external_ref", externalRef)
	return m, nil
}

func (s *service) ConfirmDeposit(ctx context.Context, externalRef, reportedStatus string, payload []byte) error {
	log := logger.FromContext(ctx)

	m, err := s.ledger.GetMovementByExternalRef(ctx, externalRef)
	if err != nil {
		return err
	}
	if m == nil {
		metrics.DepositsReconciled.WithLabelValues(OutcomeUnknownRef).Inc()
		log.Warn(LogMsgDepositUnknownRef, "external_ref", externalRef, "reported_status", reportedStatus)
		return fmt.Errorf("%w: %s", domain.ErrUnknownReference, externalRef)
	}
	if m.Status.Terminal() {
		metrics.DepositsReconciled.WithLabelValues(OutcomeDuplicate).Inc()
		metrics.DuplicateEvents.WithLabelValues("payment").Inc()
		log.Info(LogMsgDepositDuplicate, "external_ref", externalRef, "status", m.Status)
		return fmt.Errorf("%w: %s", domain.ErrDuplicateEvent, externalRef)
	}

	status := NormalizeStatus(reportedStatus)
	if status == StatusIndeterminate {
		// Not a final status. The movement stays pending until the gateway
		// reports a terminal one.
		metrics.DepositsReconciled.WithLabelValues(OutcomeIgnored).Inc()
		log.Warn(LogMsgDepositIndeterminate, "external_ref", externalRef, "reported_status", reportedStatus)
		return nil
	}

	tx, err := s.ledger.BeginReconcileTx(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	next := domain.MovementStatusSuccess
	if status == StatusFailed {
		next = domain.MovementStatusFailed
	}

	// The status flip is the lock: exactly one event wins it per reference
	rows, err := tx.UpdateMovementStatusIfMatches(ctx, m.ID, domain.MovementStatusPending, next, payload)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToCASMove, err)
	}
	if rows == 0 {
		metrics.DepositsReconciled.WithLabelValues(OutcomeDuplicate).Inc()
		metrics.DuplicateEvents.WithLabelValues("payment").Inc()
		return fmt.Errorf("%w: %s", domain.ErrDuplicateEvent, externalRef)
	}

	if status == StatusFailed {
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToCommit, err)
		}
		metrics.DepositsReconciled.WithLabelValues(OutcomeFailed).Inc()
		log.Info(LogMsgDepositFailed, "external_ref", externalRef, "movement_id", m.ID)
		return nil
	}

	wallet, err := tx.GetWalletByID(ctx, m.WalletID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToCredit, err)
	}
	wallet, err = tx.ApplyWalletDelta(ctx, wallet.UserID, m.Amount)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToCredit, err)
	}

	// Initiation wrote 0/0 because the balance was unknown then. Stamp the
	// real before/after now that the credit landed in the same transaction.
	if err := tx.SetMovementBalances(ctx, m.ID, wallet.Balance.Sub(m.Amount), wallet.Balance); err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToCredit, err)
	}

	completedReferral, err := s.applyReferralCascade(ctx, tx, wallet.UserID, m.Amount)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToCascade, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToCommit, err)
	}

	metrics.DepositsReconciled.WithLabelValues(OutcomeSuccess).Inc()
	log.Info(LogMsgDepositConfirmed,
		"external_ref", externalRef, "movement_id", m.ID,
		"user_id", wallet.UserID, "amount", m.Amount, "new_balance", wallet.Balance)

	if err := s.eventBus.Publish(ctx, event.NewDepositConfirmedEvent(wallet.ID, externalRef, m.Amount, wallet.Balance)); err != nil {
		log.Error("Failed to publish deposit confirmed event", "error", err, "external_ref", externalRef)
	}
	if completedReferral != nil {
		metrics.ReferralsCompleted.Inc()
		log.Info(LogMsgReferralCompleted,
			"referral_id", completedReferral.ID, "referrer_id", completedReferral.ReferrerID,
			"bonus", s.params.ReferralBonus)
		evt := event.NewReferralCompletedEvent(completedReferral.ID, completedReferral.ReferrerID, s.params.ReferralBonus)
		if err := s.eventBus.Publish(ctx, evt); err != nil {
			log.Error("Failed to publish referral completed event", "error", err, "referral_id", completedReferral.ID)
		}
	}
	return nil
}

// applyReferralCascade completes a pending referral on the referred user's
// first qualifying deposit and credits the referrer, all inside the caller's
// transaction
func (s *service) applyReferralCascade(ctx context.Context, tx repository.ReconcileTx, userID uuid.UUID, amount decimal.Decimal) (*domain.Referral, error) {
	if amount.LessThan(s.params.DepositThreshold) {
		return nil, nil
	}

	ref, err := tx.GetPendingReferralByReferred(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, nil
	}

	rows, err := tx.CompleteReferralIfPending(ctx, ref.ID)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, nil
	}

	wallet, err := tx.ApplyWalletDelta(ctx, ref.ReferrerID, s.params.ReferralBonus)
	if err != nil {
		return nil, err
	}

	movement := &domain.Movement{
		WalletID:      wallet.ID,
		Kind:          domain.MovementReferralBonus,
		Amount:        s.params.ReferralBonus,
		BalanceBefore: wallet.Balance.Sub(s.params.ReferralBonus),
		BalanceAfter:  wallet.Balance,
		Status:        domain.MovementStatusSuccess,
	}
	if err := tx.CreateMovement(ctx, movement); err != nil {
		return nil, err
	}
	return ref, nil
}

func (s *service) RecordClick(ctx context.Context, code, sourceAddr string) error {
	log := logger.FromContext(ctx)

	cacheKey := code + "|" + sourceAddr
	if s.clicks.Contains(cacheKey) {
		metrics.DuplicateEvents.WithLabelValues("click").Inc()
		return nil
	}

	user, err := s.referrals.GetUserByReferralCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return fmt.Errorf("%w: referral code %s", domain.ErrUnknownReference, code)
		}
		return err
	}

	inserted, total, err := s.referrals.RecordClick(ctx, code, sourceAddr)
	if err != nil {
		return err
	}
	s.clicks.Add(cacheKey, struct{}{})

	if !inserted {
		metrics.DuplicateEvents.WithLabelValues("click").Inc()
		return nil
	}

	metrics.ReferralClicks.Inc()
	log.Info(LogMsgClickRecorded, "code", code, "total", total)

	if total < int64(s.params.ClickTarget) || user.RewardClaimed {
		return nil
	}

	// One-way flag: only the caller that flips it issues the bonus
	rows, err := s.referrals.ClaimClickReward(ctx, user.ID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return nil
	}

	tx, err := s.ledger.BeginReconcileTx(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	wallet, err := tx.ApplyBonusDelta(ctx, user.ID, s.params.ClickBonus)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToCredit, err)
	}
	expiresAt := s.now().Add(s.params.ClickBonusTTL)
	if err := tx.SetBonusExpiry(ctx, user.ID, expiresAt); err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToCredit, err)
	}

	// Before/after track the bonus balance here, not the main one
	movement := &domain.Movement{
		WalletID:      wallet.ID,
		Kind:          domain.MovementClickBonus,
		Amount:        s.params.ClickBonus,
		BalanceBefore: wallet.BonusBalance.Sub(s.params.ClickBonus),
		BalanceAfter:  wallet.BonusBalance,
		Status:        domain.MovementStatusSuccess,
	}
	if err := tx.CreateMovement(ctx, movement); err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToCredit, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToCommit, err)
	}

	log.Info(LogMsgClickMilestone,
		"code", code, "referrer_id", user.ID,
		"bonus", s.params.ClickBonus, "expires_at", expiresAt)
	return nil
}
