package wager

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/accrabet/accrabet/internal/domain"
	"github.com/accrabet/accrabet/internal/event"
	"github.com/accrabet/accrabet/internal/logger"
	"github.com/accrabet/accrabet/internal/metrics"
	"github.com/accrabet/accrabet/internal/repository"
)

// Service defines the interface for wager admission
type Service interface {
	// Place admits a wager. Every referenced contest must currently be in
	// phase Open; admission is all-or-nothing across selections. On success
	// the stake debit, its movement record and the pending wager are
	// committed as one transaction. A repeated idempotency key returns the
	// originally accepted wager.
	Place(ctx context.Context, ownerID uuid.UUID, stake decimal.Decimal, selections []domain.Selection, idemKey string) (*domain.Wager, error)

	Get(ctx context.Context, id uuid.UUID) (*domain.Wager, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]domain.Wager, error)
}

// ContestReader supplies the live phase snapshot admission checks against
type ContestReader interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Contest, time.Duration, error)
}

type service struct {
	repo     repository.Wager
	contests ContestReader
	eventBus event.Bus
}

// NewService creates a new wager admission service
func NewService(repo repository.Wager, contests ContestReader, eventBus event.Bus) Service {
	return &service{
		repo:     repo,
		contests: contests,
		eventBus: eventBus,
	}
}

func (s *service) Place(ctx context.Context, ownerID uuid.UUID, stake decimal.Decimal, selections []domain.Selection, idemKey string) (*domain.Wager, error) {
	log := logger.FromContext(ctx)

	if err := validateInput(stake, selections); err != nil {
		metrics.WagersRejected.WithLabelValues(RejectReasonInvalidInput).Inc()
		return nil, err
	}

	if idemKey != "" {
		existing, err := s.repo.GetWagerByIdempotencyKey(ctx, ownerID, idemKey)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			log.Info(LogMsgDuplicateSubmission, "wager_id", existing.ID, "owner_id", ownerID)
			return existing, nil
		}
	}

	// Phase gate: all selections must reference contests that are Open right
	// now. The check happens before any money moves so a rejection leaves no
	// partial state.
	stamped := make([]domain.Selection, len(selections))
	for i, sel := range selections {
		c, _, err := s.contests.Get(ctx, sel.ContestID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrContextFailedToCheckContest, err)
		}
		if c.Voided || c.Phase != domain.PhaseOpen {
			metrics.WagersRejected.WithLabelValues(RejectReasonPhaseClosed).Inc()
			log.Info(LogMsgWagerRejected, "owner_id", ownerID, "contest_id", sel.ContestID, "phase", c.Phase)
			return nil, fmt.Errorf("%w: contest %s is %s", domain.ErrPhaseClosed, sel.ContestID, c.Phase)
		}
		stamped[i] = sel
		stamped[i].RoundID = c.RoundID
	}

	w := &domain.Wager{
		ID:             uuid.New(),
		OwnerID:        ownerID,
		Stake:          stake,
		Selections:     stamped,
		Status:         domain.WagerStatusPending,
		IdempotencyKey: idemKey,
	}
	w.PotentialPayout = stake.Mul(w.CombinedOdds())

	tx, err := s.repo.BeginPlaceTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	wallet, err := tx.ApplyWalletDelta(ctx, ownerID, stake.Neg())
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientFunds) {
			metrics.WagersRejected.WithLabelValues(RejectReasonInsufficientFunds).Inc()
			log.Info(LogMsgWagerRejected, "owner_id", ownerID, "reason", RejectReasonInsufficientFunds)
		}
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToDebitStake, err)
	}

	movement := &domain.Movement{
		WalletID:      wallet.ID,
		Kind:          domain.MovementWagerStake,
		Amount:        stake.Neg(),
		BalanceBefore: wallet.Balance.Add(stake),
		BalanceAfter:  wallet.Balance,
		Status:        domain.MovementStatusSuccess,
	}
	if err := tx.CreateMovement(ctx, movement); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToRecordStake, err)
	}

	if err := tx.CreateWager(ctx, w); err != nil {
		if errors.Is(err, domain.ErrDuplicateWager) && idemKey != "" {
			// Lost a race against the same idempotency key. The original
			// submission's state stands.
			repository.SafeRollback(ctx, tx)
			existing, lookupErr := s.repo.GetWagerByIdempotencyKey(ctx, ownerID, idemKey)
			if lookupErr == nil && existing != nil {
				log.Info(LogMsgDuplicateSubmission, "wager_id", existing.ID, "owner_id", ownerID)
				return existing, nil
			}
		}
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToCreateWager, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToCommit, err)
	}

	metrics.WagersPlaced.Inc()
	log.Info(LogMsgWagerPlaced,
		"wager_id", w.ID, "owner_id", ownerID,
		"stake", stake, "potential_payout", w.PotentialPayout,
		"selections", len(w.Selections))

	if err := s.eventBus.Publish(ctx, event.NewWagerPlacedEvent(w)); err != nil {
		log.Error("Failed to publish wager placed event", "error", err, "wager_id", w.ID)
	}
	return w, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*domain.Wager, error) {
	return s.repo.GetWager(ctx, id)
}

func (s *service) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]domain.Wager, error) {
	return s.repo.ListByOwner(ctx, ownerID, limit)
}

func validateInput(stake decimal.Decimal, selections []domain.Selection) error {
	if !stake.IsPositive() {
		return domain.ErrStakeNotPositive
	}
	if len(selections) == 0 {
		return domain.ErrNoSelections
	}
	if len(selections) > MaxSelections {
		return fmt.Errorf("%w: at most %d selections", domain.ErrInvalidInput, MaxSelections)
	}

	// One pick per market per contest; contradictory legs make the parlay
	// unwinnable.
	seen := make(map[string]struct{}, len(selections))
	for _, sel := range selections {
		if sel.ContestID == uuid.Nil || sel.MarketID == "" || sel.OutcomeID == "" {
			return fmt.Errorf("%w: selection missing contest, market or outcome", domain.ErrInvalidInput)
		}
		if sel.Odds.LessThanOrEqual(decimal.NewFromInt(1)) {
			return fmt.Errorf("%w: odds must exceed 1", domain.ErrInvalidInput)
		}
		key := sel.ContestID.String() + "/" + sel.MarketID
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: duplicate market %s", domain.ErrInvalidInput, sel.MarketID)
		}
		seen[key] = struct{}{}
	}
	return nil
}
