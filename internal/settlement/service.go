package settlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/accrabet/accrabet/internal/domain"
	"github.com/accrabet/accrabet/internal/event"
	"github.com/accrabet/accrabet/internal/logger"
	"github.com/accrabet/accrabet/internal/metrics"
	"github.com/accrabet/accrabet/internal/repository"
)

// Service defines the interface for the settlement engine
type Service interface {
	// SettleContest resolves every pending wager bound to the given round.
	// Each wager settles in its own transaction behind a pending->terminal
	// compare-and-swap, so re-running a completed settlement is a no-op and
	// one failing wager never blocks the rest of the batch.
	SettleContest(ctx context.Context, contestID uuid.UUID, roundID int64) error
}

type service struct {
	wagers   repository.Wager
	contests repository.Contest
	eventBus event.Bus
}

// NewService creates a new settlement service
func NewService(wagers repository.Wager, contests repository.Contest, eventBus event.Bus) Service {
	return &service{
		wagers:   wagers,
		contests: contests,
		eventBus: eventBus,
	}
}

// legResult is the resolution state of one selection
type legResult int

const (
	legUnresolved legResult = iota
	legWon
	legLost
	legVoid
)

func (s *service) SettleContest(ctx context.Context, contestID uuid.UUID, roundID int64) error {
	log := logger.FromContext(ctx)

	contest, err := s.contests.GetContest(ctx, contestID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToLoadRound, err)
	}
	voided := contest.Voided || contest.Phase == domain.PhaseVoid

	if !voided {
		result, err := s.contests.GetRoundResult(ctx, contestID, roundID)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToLoadRound, err)
		}
		if result == nil {
			return fmt.Errorf("%w: contest %s round %d", domain.ErrRoundNotFound, contestID, roundID)
		}
	}

	pending, err := s.wagers.ListPendingByRound(ctx, contestID, roundID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToLoadWagers, err)
	}

	log.Info(LogMsgSettlementStarted,
		"contest_id", contestID, "round_id", roundID, "pending", len(pending), "voided", voided)

	// Round results looked up once per (contest, round) pair across the batch
	resultCache := make(map[string]*domain.RoundResult)
	voidCache := map[uuid.UUID]bool{contestID: voided}

	var settled int
	var errs []error
	for i := range pending {
		w := &pending[i]
		status, resolvable, err := s.evaluate(ctx, w, resultCache, voidCache)
		if err != nil {
			errs = append(errs, err)
			log.Error(LogMsgWagerFailed, "error", err, "wager_id", w.ID)
			continue
		}
		if !resolvable {
			log.Debug(LogMsgWagerUnresolvable, "wager_id", w.ID)
			continue
		}

		if err := s.settleOne(ctx, w, status); err != nil {
			errs = append(errs, err)
			log.Error(LogMsgWagerFailed, "error", err, "wager_id", w.ID, "status", status)
			continue
		}
		settled++
	}

	log.Info(LogMsgSettlementFinished,
		"contest_id", contestID, "round_id", roundID, "settled", settled, "failed", len(errs))
	return errors.Join(errs...)
}

// evaluate applies parlay semantics: any voided leg voids the whole wager
// and refunds the stake, any losing leg loses it, a win requires every leg
// resolved and correct. Every leg is inspected before a lost leg decides
// the wager; a void anywhere in the slip outranks a loss that resolved
// earlier. Unresolved legs in other rounds leave the wager pending for a
// later run.
func (s *service) evaluate(ctx context.Context, w *domain.Wager, results map[string]*domain.RoundResult, voids map[uuid.UUID]bool) (domain.WagerStatus, bool, error) {
	sawLost := false
	sawUnresolved := false
	for _, sel := range w.Selections {
		leg, err := s.resolveLeg(ctx, sel, results, voids)
		if err != nil {
			return "", false, err
		}
		switch leg {
		case legVoid:
			return domain.WagerStatusVoid, true, nil
		case legLost:
			sawLost = true
		case legUnresolved:
			sawUnresolved = true
		}
	}
	if sawLost {
		return domain.WagerStatusLost, true, nil
	}
	if sawUnresolved {
		return "", false, nil
	}
	return domain.WagerStatusWon, true, nil
}

func (s *service) resolveLeg(ctx context.Context, sel domain.Selection, results map[string]*domain.RoundResult, voids map[uuid.UUID]bool) (legResult, error) {
	voided, ok := voids[sel.ContestID]
	if !ok {
		c, err := s.contests.GetContest(ctx, sel.ContestID)
		if err != nil {
			return legUnresolved, fmt.Errorf("%s: %w", ErrContextFailedToLoadRound, err)
		}
		voided = c.Voided || c.Phase == domain.PhaseVoid
		voids[sel.ContestID] = voided
	}
	if voided {
		return legVoid, nil
	}

	key := fmt.Sprintf("%s/%d", sel.ContestID, sel.RoundID)
	result, ok := results[key]
	if !ok {
		var err error
		result, err = s.contests.GetRoundResult(ctx, sel.ContestID, sel.RoundID)
		if err != nil {
			return legUnresolved, fmt.Errorf("%s: %w", ErrContextFailedToLoadRound, err)
		}
		results[key] = result
	}
	if result == nil {
		return legUnresolved, nil
	}

	winner, ok := result.Outcomes[sel.MarketID]
	if !ok {
		// Market missing from the archived result counts as a loss for the
		// leg; the outcome source never produced it.
		return legLost, nil
	}
	if winner == sel.OutcomeID {
		return legWon, nil
	}
	return legLost, nil
}

func (s *service) settleOne(ctx context.Context, w *domain.Wager, status domain.WagerStatus) error {
	log := logger.FromContext(ctx)

	tx, err := s.wagers.BeginSettleTx(ctx)
	if err != nil {
		return err
	}
	defer repository.SafeRollback(ctx, tx)

	rows, err := tx.UpdateWagerStatusIfPending(ctx, w.ID, status)
	if err != nil {
		return err
	}
	if rows == 0 {
		// Another run owns this wager. Success from this run's point of view.
		log.Debug(LogMsgWagerAlreadyDone, "wager_id", w.ID)
		return nil
	}

	payout := decimal.Zero
	newBalance := decimal.Zero
	switch status {
	case domain.WagerStatusWon:
		payout = w.Stake.Mul(w.CombinedOdds())
		wallet, err := tx.ApplyWalletDelta(ctx, w.OwnerID, payout)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToCredit, err)
		}
		newBalance = wallet.Balance

		movement := &domain.Movement{
			WalletID:      wallet.ID,
			Kind:          domain.MovementWagerPayout,
			Amount:        payout,
			BalanceBefore: wallet.Balance.Sub(payout),
			BalanceAfter:  wallet.Balance,
			Status:        domain.MovementStatusSuccess,
		}
		if err := tx.CreateMovement(ctx, movement); err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToCredit, err)
		}
		metrics.PayoutsIssued.Inc()

	case domain.WagerStatusVoid:
		// Stake returned; the wager never had a fair chance to resolve.
		payout = w.Stake
		wallet, err := tx.ApplyWalletDelta(ctx, w.OwnerID, w.Stake)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToCredit, err)
		}
		newBalance = wallet.Balance

		movement := &domain.Movement{
			WalletID:      wallet.ID,
			Kind:          domain.MovementReversal,
			Amount:        w.Stake,
			BalanceBefore: wallet.Balance.Sub(w.Stake),
			BalanceAfter:  wallet.Balance,
			Status:        domain.MovementStatusSuccess,
		}
		if err := tx.CreateMovement(ctx, movement); err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToCredit, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToCommit, err)
	}

	w.Status = status
	metrics.WagersSettled.WithLabelValues(string(status)).Inc()
	log.Info(LogMsgWagerSettled,
		"wager_id", w.ID, "owner_id", w.OwnerID, "status", status, "payout", payout)

	if err := s.eventBus.Publish(ctx, event.NewWagerSettledEvent(w, payout, newBalance)); err != nil {
		log.Error("Failed to publish wager settled event", "error", err, "wager_id", w.ID)
	}
	return nil
}
