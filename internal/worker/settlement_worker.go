package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/accrabet/accrabet/internal/domain"
	"github.com/accrabet/accrabet/internal/event"
	"github.com/accrabet/accrabet/internal/logger"
	"github.com/accrabet/accrabet/internal/metrics"
	"github.com/accrabet/accrabet/internal/settlement"
)

// SettleRetryBaseDelay is the first backoff step after a conflicting
// conditional write
const SettleRetryBaseDelay = 50 * time.Millisecond

// SettlementWorker executes settlement runs off the contest clock's hot
// path. A run that keeps losing conditional writes is retried a bounded
// number of times and then surfaced as a transient failure.
type SettlementWorker struct {
	service    settlement.Service
	pool       *Pool
	maxRetries int
}

// NewSettlementWorker creates a new SettlementWorker
func NewSettlementWorker(service settlement.Service, pool *Pool, maxRetries int) *SettlementWorker {
	return &SettlementWorker{
		service:    service,
		pool:       pool,
		maxRetries: maxRetries,
	}
}

// Subscribe wires the worker to the contest lifecycle events that demand a
// settlement run. The phase transition is conditional-write gated upstream,
// so each Settlement entry produces exactly one event.
func (w *SettlementWorker) Subscribe(bus event.Bus) {
	bus.Subscribe(event.Type(domain.EventContestPhaseChanged), w.handlePhaseChanged)
	bus.Subscribe(event.Type(domain.EventContestVoided), w.handleContestVoided)
}

func (w *SettlementWorker) handlePhaseChanged(ctx context.Context, e event.Event) error {
	payload, ok := e.Payload.(event.ContestPhaseChangedPayloadV1)
	if !ok {
		return nil
	}
	if payload.To != string(domain.PhaseSettlement) {
		return nil
	}
	w.enqueue(ctx, payload.ContestID, payload.RoundID)
	return nil
}

func (w *SettlementWorker) handleContestVoided(ctx context.Context, e event.Event) error {
	payload, ok := e.Payload.(event.ContestVoidedPayloadV1)
	if !ok {
		return nil
	}
	// Voiding refunds the round's pending wagers through the same engine
	w.enqueue(ctx, payload.ContestID, payload.RoundID)
	return nil
}

func (w *SettlementWorker) enqueue(ctx context.Context, contestID uuid.UUID, roundID int64) {
	logger.FromContext(ctx).Info(LogMsgSettlementEnqueued, "contest_id", contestID, "round_id", roundID)
	w.pool.Enqueue(&settlementJob{
		service:    w.service,
		contestID:  contestID,
		roundID:    roundID,
		maxRetries: w.maxRetries,
	})
}

// settlementJob is one settlement run for one contest round
type settlementJob struct {
	service    settlement.Service
	contestID  uuid.UUID
	roundID    int64
	maxRetries int
}

func (j *settlementJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)

	var err error
	for attempt := 0; attempt <= j.maxRetries; attempt++ {
		if attempt > 0 {
			metrics.StoreConflicts.WithLabelValues("settlement").Inc()
			log.Warn(LogMsgSettlementRetrying,
				"contest_id", j.contestID, "round_id", j.roundID, "attempt", attempt)
			time.Sleep(SettleRetryBaseDelay << (attempt - 1))
		}

		err = j.service.SettleContest(ctx, j.contestID, j.roundID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrStoreConflict) {
			log.Error(LogMsgSettlementJobFailed,
				"error", err, "contest_id", j.contestID, "round_id", j.roundID)
			return err
		}
	}

	log.Error(LogMsgSettlementGaveUp, "contest_id", j.contestID, "round_id", j.roundID)
	return fmt.Errorf("%w: settlement of contest %s round %d: %v",
		domain.ErrTransientFailure, j.contestID, j.roundID, err)
}
