package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"

	"github.com/accrabet/accrabet/internal/contest"
	"github.com/accrabet/accrabet/internal/domain"
	"github.com/accrabet/accrabet/internal/event"
	"github.com/accrabet/accrabet/internal/logger"
)

// TickInterval is the clock resolution for contest phase advancement
const TickInterval = time.Second

// ContestTicker drives the contest clock: one scheduled job per active
// contest, firing every second. Tick itself is conditional-write safe, so
// running tickers on multiple instances is harmless.
type ContestTicker struct {
	service contest.Service
	sched   gocron.Scheduler

	mu   sync.Mutex
	jobs map[uuid.UUID]uuid.UUID // contestID -> scheduler job ID
}

// NewContestTicker creates a new ContestTicker
func NewContestTicker(service contest.Service) (*ContestTicker, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &ContestTicker{
		service: service,
		sched:   sched,
		jobs:    make(map[uuid.UUID]uuid.UUID),
	}, nil
}

// Start recovers persisted contests, schedules a tick job for each and
// starts the scheduler
func (t *ContestTicker) Start(ctx context.Context) error {
	log := logger.FromContext(ctx)

	if err := t.service.Recover(ctx); err != nil {
		return err
	}

	active, err := t.service.ActiveContests(ctx)
	if err != nil {
		log.Error(LogMsgFailedToListActives, "error", err)
		return err
	}
	for _, c := range active {
		if err := t.Track(ctx, c.ID); err != nil {
			return err
		}
	}

	t.sched.Start()
	log.Info(LogMsgTickerStarted, "contests", len(active))
	return nil
}

// Subscribe wires the ticker to contest lifecycle events
func (t *ContestTicker) Subscribe(bus event.Bus) {
	bus.Subscribe(event.Type(domain.EventContestCreated), t.handleContestCreated)
	bus.Subscribe(event.Type(domain.EventContestVoided), t.handleContestVoided)
}

func (t *ContestTicker) handleContestCreated(ctx context.Context, e event.Event) error {
	payload, ok := e.Payload.(event.ContestCreatedPayloadV1)
	if !ok {
		return nil
	}
	return t.Track(ctx, payload.ContestID)
}

func (t *ContestTicker) handleContestVoided(ctx context.Context, e event.Event) error {
	payload, ok := e.Payload.(event.ContestVoidedPayloadV1)
	if !ok {
		return nil
	}
	t.Untrack(ctx, payload.ContestID)
	return nil
}

// Track schedules the 1-second tick job for a contest
func (t *ContestTicker) Track(ctx context.Context, contestID uuid.UUID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.jobs[contestID]; ok {
		return nil
	}

	job, err := t.sched.NewJob(
		gocron.DurationJob(TickInterval),
		gocron.NewTask(func() {
			tickCtx := context.Background()
			if err := t.service.Tick(tickCtx, contestID); err != nil {
				logger.FromContext(tickCtx).Error(LogMsgTickFailed, "error", err, "contest_id", contestID)
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule contest tick: %w", err)
	}

	t.jobs[contestID] = job.ID()
	logger.FromContext(ctx).Info(LogMsgContestTracked, "contest_id", contestID)
	return nil
}

// Untrack removes a contest's tick job
func (t *ContestTicker) Untrack(ctx context.Context, contestID uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	jobID, ok := t.jobs[contestID]
	if !ok {
		return
	}
	if err := t.sched.RemoveJob(jobID); err != nil {
		logger.FromContext(ctx).Error("Failed to remove tick job", "error", err, "contest_id", contestID)
	}
	delete(t.jobs, contestID)
	logger.FromContext(ctx).Info(LogMsgContestUntracked, "contest_id", contestID)
}

// Shutdown stops the scheduler and waits for running ticks
func (t *ContestTicker) Shutdown(ctx context.Context) error {
	logger.FromContext(ctx).Info(LogMsgTickerStopped)
	return t.sched.Shutdown()
}
