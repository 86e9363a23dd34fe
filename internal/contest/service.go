package contest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/accrabet/accrabet/internal/domain"
	"github.com/accrabet/accrabet/internal/event"
	"github.com/accrabet/accrabet/internal/logger"
	"github.com/accrabet/accrabet/internal/metrics"
	"github.com/accrabet/accrabet/internal/repository"
)

// Service defines the interface for contest clock operations
type Service interface {
	Create(ctx context.Context, templateID string, seed int64) (*domain.Contest, error)

	// Get returns a consistent snapshot of the contest plus the time left in
	// the current phase (zero when the deadline has passed).
	Get(ctx context.Context, id uuid.UUID) (*domain.Contest, time.Duration, error)

	// Tick advances the contest past every deadline it has crossed. Called
	// once per second per active contest; safe to call concurrently across
	// instances because each transition is a conditional write.
	Tick(ctx context.Context, id uuid.UUID) error

	// Recover loads active contests and fast-forwards the transitions missed
	// while the process was down. Phase windows are measured from the stored
	// deadline, not restarted from boot time.
	Recover(ctx context.Context) error

	// Void forces the absorbing Void phase. Idempotent.
	Void(ctx context.Context, id uuid.UUID) error

	ActiveContests(ctx context.Context) ([]domain.Contest, error)
}

type service struct {
	repo     repository.Contest
	outcomes OutcomeSource
	eventBus event.Bus
	now      func() time.Time

	mu       sync.Mutex
	contests map[uuid.UUID]domain.Contest
}

// NewService creates a new contest clock service
func NewService(repo repository.Contest, outcomes OutcomeSource, eventBus event.Bus) Service {
	return &service{
		repo:     repo,
		outcomes: outcomes,
		eventBus: eventBus,
		now:      time.Now,
		contests: make(map[uuid.UUID]domain.Contest),
	}
}

// Create starts a new contest in phase Open at round 1
func (s *service) Create(ctx context.Context, templateID string, seed int64) (*domain.Contest, error) {
	c := &domain.Contest{
		ID:            uuid.New(),
		TemplateID:    templateID,
		Phase:         domain.PhaseOpen,
		PhaseDeadline: s.now().Add(domain.PhaseDurations[domain.PhaseOpen]),
		OutcomeSeed:   seed,
		RoundID:       1,
	}
	if err := s.repo.CreateContest(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create contest: %w", err)
	}

	s.store(*c)

	if err := s.eventBus.Publish(ctx, event.NewContestCreatedEvent(c.ID, c.TemplateID, c.PhaseDeadline)); err != nil {
		logger.FromContext(ctx).Error(ErrContextFailedToPublishEvent, "error", err, "contest_id", c.ID)
	}
	return c, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*domain.Contest, time.Duration, error) {
	c, err := s.snapshot(ctx, id)
	if err != nil {
		return nil, 0, err
	}

	remaining := c.PhaseDeadline.Sub(s.now())
	if remaining < 0 {
		remaining = 0
	}
	return c, remaining, nil
}

func (s *service) Tick(ctx context.Context, id uuid.UUID) error {
	c, err := s.snapshot(ctx, id)
	if err != nil {
		return err
	}
	if c.Voided || c.Phase == domain.PhaseVoid {
		return nil
	}

	log := logger.FromContext(ctx)

	// Each iteration replays exactly one crossed deadline. The loop body
	// never holds the state mutex; the conditional write is the arbiter
	// when several instances tick the same contest.
	steps := 0
	for !s.now().Before(c.PhaseDeadline) {
		if steps >= MaxCatchUpTransitions {
			log.Warn("Catch-up transition budget exhausted, deferring to next tick",
				"contest_id", c.ID, "round_id", c.RoundID)
			break
		}
		steps++

		next := *c
		next.Phase = domain.NextPhase(c.Phase)
		next.PhaseDeadline = c.PhaseDeadline.Add(domain.PhaseDurations[next.Phase])

		switch next.Phase {
		case domain.PhaseSettlement:
			outcomes, err := s.outcomes.Outcomes(ctx, c)
			if err != nil {
				return fmt.Errorf("%s: %w", ErrContextFailedToRecordOutcomes, err)
			}
			next.MarketOutcomes = outcomes

			// Archive before the transition so the settlement run always
			// finds the result. The write is idempotent per round.
			result := &domain.RoundResult{
				ContestID:   c.ID,
				RoundID:     c.RoundID,
				OutcomeSeed: c.OutcomeSeed,
				Outcomes:    outcomes,
			}
			if err := s.repo.SaveRoundResult(ctx, result); err != nil {
				return fmt.Errorf("%s: %w", ErrContextFailedToRecordOutcomes, err)
			}
			log.Info(LogMsgOutcomesRecorded, "contest_id", c.ID, "round_id", c.RoundID)

		case domain.PhaseOpen:
			// Round rollover: the seed chain is deterministic so a given
			// round's outcomes stay reproducible for audit.
			next.RoundID = c.RoundID + 1
			next.OutcomeSeed = c.OutcomeSeed + domain.SeedIncrement
			next.MarketOutcomes = nil
		}

		rows, err := s.repo.TransitionPhaseIfMatches(ctx, c.ID, c.Phase, c.RoundID, &next)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToTransition, err)
		}
		if rows == 0 {
			// Another instance advanced the contest first. Adopt its state.
			metrics.StoreConflicts.WithLabelValues("contest_phase").Inc()
			log.Debug(LogMsgPhaseConflict, "contest_id", c.ID, "phase", c.Phase)
			fresh, err := s.repo.GetContest(ctx, c.ID)
			if err != nil {
				return fmt.Errorf("%s: %w", ErrContextFailedToLoadContest, err)
			}
			c = fresh
			if c.Voided || c.Phase == domain.PhaseVoid {
				s.store(*c)
				return nil
			}
			continue
		}

		metrics.PhaseTransitions.WithLabelValues(string(next.Phase)).Inc()
		log.Info(LogMsgPhaseAdvanced,
			"contest_id", c.ID, "round_id", next.RoundID,
			"from", c.Phase, "to", next.Phase, "deadline", next.PhaseDeadline)

		evt := event.NewContestPhaseChangedEvent(c.ID, next.RoundID, c.Phase, next.Phase, next.PhaseDeadline)
		if err := s.eventBus.Publish(ctx, evt); err != nil {
			log.Error(ErrContextFailedToPublishEvent, "error", err, "contest_id", c.ID)
		}
		if next.Phase == domain.PhaseSettlement {
			log.Info(LogMsgSettlementTrigger, "contest_id", c.ID, "round_id", next.RoundID)
		}

		c = &next
	}

	s.store(*c)
	return nil
}

func (s *service) Recover(ctx context.Context) error {
	contests, err := s.repo.ListActiveContests(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToLoadContest, err)
	}

	log := logger.FromContext(ctx)
	for _, c := range contests {
		s.store(c)
		log.Info(LogMsgContestRecovered,
			"contest_id", c.ID, "phase", c.Phase, "round_id", c.RoundID, "deadline", c.PhaseDeadline)

		if err := s.Tick(ctx, c.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) Void(ctx context.Context, id uuid.UUID) error {
	rows, err := s.repo.MarkVoided(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to void contest: %w", err)
	}

	c, err := s.repo.GetContest(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToLoadContest, err)
	}
	s.store(*c)

	if rows == 0 {
		// Already voided; the forced transition is idempotent.
		return nil
	}

	metrics.PhaseTransitions.WithLabelValues(string(domain.PhaseVoid)).Inc()
	logger.FromContext(ctx).Info(LogMsgContestVoided, "contest_id", id, "round_id", c.RoundID)

	if err := s.eventBus.Publish(ctx, event.NewContestVoidedEvent(id, c.RoundID)); err != nil {
		logger.FromContext(ctx).Error(ErrContextFailedToPublishEvent, "error", err, "contest_id", id)
	}
	return nil
}

func (s *service) ActiveContests(ctx context.Context) ([]domain.Contest, error) {
	contests, err := s.repo.ListActiveContests(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToLoadContest, err)
	}
	return contests, nil
}

// snapshot returns a copy of the tracked contest, falling back to the store
// when the contest is not yet in memory
func (s *service) snapshot(ctx context.Context, id uuid.UUID) (*domain.Contest, error) {
	s.mu.Lock()
	c, ok := s.contests[id]
	s.mu.Unlock()
	if ok {
		return &c, nil
	}

	fresh, err := s.repo.GetContest(ctx, id)
	if err != nil {
		return nil, err
	}
	s.store(*fresh)
	return fresh, nil
}

func (s *service) store(c domain.Contest) {
	s.mu.Lock()
	s.contests[c.ID] = c
	s.mu.Unlock()
}
