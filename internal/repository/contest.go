package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/accrabet/accrabet/internal/domain"
)

// Contest defines data access for contest state and archived round results
type Contest interface {
	CreateContest(ctx context.Context, c *domain.Contest) error
	GetContest(ctx context.Context, id uuid.UUID) (*domain.Contest, error)
	ListActiveContests(ctx context.Context) ([]domain.Contest, error)

	// TransitionPhaseIfMatches is the compare-and-swap phase advance; it
	// gates side effects (settlement enqueue) to exactly one winner per
	// transition. The predicate matches both the expected phase and the
	// expected round, so an instance holding a stale round can never win
	// against one that already rolled the cycle over. Returns rows affected.
	TransitionPhaseIfMatches(ctx context.Context, id uuid.UUID, expected domain.Phase, expectedRound int64, c *domain.Contest) (int64, error)

	// MarkVoided forces the absorbing Void phase. Idempotent.
	MarkVoided(ctx context.Context, id uuid.UUID) (int64, error)

	// SaveRoundResult archives a round's outcomes; written once per round.
	SaveRoundResult(ctx context.Context, r *domain.RoundResult) error

	// GetRoundResult returns nil, nil when the round has no archived result.
	GetRoundResult(ctx context.Context, contestID uuid.UUID, roundID int64) (*domain.RoundResult, error)
}
