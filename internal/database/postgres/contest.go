package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/accrabet/accrabet/internal/domain"
)

const getContestSQL = `
	SELECT contest_id, template_id, phase, phase_deadline, outcome_seed, round_id,
	       market_outcomes, voided, created_at, updated_at
	FROM contests`

// ContestRepository implements the contest repository for PostgreSQL
type ContestRepository struct {
	db *pgxpool.Pool
}

// NewContestRepository creates a new ContestRepository
func NewContestRepository(db *pgxpool.Pool) *ContestRepository {
	return &ContestRepository{db: db}
}

// CreateContest inserts a new contest record
func (r *ContestRepository) CreateContest(ctx context.Context, c *domain.Contest) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	outcomes, err := json.Marshal(c.MarketOutcomes)
	if err != nil {
		return fmt.Errorf("failed to marshal market outcomes: %w", err)
	}

	query := `
		INSERT INTO contests (contest_id, template_id, phase, phase_deadline, outcome_seed, round_id, market_outcomes, voided)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = r.db.Exec(ctx, query,
		c.ID, c.TemplateID, string(c.Phase), c.PhaseDeadline,
		c.OutcomeSeed, c.RoundID, outcomes, c.Voided)
	if err != nil {
		return fmt.Errorf("failed to insert contest: %w", err)
	}
	return nil
}

// GetContest retrieves a contest by ID
func (r *ContestRepository) GetContest(ctx context.Context, id uuid.UUID) (*domain.Contest, error) {
	c, err := scanContest(r.db.QueryRow(ctx, getContestSQL+` WHERE contest_id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrContestNotFound
		}
		return nil, fmt.Errorf("failed to get contest: %w", err)
	}
	return c, nil
}

// ListActiveContests returns all contests still cycling
func (r *ContestRepository) ListActiveContests(ctx context.Context) ([]domain.Contest, error) {
	query := getContestSQL + `
	WHERE phase != $1
	ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, string(domain.PhaseVoid))
	if err != nil {
		return nil, fmt.Errorf("failed to list contests: %w", err)
	}
	defer rows.Close()

	var contests []domain.Contest
	for rows.Next() {
		c, err := scanContest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contest: %w", err)
		}
		contests = append(contests, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contests: %w", err)
	}
	return contests, nil
}

// TransitionPhaseIfMatches is the compare-and-swap phase advance. It writes
// the full state tuple of the post-transition contest, but only when the
// stored phase and round still match the expected ones. Matching the round
// keeps a stale instance from writing a previous cycle's seed and round
// back after another instance already wrapped the cycle to the same phase.
func (r *ContestRepository) TransitionPhaseIfMatches(ctx context.Context, id uuid.UUID, expected domain.Phase, expectedRound int64, c *domain.Contest) (int64, error) {
	outcomes, err := json.Marshal(c.MarketOutcomes)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal market outcomes: %w", err)
	}

	query := `
		UPDATE contests
		SET phase = $4, phase_deadline = $5, outcome_seed = $6, round_id = $7,
		    market_outcomes = $8, updated_at = NOW()
		WHERE contest_id = $1 AND phase = $2 AND round_id = $3 AND voided = FALSE`

	tag, err := r.db.Exec(ctx, query,
		id, string(expected), expectedRound, string(c.Phase),
		c.PhaseDeadline, c.OutcomeSeed, c.RoundID, outcomes)
	if err != nil {
		return 0, fmt.Errorf("failed to transition contest phase: %w", err)
	}
	return tag.RowsAffected(), nil
}

// MarkVoided forces the absorbing Void phase. Idempotent.
func (r *ContestRepository) MarkVoided(ctx context.Context, id uuid.UUID) (int64, error) {
	query := `
		UPDATE contests
		SET phase = $2, voided = TRUE, updated_at = NOW()
		WHERE contest_id = $1 AND voided = FALSE`

	tag, err := r.db.Exec(ctx, query, id, string(domain.PhaseVoid))
	if err != nil {
		return 0, fmt.Errorf("failed to void contest: %w", err)
	}
	return tag.RowsAffected(), nil
}

// SaveRoundResult archives a round's outcomes. The primary key makes the
// write idempotent; a replayed transition leaves the first archive intact.
func (r *ContestRepository) SaveRoundResult(ctx context.Context, result *domain.RoundResult) error {
	outcomes, err := json.Marshal(result.Outcomes)
	if err != nil {
		return fmt.Errorf("failed to marshal round outcomes: %w", err)
	}

	query := `
		INSERT INTO contest_rounds (contest_id, round_id, outcome_seed, outcomes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (contest_id, round_id) DO NOTHING`

	_, err = r.db.Exec(ctx, query, result.ContestID, result.RoundID, result.OutcomeSeed, outcomes)
	if err != nil {
		return fmt.Errorf("failed to save round result: %w", err)
	}
	return nil
}

// GetRoundResult returns nil, nil when the round has no archived result
func (r *ContestRepository) GetRoundResult(ctx context.Context, contestID uuid.UUID, roundID int64) (*domain.RoundResult, error) {
	query := `
		SELECT contest_id, round_id, outcome_seed, outcomes, created_at
		FROM contest_rounds
		WHERE contest_id = $1 AND round_id = $2`

	var (
		result       domain.RoundResult
		outcomesJSON []byte
	)
	err := r.db.QueryRow(ctx, query, contestID, roundID).Scan(
		&result.ContestID, &result.RoundID, &result.OutcomeSeed, &outcomesJSON, &result.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get round result: %w", err)
	}
	if err := json.Unmarshal(outcomesJSON, &result.Outcomes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal round outcomes: %w", err)
	}
	return &result, nil
}

func scanContest(row pgx.Row) (*domain.Contest, error) {
	var (
		c            domain.Contest
		outcomesJSON []byte
	)
	if err := row.Scan(&c.ID, &c.TemplateID, &c.Phase, &c.PhaseDeadline, &c.OutcomeSeed,
		&c.RoundID, &outcomesJSON, &c.Voided, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if len(outcomesJSON) > 0 {
		if err := json.Unmarshal(outcomesJSON, &c.MarketOutcomes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal market outcomes: %w", err)
		}
	}
	return &c, nil
}
