package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/accrabet/accrabet/internal/domain"
	"github.com/accrabet/accrabet/internal/repository"
)

const getWagerSQL = `
	SELECT wager_id, owner_id, stake::text, selections, potential_payout::text,
	       status, COALESCE(idempotency_key, ''), created_at, settled_at
	FROM wagers`

// WagerRepository implements the wager repository for PostgreSQL
type WagerRepository struct {
	db *pgxpool.Pool
}

// NewWagerRepository creates a new WagerRepository
func NewWagerRepository(db *pgxpool.Pool) *WagerRepository {
	return &WagerRepository{db: db}
}

// GetWager retrieves a wager by ID
func (r *WagerRepository) GetWager(ctx context.Context, id uuid.UUID) (*domain.Wager, error) {
	w, err := scanWager(r.db.QueryRow(ctx, getWagerSQL+` WHERE wager_id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWagerNotFound
		}
		return nil, fmt.Errorf("failed to get wager: %w", err)
	}
	return w, nil
}

// GetWagerByIdempotencyKey returns a previously accepted wager for the same
// owner and token, or nil, nil when the submission is new
func (r *WagerRepository) GetWagerByIdempotencyKey(ctx context.Context, ownerID uuid.UUID, key string) (*domain.Wager, error) {
	query := getWagerSQL + ` WHERE owner_id = $1 AND idempotency_key = $2`

	w, err := scanWager(r.db.QueryRow(ctx, query, ownerID, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get wager by idempotency key: %w", err)
	}
	return w, nil
}

// ListPendingByRound returns all pending wagers with at least one selection
// against the given contest round
func (r *WagerRepository) ListPendingByRound(ctx context.Context, contestID uuid.UUID, roundID int64) ([]domain.Wager, error) {
	query := `
		SELECT w.wager_id, w.owner_id, w.stake::text, w.selections, w.potential_payout::text,
		       w.status, COALESCE(w.idempotency_key, ''), w.created_at, w.settled_at
		FROM wagers w
		JOIN wager_rounds wr ON wr.wager_id = w.wager_id
		WHERE wr.contest_id = $1 AND wr.round_id = $2 AND w.status = $3
		ORDER BY w.created_at`

	rows, err := r.db.Query(ctx, query, contestID, roundID, string(domain.WagerStatusPending))
	if err != nil {
		return nil, fmt.Errorf("failed to list pending wagers: %w", err)
	}
	defer rows.Close()

	return collectWagers(rows)
}

// ListByOwner returns the most recent wagers placed by a user
func (r *WagerRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]domain.Wager, error) {
	query := getWagerSQL + `
	WHERE owner_id = $1
	ORDER BY created_at DESC
	LIMIT $2`

	rows, err := r.db.Query(ctx, query, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list wagers: %w", err)
	}
	defer rows.Close()

	return collectWagers(rows)
}

// BeginPlaceTx starts the admission transaction
func (r *WagerRepository) BeginPlaceTx(ctx context.Context) (repository.PlaceTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &placeTx{ledgerTx{tx: tx}}, nil
}

// BeginSettleTx starts a per-wager settlement transaction
func (r *WagerRepository) BeginSettleTx(ctx context.Context) (repository.SettleTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &settleTx{ledgerTx{tx: tx}}, nil
}

// ledgerTx implements the shared ledger primitives over a pgx transaction
type ledgerTx struct {
	tx pgx.Tx
}

func (t *ledgerTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *ledgerTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

func (t *ledgerTx) ApplyWalletDelta(ctx context.Context, userID uuid.UUID, delta decimal.Decimal) (*domain.Wallet, error) {
	return applyDelta(ctx, t.tx, walletDeltaSQL, userID, delta)
}

func (t *ledgerTx) ApplyBonusDelta(ctx context.Context, userID uuid.UUID, delta decimal.Decimal) (*domain.Wallet, error) {
	return applyDelta(ctx, t.tx, bonusDeltaSQL, userID, delta)
}

func (t *ledgerTx) CreateMovement(ctx context.Context, m *domain.Movement) error {
	return insertMovement(ctx, t.tx, m)
}

type placeTx struct {
	ledgerTx
}

// CreateWager inserts the wager and its round bindings. The partial unique
// index on (owner_id, idempotency_key) turns a concurrent duplicate submit
// into domain.ErrDuplicateWager.
func (t *placeTx) CreateWager(ctx context.Context, w *domain.Wager) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	if w.Status == "" {
		w.Status = domain.WagerStatusPending
	}

	selections, err := json.Marshal(w.Selections)
	if err != nil {
		return fmt.Errorf("failed to marshal selections: %w", err)
	}

	query := `
		INSERT INTO wagers (wager_id, owner_id, stake, selections, potential_payout, status, idempotency_key)
		VALUES ($1, $2, $3::numeric, $4, $5::numeric, $6, NULLIF($7, ''))`

	_, err = t.tx.Exec(ctx, query,
		w.ID, w.OwnerID, w.Stake.String(), selections,
		w.PotentialPayout.String(), string(w.Status), w.IdempotencyKey)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateWager
		}
		return fmt.Errorf("failed to insert wager: %w", err)
	}

	roundQuery := `
		INSERT INTO wager_rounds (wager_id, contest_id, round_id)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING`

	for _, sel := range w.Selections {
		if _, err := t.tx.Exec(ctx, roundQuery, w.ID, sel.ContestID, sel.RoundID); err != nil {
			return fmt.Errorf("failed to insert wager round: %w", err)
		}
	}
	return nil
}

type settleTx struct {
	ledgerTx
}

// UpdateWagerStatusIfPending performs the pending->terminal compare-and-swap
func (t *settleTx) UpdateWagerStatusIfPending(ctx context.Context, id uuid.UUID, next domain.WagerStatus) (int64, error) {
	query := `
		UPDATE wagers
		SET status = $2, settled_at = NOW()
		WHERE wager_id = $1 AND status = $3`

	tag, err := t.tx.Exec(ctx, query, id, string(next), string(domain.WagerStatusPending))
	if err != nil {
		return 0, fmt.Errorf("failed to update wager status: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanWager(row pgx.Row) (*domain.Wager, error) {
	var (
		w              domain.Wager
		stake, payout  string
		selectionsJSON []byte
	)
	if err := row.Scan(&w.ID, &w.OwnerID, &stake, &selectionsJSON, &payout,
		&w.Status, &w.IdempotencyKey, &w.CreatedAt, &w.SettledAt); err != nil {
		return nil, err
	}

	var err error
	if w.Stake, err = parseDecimal(stake); err != nil {
		return nil, err
	}
	if w.PotentialPayout, err = parseDecimal(payout); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(selectionsJSON, &w.Selections); err != nil {
		return nil, fmt.Errorf("failed to unmarshal selections: %w", err)
	}
	return &w, nil
}

func collectWagers(rows pgx.Rows) ([]domain.Wager, error) {
	var wagers []domain.Wager
	for rows.Next() {
		w, err := scanWager(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wager: %w", err)
		}
		wagers = append(wagers, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wagers: %w", err)
	}
	return wagers, nil
}
