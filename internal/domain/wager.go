package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WagerStatus represents the settlement status of a wager
type WagerStatus string

const (
	WagerStatusPending WagerStatus = "pending"
	WagerStatusWon     WagerStatus = "won"
	WagerStatusLost    WagerStatus = "lost"
	WagerStatusVoid    WagerStatus = "void"
)

// Terminal reports whether the status is a settled end state.
// Status transitions only pending -> {won, lost, void}, exactly once.
func (s WagerStatus) Terminal() bool {
	return s == WagerStatusWon || s == WagerStatusLost || s == WagerStatusVoid
}

// Selection is a single leg of a wager: a chosen outcome in one market of
// one contest round, at the odds published when the wager was placed.
type Selection struct {
	ContestID uuid.UUID       `json:"contest_id"`
	RoundID   int64           `json:"round_id"`
	MarketID  string          `json:"market_id"`
	OutcomeID string          `json:"outcome_id"`
	Odds      decimal.Decimal `json:"odds"`
}

// Wager is a user's stake against one or more selections. Parlay semantics:
// the wager wins only if every selection is correct.
type Wager struct {
	ID              uuid.UUID       `json:"id"`
	OwnerID         uuid.UUID       `json:"owner_id"`
	Stake           decimal.Decimal `json:"stake"`
	Selections      []Selection     `json:"selections"`
	PotentialPayout decimal.Decimal `json:"potential_payout"`
	Status          WagerStatus     `json:"status"`
	IdempotencyKey  string          `json:"idempotency_key,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	SettledAt       *time.Time      `json:"settled_at,omitempty"`
}

// CombinedOdds returns the product of all selection odds.
func (w *Wager) CombinedOdds() decimal.Decimal {
	odds := decimal.NewFromInt(1)
	for _, sel := range w.Selections {
		odds = odds.Mul(sel.Odds)
	}
	return odds
}
