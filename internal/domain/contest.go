package domain

import (
	"time"

	"github.com/google/uuid"
)

// Phase represents the current phase of a contest round
type Phase string

const (
	PhaseOpen       Phase = "Open"
	PhaseLocked     Phase = "Locked"
	PhaseInProgress Phase = "InProgress"
	PhaseSettlement Phase = "Settlement"
	PhaseReset      Phase = "Reset"

	// PhaseVoid is an absorbing state reached only by forced cancellation.
	// A voided contest never re-enters the normal cycle.
	PhaseVoid Phase = "Void"
)

// PhaseDurations is the fixed per-phase duration table. Phases advance
// strictly Open -> Locked -> InProgress -> Settlement -> Reset -> Open.
var PhaseDurations = map[Phase]time.Duration{
	PhaseOpen:       22 * time.Second,
	PhaseLocked:     2 * time.Second,
	PhaseInProgress: 25 * time.Second,
	PhaseSettlement: 3 * time.Second,
	PhaseReset:      3 * time.Second,
}

// NextPhase returns the phase that follows p in the fixed cycle.
// Reset wraps back to Open (the round counter advances separately).
func NextPhase(p Phase) Phase {
	switch p {
	case PhaseOpen:
		return PhaseLocked
	case PhaseLocked:
		return PhaseInProgress
	case PhaseInProgress:
		return PhaseSettlement
	case PhaseSettlement:
		return PhaseReset
	case PhaseReset:
		return PhaseOpen
	default:
		return PhaseVoid
	}
}

// SeedIncrement is the fixed deterministic increment applied to the outcome
// seed at each round rollover. Outcomes are reproducible and auditable as a
// consequence; flagged for fairness review rather than replaced with entropy.
const SeedIncrement = 1000

// Contest is a schedulable event (live or simulated) cycling through
// betting rounds. Mutated only by the contest clock.
type Contest struct {
	ID             uuid.UUID         `json:"id"`
	TemplateID     string            `json:"template_id"`
	Phase          Phase             `json:"phase"`
	PhaseDeadline  time.Time         `json:"phase_deadline"`
	OutcomeSeed    int64             `json:"outcome_seed"`
	RoundID        int64             `json:"round_id"`
	MarketOutcomes map[string]string `json:"market_outcomes,omitempty"` // marketID -> winning outcomeID
	Voided         bool              `json:"voided"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// RoundResult is the archived outcome of a single completed round.
// Written once when the round enters Settlement, never updated.
type RoundResult struct {
	ContestID   uuid.UUID         `json:"contest_id"`
	RoundID     int64             `json:"round_id"`
	OutcomeSeed int64             `json:"outcome_seed"`
	Outcomes    map[string]string `json:"outcomes"`
	CreatedAt   time.Time         `json:"created_at"`
}
