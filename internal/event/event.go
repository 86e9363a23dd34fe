package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/accrabet/accrabet/internal/domain"
	"github.com/accrabet/accrabet/internal/metrics"
)

// Type represents the type of an event
type Type string

// Event represents a generic event in the system
type Event struct {
	Version string      `json:"version"` // Event schema version (e.g., "1.0")
	Type    Type        `json:"type"`
	Payload interface{} `json:"payload"`
}

// Typed event payloads for type safety

// ContestPhaseChangedPayloadV1 is emitted on every contest phase transition
type ContestPhaseChangedPayloadV1 struct {
	ContestID uuid.UUID `json:"contest_id"`
	RoundID   int64     `json:"round_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Deadline  time.Time `json:"deadline"`
}

// WagerPlacedPayloadV1 is emitted when admission accepts a wager
type WagerPlacedPayloadV1 struct {
	WagerID         uuid.UUID       `json:"wager_id"`
	OwnerID         uuid.UUID       `json:"owner_id"`
	Stake           decimal.Decimal `json:"stake"`
	PotentialPayout decimal.Decimal `json:"potential_payout"`
}

// WagerSettledPayloadV1 is emitted once per wager when settlement resolves it
type WagerSettledPayloadV1 struct {
	WagerID    uuid.UUID       `json:"wager_id"`
	OwnerID    uuid.UUID       `json:"owner_id"`
	Status     string          `json:"status"`
	Payout     decimal.Decimal `json:"payout"`
	NewBalance decimal.Decimal `json:"new_balance"`
}

// DepositConfirmedPayloadV1 is emitted when reconciliation credits a deposit
type DepositConfirmedPayloadV1 struct {
	WalletID    uuid.UUID       `json:"wallet_id"`
	ExternalRef string          `json:"external_ref"`
	Amount      decimal.Decimal `json:"amount"`
	NewBalance  decimal.Decimal `json:"new_balance"`
}

// ReferralCompletedPayloadV1 is emitted when a referral bonus is issued
type ReferralCompletedPayloadV1 struct {
	ReferralID uuid.UUID       `json:"referral_id"`
	ReferrerID uuid.UUID       `json:"referrer_id"`
	Bonus      decimal.Decimal `json:"bonus"`
}

// Type-safe event constructors

// NewContestPhaseChangedEvent creates a phase transition event
func NewContestPhaseChangedEvent(contestID uuid.UUID, roundID int64, from, to domain.Phase, deadline time.Time) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventContestPhaseChanged),
		Payload: ContestPhaseChangedPayloadV1{
			ContestID: contestID,
			RoundID:   roundID,
			From:      string(from),
			To:        string(to),
			Deadline:  deadline,
		},
	}
}

// ContestCreatedPayloadV1 is emitted when a new contest opens for the first time
type ContestCreatedPayloadV1 struct {
	ContestID  uuid.UUID `json:"contest_id"`
	TemplateID string    `json:"template_id"`
	Deadline   time.Time `json:"deadline"`
}

// NewContestCreatedEvent creates a contest created event
func NewContestCreatedEvent(contestID uuid.UUID, templateID string, deadline time.Time) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventContestCreated),
		Payload: ContestCreatedPayloadV1{
			ContestID:  contestID,
			TemplateID: templateID,
			Deadline:   deadline,
		},
	}
}

// ContestVoidedPayloadV1 is emitted when an operator voids a contest
type ContestVoidedPayloadV1 struct {
	ContestID uuid.UUID `json:"contest_id"`
	RoundID   int64     `json:"round_id"`
}

// NewContestVoidedEvent creates a contest voided event
func NewContestVoidedEvent(contestID uuid.UUID, roundID int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventContestVoided),
		Payload: ContestVoidedPayloadV1{
			ContestID: contestID,
			RoundID:   roundID,
		},
	}
}

// NewWagerPlacedEvent creates a wager placed event
func NewWagerPlacedEvent(w *domain.Wager) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventWagerPlaced),
		Payload: WagerPlacedPayloadV1{
			WagerID:         w.ID,
			OwnerID:         w.OwnerID,
			Stake:           w.Stake,
			PotentialPayout: w.PotentialPayout,
		},
	}
}

// NewWagerSettledEvent creates a settlement notification event
func NewWagerSettledEvent(w *domain.Wager, payout, newBalance decimal.Decimal) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventWagerSettled),
		Payload: WagerSettledPayloadV1{
			WagerID:    w.ID,
			OwnerID:    w.OwnerID,
			Status:     string(w.Status),
			Payout:     payout,
			NewBalance: newBalance,
		},
	}
}

// NewDepositConfirmedEvent creates a deposit confirmation event
func NewDepositConfirmedEvent(walletID uuid.UUID, externalRef string, amount, newBalance decimal.Decimal) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventDepositConfirmed),
		Payload: DepositConfirmedPayloadV1{
			WalletID:    walletID,
			ExternalRef: externalRef,
			Amount:      amount,
			NewBalance:  newBalance,
		},
	}
}

// NewReferralCompletedEvent creates a referral bonus event
func NewReferralCompletedEvent(referralID, referrerID uuid.UUID, bonus decimal.Decimal) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventReferralCompleted),
		Payload: ReferralCompletedPayloadV1{
			ReferralID: referralID,
			ReferrerID: referrerID,
			Bonus:      bonus,
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	metrics.EventsPublished.WithLabelValues(string(event.Type)).Inc()

	if !ok {
		return nil
	}

	// Handlers run synchronously; subscribers that must not block callers
	// (notification delivery) hand off internally.
	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			metrics.EventHandlerErrors.WithLabelValues(string(event.Type)).Inc()
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
