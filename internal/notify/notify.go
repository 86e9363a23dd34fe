package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/accrabet/accrabet/internal/domain"
	"github.com/accrabet/accrabet/internal/event"
	"github.com/accrabet/accrabet/internal/logger"
)

// Notifier delivers a message to a user through an external channel.
// Delivery is best effort; ledger state never depends on it.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, message string) error
}

// LogNotifier writes notifications to the structured log. The default
// collaborator until a real delivery channel is wired in.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, userID uuid.UUID, message string) error {
	logger.FromContext(ctx).Info("Notification", "user_id", userID, "message", message)
	return nil
}

// Dispatcher subscribes to settlement and reconciliation events and hands
// them to the notifier off the publisher's goroutine, so a slow or failing
// channel cannot stall settlement or reconciliation.
type Dispatcher struct {
	notifier Notifier
	wg       sync.WaitGroup
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(notifier Notifier) *Dispatcher {
	return &Dispatcher{notifier: notifier}
}

// Subscribe wires the dispatcher to the event bus
func (d *Dispatcher) Subscribe(bus event.Bus) {
	bus.Subscribe(event.Type(domain.EventWagerSettled), d.handleWagerSettled)
	bus.Subscribe(event.Type(domain.EventDepositConfirmed), d.handleDepositConfirmed)
	bus.Subscribe(event.Type(domain.EventReferralCompleted), d.handleReferralCompleted)
}

func (d *Dispatcher) handleWagerSettled(ctx context.Context, e event.Event) error {
	payload, ok := e.Payload.(event.WagerSettledPayloadV1)
	if !ok {
		return nil
	}

	var message string
	switch domain.WagerStatus(payload.Status) {
	case domain.WagerStatusWon:
		message = fmt.Sprintf("Your wager won! Payout: %s", payload.Payout)
	case domain.WagerStatusVoid:
		message = fmt.Sprintf("Your wager was voided and the stake of %s returned", payload.Payout)
	default:
		message = "Your wager did not win this time"
	}

	d.deliver(ctx, payload.OwnerID, message)
	return nil
}

func (d *Dispatcher) handleDepositConfirmed(ctx context.Context, e event.Event) error {
	payload, ok := e.Payload.(event.DepositConfirmedPayloadV1)
	if !ok {
		return nil
	}
	// Wallet ids are not user ids; the notifier resolves the owner.
	d.deliver(ctx, payload.WalletID, fmt.Sprintf("Deposit of %s confirmed", payload.Amount))
	return nil
}

func (d *Dispatcher) handleReferralCompleted(ctx context.Context, e event.Event) error {
	payload, ok := e.Payload.(event.ReferralCompletedPayloadV1)
	if !ok {
		return nil
	}
	d.deliver(ctx, payload.ReferrerID, fmt.Sprintf("Referral bonus of %s credited", payload.Bonus))
	return nil
}

func (d *Dispatcher) deliver(ctx context.Context, userID uuid.UUID, message string) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.notifier.Notify(context.WithoutCancel(ctx), userID, message); err != nil {
			logger.FromContext(ctx).Error("Notification delivery failed", "error", err, "user_id", userID)
		}
	}()
}

// Shutdown waits for in-flight deliveries
func (d *Dispatcher) Shutdown() {
	d.wg.Wait()
}
