package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accrabet/accrabet/internal/domain"
	"github.com/accrabet/accrabet/internal/event"
)

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (n *recordingNotifier) Notify(_ context.Context, _ uuid.UUID, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

func TestDispatcher_NotifiesOnSettlement(t *testing.T) {
	notifier := &recordingNotifier{}
	d := NewDispatcher(notifier)
	bus := event.NewMemoryBus()
	d.Subscribe(bus)

	w := &domain.Wager{ID: uuid.New(), OwnerID: uuid.New(), Status: domain.WagerStatusWon}
	err := bus.Publish(context.Background(),
		event.NewWagerSettledEvent(w, decimal.RequireFromString("25"), decimal.RequireFromString("125")))
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return notifier.count() == 1 }, time.Second, 10*time.Millisecond)
	d.Shutdown()
	assert.Contains(t, notifier.messages[0], "25")
}

func TestDispatcher_DeliveryFailureDoesNotPropagate(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("channel down")}
	d := NewDispatcher(notifier)
	bus := event.NewMemoryBus()
	d.Subscribe(bus)

	// Publish must succeed even when the delivery channel is broken
	err := bus.Publish(context.Background(),
		event.NewDepositConfirmedEvent(uuid.New(), "pay-1", decimal.RequireFromString("10"), decimal.RequireFromString("10")))
	assert.NoError(t, err)
	d.Shutdown()
}
