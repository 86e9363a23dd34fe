package event

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accrabet/accrabet/internal/domain"
)

func TestMemoryBusPublishSubscribe(t *testing.T) {
	bus := NewMemoryBus()

	var handled atomic.Int32
	bus.Subscribe(Type(domain.EventWagerSettled), func(ctx context.Context, e Event) error {
		handled.Add(1)
		payload, ok := e.Payload.(WagerSettledPayloadV1)
		require.True(t, ok)
		assert.Equal(t, "won", payload.Status)
		return nil
	})

	w := &domain.Wager{
		ID:      uuid.New(),
		OwnerID: uuid.New(),
		Status:  domain.WagerStatusWon,
	}
	err := bus.Publish(context.Background(), NewWagerSettledEvent(w, decimal.NewFromInt(60), decimal.NewFromInt(140)))
	require.NoError(t, err)
	assert.Equal(t, int32(1), handled.Load())
}

func TestMemoryBusNoSubscribers(t *testing.T) {
	bus := NewMemoryBus()
	err := bus.Publish(context.Background(), Event{Type: "nobody-listens"})
	assert.NoError(t, err)
}

func TestMemoryBusHandlerErrorAggregation(t *testing.T) {
	bus := NewMemoryBus()

	bus.Subscribe("boom", func(ctx context.Context, e Event) error {
		return errors.New("handler failed")
	})
	bus.Subscribe("boom", func(ctx context.Context, e Event) error {
		return nil
	})

	err := bus.Publish(context.Background(), Event{Type: "boom"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 errors")
}

func TestCalculateRetryDelay(t *testing.T) {
	base := 2 * time.Second
	assert.Equal(t, 2*time.Second, CalculateRetryDelay(base, 1))
	assert.Equal(t, 4*time.Second, CalculateRetryDelay(base, 2))
	assert.Equal(t, 8*time.Second, CalculateRetryDelay(base, 3))
	assert.Equal(t, 32*time.Second, CalculateRetryDelay(base, 5))
}

func TestPhaseChangedEventConstructor(t *testing.T) {
	id := uuid.New()
	deadline := time.Now().Add(22 * time.Second)
	e := NewContestPhaseChangedEvent(id, 3, domain.PhaseReset, domain.PhaseOpen, deadline)

	assert.Equal(t, EventSchemaVersion, e.Version)
	assert.Equal(t, Type(domain.EventContestPhaseChanged), e.Type)

	payload, ok := e.Payload.(ContestPhaseChangedPayloadV1)
	require.True(t, ok)
	assert.Equal(t, id, payload.ContestID)
	assert.Equal(t, int64(3), payload.RoundID)
	assert.Equal(t, "Reset", payload.From)
	assert.Equal(t, "Open", payload.To)
}
