package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBusFansOutToSubscribers(t *testing.T) {
	bus := NewBus[int]("n", 4)
	a, b := bus.Subscribe(), bus.Subscribe()

	require.NoError(t, bus.Publish(context.Background(), 7))
	require.Equal(t, 7, <-a)
	require.Equal(t, 7, <-b)
	require.Equal(t, 2, bus.SubscriberCount())
}

func TestBusReportsDroppedEvents(t *testing.T) {
	bus := NewBus[int]("n", 1)
	ch := bus.Subscribe()

	require.NoError(t, bus.Publish(context.Background(), 1))
	require.ErrorIs(t, bus.Publish(context.Background(), 2), ErrDropped)
	require.Equal(t, 1, <-ch)
}

func TestBusClose(t *testing.T) {
	bus := NewBus[string]("s", 1)
	ch := bus.Subscribe()
	bus.Close()
	bus.Close()

	_, ok := <-ch
	require.False(t, ok, "subscriber channel should be closed")
	require.ErrorIs(t, bus.Publish(context.Background(), "x"), ErrBusClosed)
	_, ok = <-bus.Subscribe()
	require.False(t, ok, "late subscriber should get a closed channel")
}

func TestBusPublishHonoursContext(t *testing.T) {
	bus := NewBus[int]("n", 1)
	_ = bus.Subscribe()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := bus.Publish(ctx, 1); err != nil {
		require.ErrorIs(t, err, context.Canceled)
	}
}
