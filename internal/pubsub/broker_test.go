package pubsub

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type notice struct {
	Course string
	Seats  int
}

func receive[T any](t *testing.T, ch <-chan Event[T]) Event[T] {
	t.Helper()
	select {
	case event, ok := <-ch:
		require.True(t, ok, "channel closed")
		return event
	case <-time.After(time.Second):
		require.FailNow(t, "timeout waiting for event")
	}
	return Event[T]{}
}

func requireClosed[T any](t *testing.T, ch <-chan Event[T]) {
	t.Helper()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func TestBroker_DeliversToEverySubscriber(t *testing.T) {
	broker := NewBroker[notice]()
	defer broker.Close()

	ctx := context.Background()
	subs := []<-chan Event[notice]{broker.Subscribe(ctx), broker.Subscribe(ctx), broker.Subscribe(ctx)}
	require.Equal(t, 3, broker.SubscriberCount())

	delivered := broker.Publish(UpdatedEvent, notice{Course: "CS101", Seats: 2})
	require.Equal(t, 3, delivered)

	for i, ch := range subs {
		event := receive(t, ch)
		require.Equal(t, UpdatedEvent, event.Type, "subscriber %d", i)
		require.Equal(t, notice{Course: "CS101", Seats: 2}, event.Payload, "subscriber %d", i)
		require.False(t, event.Timestamp.IsZero())
	}
}

func TestBroker_PreservesOrder(t *testing.T) {
	broker := NewBroker[int]()
	defer broker.Close()

	ch := broker.Subscribe(context.Background())
	for i := range 10 {
		broker.Publish(CreatedEvent, i)
	}
	for i := range 10 {
		require.Equal(t, i, receive(t, ch).Payload)
	}
}

func TestBroker_CancelUnsubscribes(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := broker.Subscribe(ctx)
	other := broker.Subscribe(context.Background())
	require.Equal(t, 2, broker.SubscriberCount())

	cancel()
	requireClosed(t, ch)
	require.Eventually(t, func() bool { return broker.SubscriberCount() == 1 }, time.Second, 5*time.Millisecond)

	require.Equal(t, 1, broker.Publish(DeletedEvent, "S02"))
	require.Equal(t, "S02", receive(t, other).Payload)
}

func TestBroker_FullBufferDrops(t *testing.T) {
	broker := NewBrokerWithBuffer[int](2)
	defer broker.Close()

	ch := broker.Subscribe(context.Background())
	require.Equal(t, 1, broker.Publish(CreatedEvent, 1))
	require.Equal(t, 1, broker.Publish(CreatedEvent, 2))
	require.Equal(t, 0, broker.Publish(CreatedEvent, 3), "buffer full")
	require.Equal(t, uint64(1), broker.Dropped())

	require.Equal(t, 1, receive(t, ch).Payload)
	require.Equal(t, 2, receive(t, ch).Payload)
}

func TestBroker_BufferSizeFloor(t *testing.T) {
	broker := NewBrokerWithBuffer[int](0)
	defer broker.Close()

	ch := broker.Subscribe(context.Background())
	require.Equal(t, 1, broker.Publish(CreatedEvent, 7))
	require.Equal(t, 7, receive(t, ch).Payload)
}

func TestBroker_Close(t *testing.T) {
	broker := NewBroker[string]()

	ch := broker.Subscribe(context.Background())
	broker.Close()
	broker.Close()

	requireClosed(t, ch)
	require.Zero(t, broker.SubscriberCount())
	require.Zero(t, broker.Publish(CreatedEvent, "ignored"))

	late := broker.Subscribe(context.Background())
	_, ok := <-late
	require.False(t, ok, "subscribing after close yields a closed channel")
}

func TestBroker_CancelAfterClose(t *testing.T) {
	broker := NewBroker[string]()

	ctx, cancel := context.WithCancel(context.Background())
	ch := broker.Subscribe(ctx)
	broker.Close()
	cancel()

	requireClosed(t, ch)
}

func TestBroker_ConcurrentPublish(t *testing.T) {
	broker := NewBrokerWithBuffer[int](1000)
	defer broker.Close()

	ch := broker.Subscribe(context.Background())

	var wg sync.WaitGroup
	for p := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				broker.Publish(CreatedEvent, p*100+i)
			}
		}()
	}
	wg.Wait()

	seen := make(map[int]bool)
	for range 400 {
		seen[receive(t, ch).Payload] = true
	}
	require.Len(t, seen, 400)
	require.Zero(t, broker.Dropped())
}
