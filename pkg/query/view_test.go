package query

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mulahmanage/mulah/internal/event_bus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTopic event_bus.EventType = "test.changed"

func receiveWithin[T any](t *testing.T, ch <-chan T, timeout time.Duration) T {
	t.Helper()
	select {
	case value := <-ch:
		return value
	case <-time.After(timeout):
		t.Fatal("timed out waiting for view emission")
		panic("unreachable")
	}
}

func assertNoEmission[T any](t *testing.T, ch <-chan T, within time.Duration) {
	t.Helper()
	select {
	case value := <-ch:
		t.Fatalf("unexpected emission: %v", value)
	case <-time.After(within):
	}
}

func TestView_SubscribeDeliversComputedValue(t *testing.T) {
	bus := event_bus.NewEventBus()
	view := NewView("answer", bus, []event_bus.EventType{testTopic}, time.Second, func(ctx context.Context) (int, error) {
		return 42, nil
	})

	ch, cancel := view.Subscribe()
	defer cancel()

	assert.Equal(t, 42, receiveWithin(t, ch, time.Second))
}

func TestView_RecomputesOnPublish(t *testing.T) {
	bus := event_bus.NewEventBus()
	var value atomic.Int64
	value.Store(1)
	view := NewView("counter", bus, []event_bus.EventType{testTopic}, time.Second, func(ctx context.Context) (int64, error) {
		return value.Load(), nil
	})

	ch, cancel := view.Subscribe()
	defer cancel()
	require.Equal(t, int64(1), receiveWithin(t, ch, time.Second))

	value.Store(2)
	require.NoError(t, bus.Publish(event_bus.NewEvent(context.Background(), testTopic, nil)))

	assert.Equal(t, int64(2), receiveWithin(t, ch, time.Second))
}

func TestView_SubscribersShareOneComputation(t *testing.T) {
	bus := event_bus.NewEventBus()
	var computations atomic.Int64
	view := NewView("shared", bus, []event_bus.EventType{testTopic}, time.Second, func(ctx context.Context) (int64, error) {
		return computations.Add(1), nil
	})

	first, cancelFirst := view.Subscribe()
	defer cancelFirst()
	require.Equal(t, int64(1), receiveWithin(t, first, time.Second))

	// an already-warm view serves later subscribers from its cache
	second, cancelSecond := view.Subscribe()
	defer cancelSecond()
	require.Equal(t, int64(1), receiveWithin(t, second, time.Second))

	require.NoError(t, bus.Publish(event_bus.NewEvent(context.Background(), testTopic, nil)))

	assert.Equal(t, int64(2), receiveWithin(t, first, time.Second))
	assert.Equal(t, int64(2), receiveWithin(t, second, time.Second))
	assert.Equal(t, int64(2), computations.Load())
}

func TestView_IgnoresOtherTopics(t *testing.T) {
	bus := event_bus.NewEventBus()
	var computations atomic.Int64
	view := NewView("narrow", bus, []event_bus.EventType{testTopic}, time.Second, func(ctx context.Context) (int64, error) {
		return computations.Add(1), nil
	})

	ch, cancel := view.Subscribe()
	defer cancel()
	require.Equal(t, int64(1), receiveWithin(t, ch, time.Second))

	require.NoError(t, bus.Publish(event_bus.NewEvent(context.Background(), "other.changed", nil)))

	assertNoEmission(t, ch, 100*time.Millisecond)
	assert.Equal(t, int64(1), computations.Load())
}

func TestView_LatestWinsForSlowSubscriber(t *testing.T) {
	bus := event_bus.NewEventBus()
	var value atomic.Int64
	emitted := make(chan struct{}, 16)
	view := NewView("latest", bus, []event_bus.EventType{testTopic}, time.Second, func(ctx context.Context) (int64, error) {
		defer func() { emitted <- struct{}{} }()
		return value.Load(), nil
	})

	ch, cancel := view.Subscribe()
	defer cancel()
	receiveWithin(t, emitted, time.Second)

	// three writes without the subscriber draining its channel
	for i := int64(1); i <= 3; i++ {
		value.Store(i)
		require.NoError(t, bus.Publish(event_bus.NewEvent(context.Background(), testTopic, nil)))
		receiveWithin(t, emitted, time.Second)
	}

	// the subscriber catches up straight to the newest value
	var last int64
	for {
		received := receiveWithin(t, ch, time.Second)
		last = received
		if last == 3 {
			break
		}
	}
	assertNoEmission(t, ch, 50*time.Millisecond)
	assert.Equal(t, int64(3), last)
}

func TestView_TearsDownAfterGracePeriod(t *testing.T) {
	bus := event_bus.NewEventBus()
	var computations atomic.Int64
	view := NewView("lazy", bus, []event_bus.EventType{testTopic}, 20*time.Millisecond, func(ctx context.Context) (int64, error) {
		return computations.Add(1), nil
	})

	ch, cancel := view.Subscribe()
	require.Equal(t, int64(1), receiveWithin(t, ch, time.Second))
	cancel()

	time.Sleep(100 * time.Millisecond)

	require.NoError(t, bus.Publish(event_bus.NewEvent(context.Background(), testTopic, nil)))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(1), computations.Load(), "a torn-down view must not recompute")
}

func TestView_CurrentRecomputesAfterTeardown(t *testing.T) {
	bus := event_bus.NewEventBus()
	var value atomic.Int64
	value.Store(1)
	view := NewView("detached", bus, []event_bus.EventType{testTopic}, 20*time.Millisecond, func(ctx context.Context) (int64, error) {
		return value.Load(), nil
	})

	ch, cancel := view.Subscribe()
	require.Equal(t, int64(1), receiveWithin(t, ch, time.Second))
	cancel()
	time.Sleep(100 * time.Millisecond)

	// the torn-down view can no longer see this write, so it must not serve
	// its old cache either
	value.Store(2)
	require.NoError(t, bus.Publish(event_bus.NewEvent(context.Background(), testTopic, nil)))

	current, err := view.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), current)
}

func TestView_ResubscribeWithinGraceStaysWarm(t *testing.T) {
	bus := event_bus.NewEventBus()
	var computations atomic.Int64
	view := NewView("warm", bus, []event_bus.EventType{testTopic}, time.Minute, func(ctx context.Context) (int64, error) {
		return computations.Add(1), nil
	})

	first, cancelFirst := view.Subscribe()
	require.Equal(t, int64(1), receiveWithin(t, first, time.Second))
	cancelFirst()

	second, cancelSecond := view.Subscribe()
	defer cancelSecond()

	// the cached value arrives without waiting for another computation
	assert.Equal(t, int64(1), receiveWithin(t, second, time.Second))
}

func TestView_CurrentComputesWhenCold(t *testing.T) {
	bus := event_bus.NewEventBus()
	view := NewView("cold", bus, []event_bus.EventType{testTopic}, time.Second, func(ctx context.Context) (int, error) {
		return 7, nil
	})

	value, err := view.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, value)
}

func TestView_ComputeFailureKeepsPreviousValue(t *testing.T) {
	bus := event_bus.NewEventBus()
	var fail atomic.Bool
	view := NewView("fallible", bus, []event_bus.EventType{testTopic}, time.Second, func(ctx context.Context) (int, error) {
		if fail.Load() {
			return 0, errors.New("storage unavailable")
		}
		return 9, nil
	})

	ch, cancel := view.Subscribe()
	defer cancel()
	require.Equal(t, 9, receiveWithin(t, ch, time.Second))

	fail.Store(true)
	require.NoError(t, bus.Publish(event_bus.NewEvent(context.Background(), testTopic, nil)))

	assertNoEmission(t, ch, 100*time.Millisecond)

	value, err := view.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 9, value)
}
