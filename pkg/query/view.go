package query

import (
	"context"
	"sync"
	"time"

	"github.com/mulahmanage/mulah/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

// View is a live, continuously-updated value derived from the ledger. It is
// a pure compute function plus a subscription registry: whenever a change
// event arrives on one of its topics, the view recomputes once and pushes the
// fresh value to every subscriber. All subscribers share the one computation.
//
// Views activate lazily: the bus handlers and the recompute worker only exist
// while there is at least one subscriber. When the last subscriber cancels,
// the view stays warm for a grace period so a quick resubscribe (typical for
// navigation) does not pay for another full recompute; after the grace period
// it detaches from the bus and stops its worker.
//
// A recompute failure is logged and the previous value stays in place —
// subscribers see a stale-but-consistent value rather than a torn-down
// subscription.
type View[T any] struct {
	name    string
	bus     *event_bus.EventBus
	topics  []event_bus.EventType
	compute func(context.Context) (T, error)
	grace   time.Duration

	mu         sync.Mutex
	subs       map[uint64]chan T
	nextID     uint64
	current    T
	ready      bool
	active     bool
	stop       chan struct{}
	unsubBus   []func()
	graceTimer *time.Timer
}

// NewView builds a view over compute that invalidates on the given topics.
// The view is inert until its first subscriber arrives.
func NewView[T any](name string, bus *event_bus.EventBus, topics []event_bus.EventType, grace time.Duration, compute func(context.Context) (T, error)) *View[T] {
	return &View[T]{
		name:    name,
		bus:     bus,
		topics:  topics,
		compute: compute,
		grace:   grace,
		subs:    make(map[uint64]chan T),
	}
}

// Subscribe registers a consumer and returns its delivery channel along with
// a cancel function. The channel has a one-element buffer with latest-wins
// delivery: a slow consumer never blocks the writer that triggered the
// recompute, and on catching up it observes the newest committed value.
//
// If the view already holds a value, it is delivered immediately; the fresh
// post-subscribe recompute replaces it once finished.
func (v *View[T]) Subscribe() (<-chan T, func()) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.graceTimer != nil {
		v.graceTimer.Stop()
		v.graceTimer = nil
	}
	if !v.active {
		v.activateLocked()
	}

	v.nextID++
	id := v.nextID
	ch := make(chan T, 1)
	if v.ready {
		ch <- v.current
	}
	v.subs[id] = ch

	cancelled := false
	cancel := func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		if cancelled {
			return
		}
		cancelled = true
		delete(v.subs, id)
		if len(v.subs) == 0 && v.active {
			v.scheduleTeardownLocked()
		}
	}
	return ch, cancel
}

// Current returns the most recently computed value when the view is warm,
// and computes once (without activating the view) when it is not.
func (v *View[T]) Current(ctx context.Context) (T, error) {
	v.mu.Lock()
	if v.ready {
		value := v.current
		v.mu.Unlock()
		return value, nil
	}
	v.mu.Unlock()
	return v.compute(ctx)
}

func (v *View[T]) activateLocked() {
	dirty := make(chan struct{}, 1)
	stop := make(chan struct{})

	invalidate := func(event_bus.Event) error {
		select {
		case dirty <- struct{}{}:
		default:
		}
		return nil
	}
	for _, topic := range v.topics {
		v.unsubBus = append(v.unsubBus, v.bus.Subscribe(topic, invalidate))
	}

	// initial computation
	dirty <- struct{}{}

	v.stop = stop
	v.active = true
	go v.run(stop, dirty)
}

func (v *View[T]) run(stop, dirty chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-dirty:
			value, err := v.compute(context.Background())
			if err != nil {
				log.Errorf("view %s: recompute failed, keeping previous value: %v", v.name, err)
				continue
			}

			v.mu.Lock()
			v.current = value
			v.ready = true
			for _, ch := range v.subs {
				sendLatest(ch, value)
			}
			v.mu.Unlock()
		}
	}
}

func (v *View[T]) scheduleTeardownLocked() {
	v.graceTimer = time.AfterFunc(v.grace, func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		if !v.active || len(v.subs) > 0 {
			return
		}
		for _, unsubscribe := range v.unsubBus {
			unsubscribe()
		}
		v.unsubBus = nil
		close(v.stop)
		v.active = false
		// the cache must go with the bus handlers: a detached view can no
		// longer see writes, so a kept value would be served stale forever
		v.ready = false
		var zero T
		v.current = zero
		v.graceTimer = nil
	})
}

// sendLatest delivers value without ever blocking: if the subscriber has not
// consumed the previous value yet, it is replaced by the newer one.
func sendLatest[T any](ch chan T, value T) {
	select {
	case ch <- value:
	default:
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- value:
		default:
		}
	}
}
