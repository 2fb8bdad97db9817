// package livequery defers a live query subscription until its consumer is visible.
//
// A Binding starts Dormant with the query suppressed. The first visibility
// event at or above the intersection threshold arms it: the query runs once
// and its result is published on a channel that stays live. Arming is
// terminal; later visibility changes never re-gate the subscription. This
// keeps long scrollable lists from issuing queries for off-screen content.
package livequery

import (
	"context"
	"sync"
	"sync/atomic"
)

// Intersection ratio required to arm a binding.
const VisibilityThreshold = 0.5

// State of a binding. Dormant bindings have never been visible; Armed
// bindings have issued their query and stay armed for the binding's lifetime.
type State int32

const (
	Dormant State = iota
	Armed
)

func (s State) String() string {
	switch s {
	case Dormant:
		return "dormant"
	case Armed:
		return "armed"
	default:
		return "unknown"
	}
}

// VisibilityEvent reports one observation of the bound element.
type VisibilityEvent struct {
	Intersecting bool
	Ratio        float64
}

// QueryFunc issues the deferred query with its real arguments.
type QueryFunc[T any] func(ctx context.Context) (T, error)

// Result carries one published query result or its error.
type Result[T any] struct {
	Value T
	Err   error
}

// Binding gates a QueryFunc behind first visibility.
type Binding[T any] struct {
	query   QueryFunc[T]
	state   atomic.Int32
	arm     sync.Once
	results chan Result[T]
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewBinding creates a Dormant binding around the given query.
func NewBinding[T any](ctx context.Context, query QueryFunc[T]) *Binding[T] {
	ctx, cancel := context.WithCancel(ctx)
	return &Binding[T]{
		query:   query,
		results: make(chan Result[T], 1),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Observe feeds one visibility event to the binding.
//
// The Dormant to Armed transition fires exactly once, on the first event that
// intersects at or above [VisibilityThreshold]. Every event after that is a
// no-op; the binding conceptually detaches its observer on arming.
func (b *Binding[T]) Observe(event VisibilityEvent) {
	if !event.Intersecting || event.Ratio < VisibilityThreshold {
		return
	}

	b.arm.Do(func() {
		b.state.Store(int32(Armed))
		go b.run()
	})
}

// run issues the query once and publishes its result.
func (b *Binding[T]) run() {
	value, err := b.query(b.ctx)

	select {
	case b.results <- Result[T]{Value: value, Err: err}:
	case <-b.ctx.Done():
	}
}

// State returns the binding's current state.
func (b *Binding[T]) State() State {
	return State(b.state.Load())
}

// Results returns the channel on which the query result is published.
//
// The channel remains open for the binding's lifetime: the subscription is
// not re-gated on later visibility loss.
func (b *Binding[T]) Results() <-chan Result[T] {
	return b.results
}

// Close abandons the binding, releasing the query if it has not completed.
func (b *Binding[T]) Close() {
	b.cancel()
}
