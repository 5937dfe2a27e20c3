package sync

import (
	"context"
	stdsync "sync"
)

// CallState is the tri-state of a single-shot asynchronous operation.
// Exactly one of Data and Err is set once the call settles.
type CallState[T any] struct {
	Data    *T
	Loading bool
	Err     string
}

// Call wraps any one-shot asynchronous function with loading/data/error
// bookkeeping, independent of the per-entity machinery in Collection.
//
// Concurrent Execute calls are neither coalesced nor cancelled: the last call
// to settle determines the final observable state. Callers that need stricter
// behavior serialize their own triggers.
type Call[T any] struct {
	mu    stdsync.Mutex
	state CallState[T]
}

// Execute transitions to loading (clearing any previous error), runs fn, and
// stores its outcome. The result is also returned directly so callers do not
// have to go through State.
func (c *Call[T]) Execute(ctx context.Context, fn func(ctx context.Context) (T, error)) (T, error) {
	c.mu.Lock()
	c.state.Loading = true
	c.state.Err = ""
	c.mu.Unlock()

	value, err := fn(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Loading = false
	if err != nil {
		c.state.Data = nil
		c.state.Err = err.Error()
		var zero T
		return zero, err
	}
	v := value
	c.state.Data = &v
	c.state.Err = ""
	return value, nil
}

// Reset returns the wrapper to its initial idle state.
func (c *Call[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = CallState[T]{}
}

// State returns the current tri-state. The Data pointer, when set, refers to
// a value owned by the wrapper that is never mutated afterwards.
func (c *Call[T]) State() CallState[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
