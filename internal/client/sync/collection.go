// Package sync keeps locally held collections consistent with the remote
// source of truth under optimistic, unconfirmed mutations.
//
// A Collection applies a speculative change to local state before the
// confirming network call settles, then either keeps it (commit) or restores
// the exact previous value (rollback). A per-key in-flight set prevents a
// second toggle on a key whose first toggle has not settled, and a generation
// counter lets a completed reload supersede late settlements.
package sync

import (
	"context"
	stdsync "sync"

	"github.com/dmitrijs2005/echoline/internal/common"
	"github.com/dmitrijs2005/echoline/internal/logging"
)

// Status is the collection-level tri-state.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusError
)

// Snapshot is an immutable view of the collection handed to subscribers.
type Snapshot[T any] struct {
	Items  []T
	Status Status
	Err    string
}

// Collection is an ordered, key-unique sequence of entities plus the
// machinery for optimistic mutations. One instance per named collection,
// process-wide, for the lifetime of the application.
//
// Entities are value snapshots: every mutation replaces the backing slice,
// never an element in place. Subscribers run synchronously after each
// transition, outside the lock, with the snapshot taken at transition time,
// so by the time a caller observes a mutation error the rollback is already
// visible.
type Collection[K comparable, T any] struct {
	name  string
	keyOf func(T) K
	log   logging.Logger

	mu       stdsync.Mutex
	items    []T
	status   Status
	errMsg   string
	inflight map[K]struct{}
	gen      uint64
	subs     map[int]func(Snapshot[T])
	nextSub  int
}

func NewCollection[K comparable, T any](name string, keyOf func(T) K, log logging.Logger) *Collection[K, T] {
	return &Collection[K, T]{
		name:     name,
		keyOf:    keyOf,
		log:      log.With("collection", name),
		inflight: make(map[K]struct{}),
		subs:     make(map[int]func(Snapshot[T])),
	}
}

// Load fetches the full collection and replaces the contents wholesale on
// success. A completed load always wins: it bumps the generation so a
// settlement of any still-pending mutation is discarded. On failure the
// previous contents stay untouched and only the error slot is set.
func (c *Collection[K, T]) Load(ctx context.Context, fetch func(ctx context.Context) ([]T, error)) error {
	c.mu.Lock()
	c.status = StatusLoading
	c.errMsg = ""
	notify := c.notifyLocked()
	c.mu.Unlock()
	notify()

	items, err := fetch(ctx)

	c.mu.Lock()
	if err != nil {
		c.status = StatusError
		c.errMsg = err.Error()
		notify = c.notifyLocked()
		c.mu.Unlock()
		notify()
		c.log.Warn(ctx, "load failed", "error", err)
		return err
	}
	c.items = append([]T(nil), items...)
	c.status = StatusIdle
	c.gen++
	notify = c.notifyLocked()
	c.mu.Unlock()
	notify()

	c.log.Debug(ctx, "loaded", "count", len(items))
	return nil
}

// Insert runs the create call and, on success, prepends the canonical entity
// the server returned. Creation is not applied optimistically: on failure
// nothing was inserted locally, so there is nothing to roll back.
func (c *Collection[K, T]) Insert(ctx context.Context, create func(ctx context.Context) (T, error)) (T, error) {
	entity, err := create(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	c.mu.Lock()
	key := c.keyOf(entity)
	next := make([]T, 0, len(c.items)+1)
	next = append(next, entity)
	for _, it := range c.items {
		if c.keyOf(it) != key {
			next = append(next, it)
		}
	}
	c.items = next
	notify := c.notifyLocked()
	c.mu.Unlock()
	notify()

	return entity, nil
}

// Toggle applies a speculative mutation to the entity under key, then runs
// confirm. On success the speculative value stands; on failure the retained
// previous value is restored exactly as it was. A toggle on a key that is
// already awaiting confirmation is rejected synchronously without a network
// call: that is a user double-action, not a fault, so it is a silent no-op.
// A toggle on an absent key returns common.ErrorNotFound.
func (c *Collection[K, T]) Toggle(ctx context.Context, key K, apply func(T) T, confirm func(ctx context.Context) error) error {
	c.mu.Lock()
	if _, busy := c.inflight[key]; busy {
		c.mu.Unlock()
		c.log.Debug(ctx, "toggle rejected, mutation in flight", "key", key)
		return nil
	}
	idx := c.indexLocked(key)
	if idx < 0 {
		c.mu.Unlock()
		return common.ErrorNotFound
	}

	prev := c.items[idx]
	c.replaceLocked(idx, apply(prev))
	c.inflight[key] = struct{}{}
	startGen := c.gen
	notify := c.notifyLocked()
	c.mu.Unlock()
	notify()

	err := confirm(ctx)

	c.mu.Lock()
	delete(c.inflight, key)
	if err != nil {
		// roll back, unless a reload replaced the collection meanwhile
		if c.gen == startGen {
			if i := c.indexLocked(key); i >= 0 {
				c.replaceLocked(i, prev)
			}
		}
		notify = c.notifyLocked()
		c.mu.Unlock()
		notify()
		c.log.Warn(ctx, "toggle failed, rolled back", "key", key, "error", err)
		return err
	}
	c.mu.Unlock()
	return nil
}

// Remove deletes the entity under key immediately and runs confirm. There is
// no pending display state for a deleted row. On failure the entity is
// re-inserted at its original index, unless a reload replaced the collection
// in between. Removing an absent key is a no-op, so a second delete issued
// before the first settles produces exactly one removal outcome.
func (c *Collection[K, T]) Remove(ctx context.Context, key K, confirm func(ctx context.Context) error) error {
	c.mu.Lock()
	idx := c.indexLocked(key)
	if idx < 0 {
		c.mu.Unlock()
		c.log.Debug(ctx, "remove ignored, key absent", "key", key)
		return nil
	}

	prev := c.items[idx]
	next := make([]T, 0, len(c.items)-1)
	next = append(next, c.items[:idx]...)
	next = append(next, c.items[idx+1:]...)
	c.items = next
	c.inflight[key] = struct{}{}
	startGen := c.gen
	notify := c.notifyLocked()
	c.mu.Unlock()
	notify()

	err := confirm(ctx)

	c.mu.Lock()
	delete(c.inflight, key)
	if err != nil {
		if c.gen == startGen && c.indexLocked(key) < 0 {
			at := idx
			if at > len(c.items) {
				at = len(c.items)
			}
			restored := make([]T, 0, len(c.items)+1)
			restored = append(restored, c.items[:at]...)
			restored = append(restored, prev)
			restored = append(restored, c.items[at:]...)
			c.items = restored
		}
		notify = c.notifyLocked()
		c.mu.Unlock()
		notify()
		c.log.Warn(ctx, "remove failed, restored", "key", key, "error", err)
		return err
	}
	c.mu.Unlock()
	return nil
}

// Get returns the entity under key, if present.
func (c *Collection[K, T]) Get(key K) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexLocked(key); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

// Snapshot returns a copy of the current contents and status.
func (c *Collection[K, T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers fn to run on every state transition. The returned
// function unsubscribes.
func (c *Collection[K, T]) Subscribe(fn func(Snapshot[T])) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Collection[K, T]) indexLocked(key K) int {
	for i, it := range c.items {
		if c.keyOf(it) == key {
			return i
		}
	}
	return -1
}

// replaceLocked swaps the element at idx on a fresh slice so published
// snapshots never alias a mutated array.
func (c *Collection[K, T]) replaceLocked(idx int, value T) {
	next := append([]T(nil), c.items...)
	next[idx] = value
	c.items = next
}

func (c *Collection[K, T]) snapshotLocked() Snapshot[T] {
	return Snapshot[T]{
		Items:  append([]T(nil), c.items...),
		Status: c.status,
		Err:    c.errMsg,
	}
}

// notifyLocked captures the snapshot and subscriber list under the lock and
// returns a closure that delivers them; callers invoke it after unlocking.
func (c *Collection[K, T]) notifyLocked() func() {
	if len(c.subs) == 0 {
		return func() {}
	}
	snap := c.snapshotLocked()
	subs := make([]func(Snapshot[T]), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	return func() {
		for _, fn := range subs {
			fn(snap)
		}
	}
}
