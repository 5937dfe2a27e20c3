package sync

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/echoline/internal/common"
	"github.com/dmitrijs2005/echoline/internal/logging"
)

// item is a minimal entity with the flag/counter pair the synchronizer
// manages for echoes and profiles.
type item struct {
	ID    int64
	Liked bool
	Count int
}

func (i item) withLiked(liked bool) item {
	if liked {
		i.Count++
	} else if i.Count > 0 {
		i.Count--
	}
	i.Liked = liked
	return i
}

func newTestCollection(t *testing.T, items ...item) *Collection[int64, item] {
	t.Helper()
	c := NewCollection("test", func(i item) int64 { return i.ID }, logging.NewDefault(slog.LevelError))
	if len(items) > 0 {
		require.NoError(t, c.Load(context.Background(), func(context.Context) ([]item, error) {
			return items, nil
		}))
	}
	return c
}

func ok(context.Context) error   { return nil }
func boom(context.Context) error { return errors.New("boom") }

func TestCollection_LoadReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	c := newTestCollection(t, item{ID: 1}, item{ID: 2})

	require.NoError(t, c.Load(ctx, func(context.Context) ([]item, error) {
		return []item{{ID: 7}, {ID: 8}, {ID: 9}}, nil
	}))

	snap := c.Snapshot()
	assert.Equal(t, StatusIdle, snap.Status)
	assert.Equal(t, []item{{ID: 7}, {ID: 8}, {ID: 9}}, snap.Items)
}

func TestCollection_LoadFailureKeepsContents(t *testing.T) {
	ctx := context.Background()
	c := newTestCollection(t, item{ID: 1, Count: 3})

	err := c.Load(ctx, func(context.Context) ([]item, error) {
		return nil, errors.New("feed unavailable")
	})
	require.Error(t, err)

	snap := c.Snapshot()
	assert.Equal(t, StatusError, snap.Status)
	assert.Equal(t, "feed unavailable", snap.Err)
	assert.Equal(t, []item{{ID: 1, Count: 3}}, snap.Items)
}

func TestCollection_LoadClearsPreviousError(t *testing.T) {
	ctx := context.Background()
	c := newTestCollection(t, item{ID: 1})

	_ = c.Load(ctx, func(context.Context) ([]item, error) { return nil, errors.New("down") })
	require.NoError(t, c.Load(ctx, func(context.Context) ([]item, error) { return []item{{ID: 2}}, nil }))

	snap := c.Snapshot()
	assert.Equal(t, StatusIdle, snap.Status)
	assert.Equal(t, "", snap.Err)
}

func TestCollection_ToggleAppliesImmediatelyAndCommits(t *testing.T) {
	ctx := context.Background()
	c := newTestCollection(t, item{ID: 1, Count: 3, Liked: false})

	confirmStarted := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- c.Toggle(ctx, 1, func(i item) item { return i.withLiked(true) }, func(context.Context) error {
			close(confirmStarted)
			<-release
			return nil
		})
	}()

	<-confirmStarted
	// speculative state is visible while the call is still outstanding
	got, found := c.Get(1)
	require.True(t, found)
	assert.Equal(t, item{ID: 1, Count: 4, Liked: true}, got)

	close(release)
	require.NoError(t, <-done)

	got, _ = c.Get(1)
	assert.Equal(t, item{ID: 1, Count: 4, Liked: true}, got)
}

func TestCollection_ToggleRollbackIsExact(t *testing.T) {
	ctx := context.Background()
	before := item{ID: 1, Count: 3, Liked: false}
	c := newTestCollection(t, before)

	err := c.Toggle(ctx, 1, func(i item) item { return i.withLiked(true) }, boom)
	require.Error(t, err)

	got, found := c.Get(1)
	require.True(t, found)
	assert.Equal(t, before, got, "post-rollback state must equal pre-mutation state")
}

func TestCollection_RollbackNeverGoesNegative(t *testing.T) {
	ctx := context.Background()
	c := newTestCollection(t, item{ID: 1, Count: 0, Liked: true})

	err := c.Toggle(ctx, 1, func(i item) item { return i.withLiked(false) }, boom)
	require.Error(t, err)

	got, _ := c.Get(1)
	assert.Equal(t, 0, got.Count)
	assert.True(t, got.Liked)
}

func TestCollection_InFlightGuardRejectsSecondToggle(t *testing.T) {
	ctx := context.Background()
	c := newTestCollection(t, item{ID: 1, Count: 3})

	confirmStarted := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	calls := 0

	go func() {
		done <- c.Toggle(ctx, 1, func(i item) item { return i.withLiked(true) }, func(context.Context) error {
			calls++
			close(confirmStarted)
			<-release
			return nil
		})
	}()

	<-confirmStarted
	// second toggle on the same key: immediate silent no-op, no network call
	require.NoError(t, c.Toggle(ctx, 1, func(i item) item { return i.withLiked(false) }, func(context.Context) error {
		calls++
		return nil
	}))

	got, _ := c.Get(1)
	assert.Equal(t, item{ID: 1, Count: 4, Liked: true}, got, "second toggle must not touch state")

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, calls)
}

func TestCollection_ToggleOnOtherKeysRunsConcurrently(t *testing.T) {
	ctx := context.Background()
	c := newTestCollection(t, item{ID: 1}, item{ID: 2})

	firstStarted := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- c.Toggle(ctx, 1, func(i item) item { return i.withLiked(true) }, func(context.Context) error {
			close(firstStarted)
			<-release
			return nil
		})
	}()

	<-firstStarted
	// a different key is not guarded by key 1's pending mutation
	require.NoError(t, c.Toggle(ctx, 2, func(i item) item { return i.withLiked(true) }, ok))

	got, _ := c.Get(2)
	assert.True(t, got.Liked)

	close(release)
	require.NoError(t, <-done)
}

func TestCollection_ToggleAbsentKey(t *testing.T) {
	c := newTestCollection(t, item{ID: 1})
	err := c.Toggle(context.Background(), 99, func(i item) item { return i }, ok)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestCollection_InsertPrependsCanonicalEntity(t *testing.T) {
	ctx := context.Background()
	c := newTestCollection(t, item{ID: 1}, item{ID: 2})

	created, err := c.Insert(ctx, func(context.Context) (item, error) {
		return item{ID: 42, Count: 0}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), created.ID)

	snap := c.Snapshot()
	require.Len(t, snap.Items, 3)
	assert.Equal(t, int64(42), snap.Items[0].ID, "canonical entity is prepended")
	assert.Equal(t, int64(1), snap.Items[1].ID)
}

func TestCollection_InsertFailureChangesNothing(t *testing.T) {
	ctx := context.Background()
	c := newTestCollection(t, item{ID: 1})

	_, err := c.Insert(ctx, func(context.Context) (item, error) {
		return item{}, errors.New("rejected")
	})
	require.Error(t, err)
	assert.Equal(t, []item{{ID: 1}}, c.Snapshot().Items)
}

func TestCollection_RemoveIsImmediate(t *testing.T) {
	ctx := context.Background()
	c := newTestCollection(t, item{ID: 1}, item{ID: 2}, item{ID: 3})

	confirmStarted := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- c.Remove(ctx, 2, func(context.Context) error {
			close(confirmStarted)
			<-release
			return nil
		})
	}()

	<-confirmStarted
	_, found := c.Get(2)
	assert.False(t, found, "entity is gone before the call settles")

	close(release)
	require.NoError(t, <-done)
	assert.Len(t, c.Snapshot().Items, 2)
}

func TestCollection_RemoveFailureRestoresAtOriginalIndex(t *testing.T) {
	ctx := context.Background()
	c := newTestCollection(t, item{ID: 1}, item{ID: 2, Count: 5}, item{ID: 3})

	err := c.Remove(ctx, 2, boom)
	require.Error(t, err)

	snap := c.Snapshot()
	require.Len(t, snap.Items, 3)
	assert.Equal(t, item{ID: 2, Count: 5}, snap.Items[1], "restored at its original index")
}

func TestCollection_DoubleRemoveIsOneOutcome(t *testing.T) {
	ctx := context.Background()
	c := newTestCollection(t, item{ID: 1}, item{ID: 2})

	confirmStarted := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	calls := 0

	go func() {
		done <- c.Remove(ctx, 1, func(context.Context) error {
			calls++
			close(confirmStarted)
			<-release
			return nil
		})
	}()

	<-confirmStarted
	// the key is already gone: second remove is a no-op, not an error
	require.NoError(t, c.Remove(ctx, 1, func(context.Context) error {
		calls++
		return nil
	}))

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, calls)
	assert.Len(t, c.Snapshot().Items, 1)
}

func TestCollection_LoadSupersedesPendingToggle(t *testing.T) {
	ctx := context.Background()
	c := newTestCollection(t, item{ID: 1, Count: 3})

	confirmStarted := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- c.Toggle(ctx, 1, func(i item) item { return i.withLiked(true) }, func(context.Context) error {
			close(confirmStarted)
			<-release
			return errors.New("too late")
		})
	}()

	<-confirmStarted
	// a full reload wins over the outstanding speculative entry
	require.NoError(t, c.Load(ctx, func(context.Context) ([]item, error) {
		return []item{{ID: 1, Count: 10, Liked: false}}, nil
	}))

	close(release)
	require.Error(t, <-done)

	// the failed settlement must not roll back on top of the reloaded truth
	got, _ := c.Get(1)
	assert.Equal(t, item{ID: 1, Count: 10, Liked: false}, got)
}

func TestCollection_LoadSupersedesPendingRemove(t *testing.T) {
	ctx := context.Background()
	c := newTestCollection(t, item{ID: 1}, item{ID: 2})

	confirmStarted := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- c.Remove(ctx, 1, func(context.Context) error {
			close(confirmStarted)
			<-release
			return errors.New("delete failed")
		})
	}()

	<-confirmStarted
	require.NoError(t, c.Load(ctx, func(context.Context) ([]item, error) {
		return []item{{ID: 2}}, nil
	}))

	close(release)
	require.Error(t, <-done)

	// no resurrection: the reload is the source of truth
	_, found := c.Get(1)
	assert.False(t, found)
	assert.Len(t, c.Snapshot().Items, 1)
}

func TestCollection_SubscriberSeesRollbackBeforeCallerSeesError(t *testing.T) {
	ctx := context.Background()
	before := item{ID: 1, Count: 3}
	c := newTestCollection(t, before)

	var states []item
	unsub := c.Subscribe(func(s Snapshot[item]) {
		if len(s.Items) == 1 {
			states = append(states, s.Items[0])
		}
	})
	defer unsub()

	err := c.Toggle(ctx, 1, func(i item) item { return i.withLiked(true) }, boom)
	require.Error(t, err)

	// speculative state first, then the rollback, both delivered before
	// Toggle returned the error
	require.Len(t, states, 2)
	assert.Equal(t, item{ID: 1, Count: 4, Liked: true}, states[0])
	assert.Equal(t, before, states[1])
}

func TestCollection_SnapshotIsDetached(t *testing.T) {
	ctx := context.Background()
	c := newTestCollection(t, item{ID: 1, Count: 3})

	snap := c.Snapshot()
	require.NoError(t, c.Toggle(ctx, 1, func(i item) item { return i.withLiked(true) }, ok))

	// the earlier snapshot is unaffected by the later mutation
	assert.Equal(t, item{ID: 1, Count: 3}, snap.Items[0])
}

func TestCollection_ToggleAfterSettlementWorksAgain(t *testing.T) {
	ctx := context.Background()
	c := newTestCollection(t, item{ID: 1, Count: 3})

	require.NoError(t, c.Toggle(ctx, 1, func(i item) item { return i.withLiked(true) }, ok))
	require.NoError(t, c.Toggle(ctx, 1, func(i item) item { return i.withLiked(false) }, ok))

	got, _ := c.Get(1)
	assert.Equal(t, item{ID: 1, Count: 3, Liked: false}, got)
}

func TestCollection_LoadNotifiesLoadingThenIdle(t *testing.T) {
	ctx := context.Background()
	c := newTestCollection(t)

	var statuses []Status
	unsub := c.Subscribe(func(s Snapshot[item]) { statuses = append(statuses, s.Status) })
	defer unsub()

	require.NoError(t, c.Load(ctx, func(context.Context) ([]item, error) {
		return []item{{ID: 1}}, nil
	}))

	require.Len(t, statuses, 2)
	assert.Equal(t, StatusLoading, statuses[0])
	assert.Equal(t, StatusIdle, statuses[1])
}

func TestCollection_SettlementAfterConsumerGone(t *testing.T) {
	// a consumer unsubscribing mid-call must not break settlement
	ctx := context.Background()
	c := newTestCollection(t, item{ID: 1})

	confirmStarted := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	unsub := c.Subscribe(func(Snapshot[item]) {})
	go func() {
		done <- c.Toggle(ctx, 1, func(i item) item { return i.withLiked(true) }, func(context.Context) error {
			close(confirmStarted)
			<-release
			return nil
		})
	}()

	<-confirmStarted
	unsub()
	close(release)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("settlement did not complete")
	}

	got, _ := c.Get(1)
	assert.True(t, got.Liked)
}
