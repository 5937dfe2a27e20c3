// Package state wires the generic synchronizer to the Echo resources: one
// process-wide collection for the post feed and one for suggested users.
package state

import (
	"context"

	"github.com/dmitrijs2005/echoline/internal/client/models"
	"github.com/dmitrijs2005/echoline/internal/client/services"
	"github.com/dmitrijs2005/echoline/internal/client/sync"
	"github.com/dmitrijs2005/echoline/internal/logging"
)

// Feed holds the echo timeline. Only the first page is synchronized; deeper
// pages are fetched ad hoc by consumers.
type Feed struct {
	echoes *sync.Collection[int64, models.Echo]
	svc    services.EchoService
	limit  int
}

func NewFeed(svc services.EchoService, limit int, log logging.Logger) *Feed {
	return &Feed{
		echoes: sync.NewCollection("feed", models.Echo.Key, log),
		svc:    svc,
		limit:  limit,
	}
}

// Reload fetches the first feed page and replaces the collection wholesale.
func (f *Feed) Reload(ctx context.Context) error {
	return f.echoes.Load(ctx, func(ctx context.Context) ([]models.Echo, error) {
		return f.svc.Feed(ctx, 1, f.limit)
	})
}

// Post creates an echo and prepends the canonical entity the server returned.
func (f *Feed) Post(ctx context.Context, content string) (models.Echo, error) {
	return f.echoes.Insert(ctx, func(ctx context.Context) (models.Echo, error) {
		return f.svc.Create(ctx, content)
	})
}

// Like optimistically flips the liked flag and bumps the counter, rolling
// both back together if the call fails.
func (f *Feed) Like(ctx context.Context, id int64) error {
	return f.echoes.Toggle(ctx, id,
		func(e models.Echo) models.Echo { return e.WithLiked(true) },
		func(ctx context.Context) error { return f.svc.Like(ctx, id) },
	)
}

func (f *Feed) Unlike(ctx context.Context, id int64) error {
	return f.echoes.Toggle(ctx, id,
		func(e models.Echo) models.Echo { return e.WithLiked(false) },
		func(ctx context.Context) error { return f.svc.Unlike(ctx, id) },
	)
}

// Delete removes the echo immediately and restores it if the call fails.
func (f *Feed) Delete(ctx context.Context, id int64) error {
	return f.echoes.Remove(ctx, id, func(ctx context.Context) error {
		return f.svc.Delete(ctx, id)
	})
}

func (f *Feed) Get(id int64) (models.Echo, bool) {
	return f.echoes.Get(id)
}

func (f *Feed) Snapshot() sync.Snapshot[models.Echo] {
	return f.echoes.Snapshot()
}

func (f *Feed) Subscribe(fn func(sync.Snapshot[models.Echo])) func() {
	return f.echoes.Subscribe(fn)
}
