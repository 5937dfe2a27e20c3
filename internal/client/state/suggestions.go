package state

import (
	"context"

	"github.com/dmitrijs2005/echoline/internal/client/models"
	"github.com/dmitrijs2005/echoline/internal/client/services"
	"github.com/dmitrijs2005/echoline/internal/client/sync"
	"github.com/dmitrijs2005/echoline/internal/logging"
)

// Suggestions holds the who-to-follow list.
type Suggestions struct {
	users *sync.Collection[int64, models.UserProfile]
	svc   services.UserService
	limit int
}

func NewSuggestions(svc services.UserService, limit int, log logging.Logger) *Suggestions {
	return &Suggestions{
		users: sync.NewCollection("suggestions", models.UserProfile.Key, log),
		svc:   svc,
		limit: limit,
	}
}

func (s *Suggestions) Reload(ctx context.Context) error {
	return s.users.Load(ctx, func(ctx context.Context) ([]models.UserProfile, error) {
		return s.svc.Suggestions(ctx, s.limit)
	})
}

// Follow optimistically sets the following flag and bumps the follower
// counter, rolling both back together if the call fails.
func (s *Suggestions) Follow(ctx context.Context, id int64) error {
	return s.users.Toggle(ctx, id,
		func(u models.UserProfile) models.UserProfile { return u.WithFollowing(true) },
		func(ctx context.Context) error { return s.svc.Follow(ctx, id) },
	)
}

func (s *Suggestions) Unfollow(ctx context.Context, id int64) error {
	return s.users.Toggle(ctx, id,
		func(u models.UserProfile) models.UserProfile { return u.WithFollowing(false) },
		func(ctx context.Context) error { return s.svc.Unfollow(ctx, id) },
	)
}

func (s *Suggestions) Get(id int64) (models.UserProfile, bool) {
	return s.users.Get(id)
}

func (s *Suggestions) Snapshot() sync.Snapshot[models.UserProfile] {
	return s.users.Snapshot()
}

func (s *Suggestions) Subscribe(fn func(sync.Snapshot[models.UserProfile])) func() {
	return s.users.Subscribe(fn)
}
