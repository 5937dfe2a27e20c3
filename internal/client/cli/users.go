package cli

import (
	"context"

	"github.com/dmitrijs2005/echoline/internal/client/models"
)

func (a *App) Suggest(ctx context.Context) {
	if err := a.suggestions.Reload(ctx); err != nil {
		a.handleCallError(ctx, err)
		return
	}
	snap := a.suggestions.Snapshot()
	if len(snap.Items) == 0 {
		a.printf("No suggestions right now.\n")
		return
	}
	for _, u := range snap.Items {
		following := ""
		if u.IsFollowing {
			following = " (following)"
		}
		a.printf("[%d] @%s %s, %d followers%s\n",
			u.ID, u.Username, u.DisplayName, u.FollowersCount, following)
	}
}

func (a *App) Follow(ctx context.Context, id int64) {
	if err := a.suggestions.Follow(ctx, id); err != nil {
		a.handleCallError(ctx, err)
		return
	}
	if u, ok := a.suggestions.Get(id); ok {
		a.printf("Following @%s.\n", u.Username)
	}
}

func (a *App) Unfollow(ctx context.Context, id int64) {
	if err := a.suggestions.Unfollow(ctx, id); err != nil {
		a.handleCallError(ctx, err)
		return
	}
	if u, ok := a.suggestions.Get(id); ok {
		a.printf("Unfollowed @%s.\n", u.Username)
	}
}

func (a *App) Search(ctx context.Context, query string) {
	users, err := a.search.Execute(ctx, func(ctx context.Context) ([]models.UserProfile, error) {
		return a.users.Search(ctx, query, 1, 20)
	})
	if err != nil {
		a.handleCallError(ctx, err)
		return
	}
	if len(users) == 0 {
		a.printf("No users matching %q.\n", query)
		return
	}
	for _, u := range users {
		a.printf("[%d] @%s %s\n", u.ID, u.Username, u.DisplayName)
	}
}

// SetName updates the display name on the server and mirrors the change into
// the session identity.
func (a *App) SetName(ctx context.Context, displayName string) {
	sess := a.session.Current()
	if sess == nil {
		a.printf("Not logged in.\n")
		return
	}

	updated, err := a.users.UpdateProfile(ctx, models.UpdateProfileRequest{DisplayName: &displayName})
	if err != nil {
		a.handleCallError(ctx, err)
		return
	}

	user := sess.User
	user.DisplayName = updated.DisplayName
	if err := a.session.UpdateUser(ctx, user); err != nil {
		a.printf("Could not persist the updated identity: %v\n", err)
		return
	}
	a.printf("Display name is now %q.\n", updated.DisplayName)
}
