package cli

import (
	"context"

	"github.com/dmitrijs2005/echoline/internal/client/models"
	"github.com/dmitrijs2005/echoline/internal/client/sync"
)

func (a *App) Feed(ctx context.Context) {
	if err := a.feed.Reload(ctx); err != nil {
		a.handleCallError(ctx, err)
		return
	}
	a.printFeed(a.feed.Snapshot())
}

func (a *App) printFeed(snap sync.Snapshot[models.Echo]) {
	if len(snap.Items) == 0 {
		a.printf("The feed is empty.\n")
		return
	}
	for _, e := range snap.Items {
		liked := " "
		if e.IsLiked {
			liked = "*"
		}
		a.printf("[%d] %s @%s: %s (%s%d)\n",
			e.ID, e.CreatedAt.Format("Jan 2 15:04"), e.Author.Username, e.Content, liked, e.LikesCount)
	}
}

func (a *App) Post(ctx context.Context) {
	content, err := GetMultiline(a.reader, "What's happening?", a.out)
	if err != nil {
		a.printf("Error: %v\n", err)
		return
	}
	if content == "" {
		a.printf("Nothing to post.\n")
		return
	}

	echo, err := a.feed.Post(ctx, content)
	if err != nil {
		a.handleCallError(ctx, err)
		return
	}
	a.printf("Posted echo %d.\n", echo.ID)
}

func (a *App) Like(ctx context.Context, id int64) {
	if err := a.feed.Like(ctx, id); err != nil {
		a.handleCallError(ctx, err)
		return
	}
	if e, ok := a.feed.Get(id); ok {
		a.printf("Liked echo %d (%d likes).\n", id, e.LikesCount)
	}
}

func (a *App) Unlike(ctx context.Context, id int64) {
	if err := a.feed.Unlike(ctx, id); err != nil {
		a.handleCallError(ctx, err)
		return
	}
	if e, ok := a.feed.Get(id); ok {
		a.printf("Unliked echo %d (%d likes).\n", id, e.LikesCount)
	}
}

func (a *App) DeleteEcho(ctx context.Context, id int64) {
	if err := a.feed.Delete(ctx, id); err != nil {
		a.handleCallError(ctx, err)
		return
	}
	a.printf("Deleted echo %d.\n", id)
}
