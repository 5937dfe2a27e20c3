// Package cli is the interactive console consumer of the client core. It
// renders collection snapshots and forwards user actions; all session and
// synchronization logic lives below it.
package cli

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/echoline/internal/client/api"
	"github.com/dmitrijs2005/echoline/internal/client/config"
	"github.com/dmitrijs2005/echoline/internal/client/models"
	"github.com/dmitrijs2005/echoline/internal/client/repositories/storage"
	"github.com/dmitrijs2005/echoline/internal/client/services"
	"github.com/dmitrijs2005/echoline/internal/client/session"
	"github.com/dmitrijs2005/echoline/internal/client/state"
	"github.com/dmitrijs2005/echoline/internal/client/sync"
	"github.com/dmitrijs2005/echoline/internal/logging"

	_ "modernc.org/sqlite"
)

type App struct {
	config  *config.Config
	log     logging.Logger
	session *session.Store

	auth  services.AuthService
	users services.UserService

	feed        *state.Feed
	suggestions *state.Suggestions
	search      sync.Call[[]models.UserProfile]

	closeDB func() error
	reader  *bufio.Reader
	out     io.Writer
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.NewDefault(slog.LevelInfo)

	db, err := storage.Open(ctx, cfg.StorageDSN)
	if err != nil {
		return nil, err
	}

	sessions := session.NewStore(storage.NewSQLiteRepository(db), log)
	gateway := api.NewHTTPClient(cfg.ServerEndpointAddr, cfg.RequestTimeout, sessions, log)

	echoSvc := services.NewEchoService(gateway)
	userSvc := services.NewUserService(gateway)

	a := &App{
		config:      cfg,
		log:         log,
		session:     sessions,
		auth:        services.NewAuthService(gateway),
		users:       userSvc,
		feed:        state.NewFeed(echoSvc, cfg.FeedPageLimit, log),
		suggestions: state.NewSuggestions(userSvc, cfg.SuggestionsLimit, log),
		closeDB:     db.Close,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}

	a.restoreSession(ctx)
	return a, nil
}

// restoreSession brings back a persisted session, if any. Absence is a
// normal logged-out start, not an error.
func (a *App) restoreSession(ctx context.Context) {
	var bootstrap sync.Call[*session.Session]
	sess, err := bootstrap.Execute(ctx, a.session.Restore)
	if err != nil {
		a.log.Warn(ctx, "session restore failed", "error", err)
		return
	}
	if sess != nil {
		a.log.Info(ctx, "welcome back", "user", sess.User.Username)
	}
}

func (a *App) Close() error {
	return a.closeDB()
}

func (a *App) isLoggedIn() bool {
	return a.session.Current() != nil
}

// handleCallError reports a failed call to the user. A 401-class failure
// means the credential is no longer accepted: drop the session and ask the
// user to log in again.
func (a *App) handleCallError(ctx context.Context, err error) {
	if api.IsUnauthorized(err) {
		if lerr := a.session.Logout(ctx); lerr != nil {
			a.log.Error(ctx, "logout after credential rejection failed", "error", lerr)
		}
		a.printf("Your session has expired, please log in again.\n")
		return
	}
	a.printf("Error: %v\n", err)
}
