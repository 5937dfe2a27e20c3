// Package session owns the authenticated identity and bearer credential.
// The Store is the single source of truth for "who is logged in": it persists
// the pair through the storage repository, restores it at startup, and
// notifies subscribers on every change.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/echoline/internal/client/models"
	"github.com/dmitrijs2005/echoline/internal/client/repositories/storage"
	"github.com/dmitrijs2005/echoline/internal/logging"
)

// Storage keys. Two independent values: the opaque credential and the
// JSON-serialized identity.
const (
	tokenKey = "auth_token"
	userKey  = "auth_user"
)

// Session is the live identity + credential pair. Instances are immutable
// snapshots; the Store replaces the whole value on every change.
type Session struct {
	User  models.User
	Token string
}

// Store holds the current session for the lifetime of the process.
// All mutations persist to storage before they become observable in memory,
// so a reader seeing the new session always finds it in storage too.
type Store struct {
	storage storage.Repository
	log     logging.Logger

	mu      sync.RWMutex
	current *Session
	subs    map[int]func(*Session)
	nextSub int
}

func NewStore(repo storage.Repository, log logging.Logger) *Store {
	return &Store{
		storage: repo,
		log:     log,
		subs:    make(map[int]func(*Session)),
	}
}

// Restore loads the persisted session, if any. It returns (nil, nil) unless
// both the credential and the identity are present and non-empty; a stale or
// revoked credential is only discovered on the next authenticated request.
// No network call is made here.
func (s *Store) Restore(ctx context.Context) (*Session, error) {
	token, err := s.storage.Get(ctx, tokenKey)
	if err != nil {
		return nil, fmt.Errorf("reading credential: %w", err)
	}
	userData, err := s.storage.Get(ctx, userKey)
	if err != nil {
		return nil, fmt.Errorf("reading identity: %w", err)
	}
	if len(token) == 0 || len(userData) == 0 {
		return nil, nil
	}

	var user models.User
	if err := json.Unmarshal(userData, &user); err != nil {
		return nil, fmt.Errorf("decoding identity: %w", err)
	}

	sess := &Session{User: user, Token: string(token)}
	s.swap(sess)
	s.log.Debug(ctx, "session restored", "user", user.Username)
	return sess, nil
}

// Login persists the identity and credential and replaces the in-memory
// session. Subscribers are notified synchronously after the swap.
func (s *Store) Login(ctx context.Context, user models.User, token string) error {
	userData, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding identity: %w", err)
	}
	pair := map[string][]byte{
		tokenKey: []byte(token),
		userKey:  userData,
	}
	if err := s.storage.SetMany(ctx, pair); err != nil {
		return fmt.Errorf("persisting session: %w", err)
	}

	s.swap(&Session{User: user, Token: token})
	s.log.Info(ctx, "logged in", "user", user.Username)
	return nil
}

// Logout erases the persisted pair and the in-memory session. Calling it
// while logged out is a no-op.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.storage.Delete(ctx, tokenKey); err != nil {
		return fmt.Errorf("erasing credential: %w", err)
	}
	if err := s.storage.Delete(ctx, userKey); err != nil {
		return fmt.Errorf("erasing identity: %w", err)
	}

	s.mu.Lock()
	wasLoggedIn := s.current != nil
	s.current = nil
	subs := s.snapshotSubs()
	s.mu.Unlock()

	if wasLoggedIn {
		s.log.Info(ctx, "logged out")
		for _, fn := range subs {
			fn(nil)
		}
	}
	return nil
}

// UpdateUser replaces the identity half of the session, keeping the
// credential. Used after profile edits.
func (s *Store) UpdateUser(ctx context.Context, user models.User) error {
	s.mu.RLock()
	cur := s.current
	s.mu.RUnlock()
	if cur == nil {
		return fmt.Errorf("no active session")
	}

	userData, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding identity: %w", err)
	}
	if err := s.storage.Set(ctx, userKey, userData); err != nil {
		return fmt.Errorf("persisting identity: %w", err)
	}

	s.swap(&Session{User: user, Token: cur.Token})
	return nil
}

// Current returns the live session or nil. The returned value is a snapshot;
// the store never mutates a published Session in place.
func (s *Store) Current() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Token returns the bearer credential, or "" when logged out.
// It satisfies the gateway's TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// TokenExpiresAt peeks at the exp claim of the credential without verifying
// the signature. Best effort, for display and diagnostics only; the server
// remains the authority on credential validity.
func (s *Store) TokenExpiresAt() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Subscribe registers fn to run synchronously on every session change with
// the new session (nil on logout). The returned function unsubscribes.
func (s *Store) Subscribe(fn func(*Session)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) swap(next *Session) {
	s.mu.Lock()
	s.current = next
	subs := s.snapshotSubs()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
}

// snapshotSubs copies the callback set so notification runs outside the lock.
// Callers must hold mu.
func (s *Store) snapshotSubs() []func(*Session) {
	out := make([]func(*Session), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}
