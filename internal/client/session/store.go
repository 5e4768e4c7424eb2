// Package session holds the client's authenticated identity and keeps it in
// sync with durable local storage.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/arch1v/internal/client/models"
	"github.com/dmitrijs2005/arch1v/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/arch1v/internal/common"
	"github.com/dmitrijs2005/arch1v/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// Store is the single owner of the current Session. Storage is written
// before memory, so a persisted session is never older than the one in use.
type Store struct {
	repo metadata.Repository
	log  logging.Logger

	// mutate serializes Restore, Login and Logout.
	mutate sync.Mutex

	mu  sync.RWMutex
	cur models.Session

	subMu  sync.Mutex
	subs   map[int]func(models.Session)
	nextID int
}

func NewStore(repo metadata.Repository, log logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return &Store{
		repo: repo,
		log:  log.With("component", "session"),
		subs: make(map[int]func(models.Session)),
	}
}

// Restore adopts the persisted session if both of its keys are present.
// It never contacts the server.
func (s *Store) Restore(ctx context.Context) error {
	s.mutate.Lock()

	token, err := s.repo.Get(ctx, common.TokenStorageKey)
	if err != nil {
		s.mutate.Unlock()
		return fmt.Errorf("read token: %w", err)
	}
	user, err := s.repo.Get(ctx, common.UsernameStorageKey)
	if err != nil {
		s.mutate.Unlock()
		return fmt.Errorf("read username: %w", err)
	}

	restored := models.Session{Token: string(token), Username: string(user)}
	if !restored.Valid() {
		s.mutate.Unlock()
		s.log.Debug(ctx, "no persisted session")
		return nil
	}

	s.set(restored)
	s.mutate.Unlock()

	s.log.Info(ctx, "session restored", "username", restored.Username)
	s.notify()
	return nil
}

// Login persists token and username together, then makes them current.
// Calling it again overwrites the previous session.
func (s *Store) Login(ctx context.Context, token, username string) error {
	next := models.Session{Token: token, Username: username}
	if !next.Valid() {
		return common.ErrInvalidSession
	}

	s.mutate.Lock()
	err := s.repo.SetAll(ctx, map[string][]byte{
		common.TokenStorageKey:    []byte(token),
		common.UsernameStorageKey: []byte(username),
	})
	if err != nil {
		s.mutate.Unlock()
		return fmt.Errorf("persist session: %w", err)
	}
	s.set(next)
	s.mutate.Unlock()

	s.log.Info(ctx, "logged in", "username", username)
	s.notify()
	return nil
}

// Logout forgets the session. Memory is cleared even if storage fails.
func (s *Store) Logout(ctx context.Context) {
	s.mutate.Lock()
	if err := s.repo.Delete(ctx, common.TokenStorageKey, common.UsernameStorageKey); err != nil {
		s.log.Error(ctx, "clear persisted session", "error", err)
	}
	was := s.Current()
	s.set(models.Session{})
	s.mutate.Unlock()

	if !was.Valid() {
		return
	}
	s.log.Info(ctx, "logged out", "username", was.Username)
	s.notify()
}

func (s *Store) Current() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

func (s *Store) Token() string {
	return s.Current().Token
}

func (s *Store) Username() string {
	return s.Current().Username
}

func (s *Store) IsAuthenticated() bool {
	return s.Current().Valid()
}

// Subscribe registers fn to be called after every session change. The
// returned function removes the subscription.
func (s *Store) Subscribe(fn func(models.Session)) (cancel func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) set(v models.Session) {
	s.mu.Lock()
	s.cur = v
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.subMu.Lock()
	fns := make([]func(models.Session), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	cur := s.Current()
	for _, fn := range fns {
		fn(cur)
	}
}

// Expiry reports the exp claim of a JWT token without verifying it. It is
// meant for display only.
func Expiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	t, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := t.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
