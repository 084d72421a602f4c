// Package session holds the per-page-load session context: the token and
// current user resolved from the credential store, and the pending
// post-login redirect.
//
// A Session is created once and passed to the transport client and the
// session guard. Initialize and Teardown bracket one "page load"; a reload
// is Teardown followed by Initialize.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/console/internal/client/credentials"
	"github.com/dmitrijs2005/console/internal/client/models"
	"github.com/dmitrijs2005/console/internal/common"
	"github.com/dmitrijs2005/console/internal/logging"
)

type Session struct {
	store  credentials.Store
	logger logging.Logger

	mu          sync.RWMutex
	active      bool
	token       string
	user        *models.User
	redirect    string
	hasRedirect bool
}

func New(store credentials.Store, logger logging.Logger) *Session {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Session{store: store, logger: logger}
}

// Store returns the credential store backing the session.
func (s *Session) Store() credentials.Store {
	return s.store
}

// Initialize starts a page load: the persisted token and user are read
// into memory. A half-written remember-me record is healed here.
func (s *Session) Initialize(ctx context.Context) error {
	if _, _, err := credentials.LoadRemembered(ctx, s.store); err != nil {
		if !errors.Is(err, common.ErrInconsistentRecord) {
			return fmt.Errorf("failed to load remembered login: %w", err)
		}
		s.logger.Warn(ctx, "cleared inconsistent remember-me record")
	}

	token, _, err := credentials.Token(ctx, s.store)
	if err != nil {
		return fmt.Errorf("failed to load session token: %w", err)
	}
	user, _, err := credentials.CurrentUser(ctx, s.store)
	if err != nil {
		return fmt.Errorf("failed to load current user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = true
	s.token = token
	s.user = user
	return nil
}

// Teardown drops all in-memory state. The credential store is untouched.
func (s *Session) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
	s.token = ""
	s.user = nil
	s.redirect = ""
	s.hasRedirect = false
}

func (s *Session) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Establish records a successful login for the rest of this page load.
func (s *Session) Establish(token string, user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
}

// Wipe forgets the session in memory and removes every credential key.
func (s *Session) Wipe(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if err := credentials.Clear(ctx, s.store); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

// Token returns the in-memory token, falling back to the store.
func (s *Session) Token(ctx context.Context) (string, bool, error) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token != "" {
		return token, true, nil
	}
	return credentials.Token(ctx, s.store)
}

// ResolveUser returns the current user or nil when nobody with a valid
// identifier is signed in.
func (s *Session) ResolveUser(ctx context.Context) (*models.User, error) {
	s.mu.RLock()
	user := s.user
	s.mu.RUnlock()
	if user.Valid() {
		return user, nil
	}

	user, ok, err := credentials.CurrentUser(ctx, s.store)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	return user, nil
}

// CurrentUser returns the user held in memory without consulting the store.
func (s *Session) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// CaptureRedirect remembers the destination to resume after login. A later
// capture replaces an earlier one.
func (s *Session) CaptureRedirect(target string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.redirect = target
	s.hasRedirect = true
}

// TakeRedirect returns the pending redirect and forgets it.
func (s *Session) TakeRedirect() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	target, ok := s.redirect, s.hasRedirect
	s.redirect = ""
	s.hasRedirect = false
	return target, ok
}
