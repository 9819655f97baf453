package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/stemsi/progresspoint/internal/model"
	"github.com/stemsi/progresspoint/internal/repository"
	"github.com/stemsi/progresspoint/internal/seed"
	"github.com/stemsi/progresspoint/internal/storage"
)

// ErrNoActiveSession is returned by roster operations while nobody is logged in.
var ErrNoActiveSession = errors.New("no admin is logged in")

// SessionListener is called after the logged-in admin changes. admin is nil
// after a logout.
type SessionListener func(ctx context.Context, admin *model.Admin)

// AuthService owns the process-wide session: at most one admin is logged in
// at a time and the choice survives restarts through the session repository.
type AuthService struct {
	mu        sync.RWMutex
	current   *model.Admin
	listeners []SessionListener

	// changeMu serializes Login, Logout and Restore so listeners observe
	// session changes one at a time and in the order they were applied.
	changeMu sync.Mutex

	sessions *repository.SessionRepository
	log      zerolog.Logger
}

// NewAuthService creates an AuthService with no active session. Call
// Restore to pick up a persisted session.
func NewAuthService(sessions *repository.SessionRepository, log zerolog.Logger) *AuthService {
	return &AuthService{
		sessions: sessions,
		log:      log.With().Str("component", "auth_service").Logger(),
	}
}

// OnChange registers l to be called after every login, logout and restore.
func (s *AuthService) OnChange(l SessionListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Current returns a copy of the logged-in admin, or nil.
func (s *AuthService) Current() *model.Admin {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	admin := *s.current
	return &admin
}

// Restore loads the persisted session. The stored admin is matched against
// the built-in accounts by id; blobs that are unreadable or name an unknown
// admin are discarded and leave the session empty.
func (s *AuthService) Restore(ctx context.Context) error {
	s.changeMu.Lock()
	defer s.changeMu.Unlock()

	stored, err := s.sessions.Get(ctx)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return nil
	case errors.Is(err, repository.ErrCorruptData):
		s.log.Warn().Err(err).Msg("Discarding unreadable session")
		return s.sessions.Clear(ctx)
	case err != nil:
		return fmt.Errorf("load session: %w", err)
	}

	admin, ok := seed.AdminByID(stored.ID)
	if !ok {
		s.log.Warn().Str("admin_id", stored.ID).Msg("Discarding session of unknown admin")
		return s.sessions.Clear(ctx)
	}

	s.set(&admin)
	s.log.Info().Str("admin", admin.Username).Msg("Session restored")
	s.notify(ctx, &admin)
	return nil
}

// Login matches username case-insensitively and password exactly against the
// built-in admins. On a match the session is persisted, then switched, and
// true is returned. A mismatch returns false and leaves the session as it was.
// A storage failure returns false with the error.
func (s *AuthService) Login(ctx context.Context, username, password string) (bool, error) {
	admin, ok := seed.FindAdmin(username)
	if !ok || admin.Password != password {
		s.log.Warn().Str("username", username).Msg("Login rejected")
		return false, nil
	}

	s.changeMu.Lock()
	defer s.changeMu.Unlock()

	if err := s.sessions.Save(ctx, admin); err != nil {
		return false, fmt.Errorf("persist session: %w", err)
	}

	s.set(&admin)
	s.log.Info().Str("admin", admin.Username).Msg("Admin logged in")
	s.notify(ctx, &admin)
	return true, nil
}

// Logout clears the session unconditionally, then removes its persisted
// copy. The in-memory session is gone even if the delete fails.
func (s *AuthService) Logout(ctx context.Context) error {
	s.changeMu.Lock()
	defer s.changeMu.Unlock()

	s.set(nil)
	s.log.Info().Msg("Admin logged out")
	s.notify(ctx, nil)

	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *AuthService) set(admin *model.Admin) {
	s.mu.Lock()
	s.current = admin
	s.mu.Unlock()
}

func (s *AuthService) notify(ctx context.Context, admin *model.Admin) {
	s.mu.RLock()
	listeners := make([]SessionListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, l := range listeners {
		if admin == nil {
			l(ctx, nil)
			continue
		}
		a := *admin
		l(ctx, &a)
	}
}
