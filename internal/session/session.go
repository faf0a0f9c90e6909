package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultTTL is how long a login stays valid on this side, independent of the
// remote token's own lifetime.
const DefaultTTL = 2 * time.Hour

var (
	ErrNotAuthenticated = errors.New("session: not authenticated")
	ErrExpired          = errors.New("session: expired")
)

// User is the profile returned by the remote API on login.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// Credentials is everything persisted for a logged-in session.
type Credentials struct {
	Token     string
	User      User
	ExpiresAt time.Time
}

// Store persists credentials across restarts.
type Store interface {
	Load(ctx context.Context) (*Credentials, error)
	Save(ctx context.Context, creds *Credentials) error
	Clear(ctx context.Context) error
}

// Session is the process-wide authentication context. It is created once,
// started by Begin on login and torn down by End on logout or expiry.
type Session struct {
	mu     sync.RWMutex
	creds  *Credentials
	store  Store
	ttl    time.Duration
	now    func() time.Time
	logger *logrus.Logger
}

type Option func(*Session)

func WithTTL(ttl time.Duration) Option {
	return func(s *Session) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

func WithLogger(logger *logrus.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// New creates an empty session backed by store.
func New(store Store, opts ...Option) *Session {
	s := &Session{
		store:  store,
		ttl:    DefaultTTL,
		now:    time.Now,
		logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore loads previously saved credentials. Expired credentials are cleared
// instead of restored.
func (s *Session) Restore(ctx context.Context) error {
	creds, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	if creds == nil {
		return nil
	}
	if !s.now().Before(creds.ExpiresAt) {
		s.logger.WithField("expiresAt", creds.ExpiresAt).Info("Session.Restore.expired")
		return s.store.Clear(ctx)
	}

	s.mu.Lock()
	s.creds = creds
	s.mu.Unlock()
	return nil
}

// Begin starts a session for token and user.
func (s *Session) Begin(ctx context.Context, token string, user User) (*Credentials, error) {
	if token == "" {
		return nil, errors.New("session: empty token")
	}
	creds := &Credentials{
		Token:     token,
		User:      user,
		ExpiresAt: s.now().Add(s.ttl),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Save(ctx, creds); err != nil {
		return nil, err
	}
	s.creds = creds
	return creds, nil
}

// Token returns the bearer token of a live session. An expired session is
// torn down before ErrExpired is returned.
func (s *Session) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	creds := s.creds
	s.mu.RUnlock()

	if creds == nil {
		return "", ErrNotAuthenticated
	}
	if !s.now().Before(creds.ExpiresAt) {
		s.logger.WithField("expiresAt", creds.ExpiresAt).Warn("Session.Token.expired")
		if err := s.Revoke(ctx, creds.Token); err != nil {
			return "", err
		}
		return "", ErrExpired
	}
	return creds.Token, nil
}

// End clears the session from memory and from the store.
func (s *Session) End(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = nil
	return s.store.Clear(ctx)
}

// Revoke ends the session only while token is still the current one. A
// rejection of a token replaced by a later Begin leaves the new session alone.
func (s *Session) Revoke(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds == nil || s.creds.Token != token {
		s.logger.Debug("Session.Revoke.stale")
		return nil
	}
	s.creds = nil
	return s.store.Clear(ctx)
}

// Authenticated reports whether a live session exists.
func (s *Session) Authenticated(ctx context.Context) bool {
	_, err := s.Token(ctx)
	return err == nil
}

// User returns the logged-in user.
func (s *Session) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds == nil {
		return User{}, false
	}
	return s.creds.User, true
}

// ExpiresAt returns the expiry of the current session, zero when there is none.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds == nil {
		return time.Time{}
	}
	return s.creds.ExpiresAt
}
