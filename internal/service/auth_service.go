package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/carson-networks/cashflow-gateway/internal/session"
)

const minPasswordLength = 6

// CurrentSession describes the logged-in user.
type CurrentSession struct {
	User      session.User
	ExpiresAt time.Time
}

// AuthService handles login, registration and logout.
type AuthService struct {
	api        CashFlowAPI
	sessions   SessionManager
	invalidate func()
}

func NewAuthService(api CashFlowAPI, sessions SessionManager, invalidate func()) *AuthService {
	if invalidate == nil {
		invalidate = func() {}
	}
	return &AuthService{api: api, sessions: sessions, invalidate: invalidate}
}

// Login authenticates against the remote API and starts a new session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*CurrentSession, error) {
	email = strings.TrimSpace(email)

	var v validator
	v.check(email != "", "email", "is required")
	v.check(password != "", "password", "is required")
	if err := v.err(); err != nil {
		return nil, err
	}

	result, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	creds, err := s.sessions.Begin(ctx, result.Token, result.User)
	if err != nil {
		return nil, err
	}
	s.invalidate()

	return &CurrentSession{User: creds.User, ExpiresAt: creds.ExpiresAt}, nil
}

// Register creates a remote account. It does not log in.
func (s *AuthService) Register(ctx context.Context, name, email, password string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	var v validator
	v.check(name != "", "name", "is required")
	if email == "" {
		v.fail("email", "is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		v.fail("email", "is not a valid address")
	}
	v.check(len(password) >= minPasswordLength, "password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	if err := v.err(); err != nil {
		return err
	}

	return s.api.Register(ctx, name, email, password)
}

func (s *AuthService) Logout(ctx context.Context) error {
	s.invalidate()
	return s.sessions.End(ctx)
}

// Current returns the active session or session.ErrNotAuthenticated.
func (s *AuthService) Current(ctx context.Context) (*CurrentSession, error) {
	if !s.sessions.Authenticated(ctx) {
		return nil, session.ErrNotAuthenticated
	}
	user, ok := s.sessions.User()
	if !ok {
		return nil, session.ErrNotAuthenticated
	}
	return &CurrentSession{User: user, ExpiresAt: s.sessions.ExpiresAt()}, nil
}
