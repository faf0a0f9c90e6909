package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/carson-networks/cashflow-gateway/internal/session"
	"github.com/carson-networks/cashflow-gateway/internal/storage/sqlconfig"
)

// currentSessionID is the key of the single session row; the gateway serves
// one remote account at a time.
const currentSessionID = "current"

// SessionStore persists session credentials in the sessions table.
type SessionStore struct {
	table sqlconfig.ISessionTable
	now   func() time.Time
}

var _ session.Store = (*SessionStore)(nil)

func NewSessionStore(table sqlconfig.ISessionTable) *SessionStore {
	return &SessionStore{table: table, now: time.Now}
}

func (s *SessionStore) Load(ctx context.Context) (*session.Credentials, error) {
	row, err := s.table.Find(ctx, currentSessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if row == nil {
		return nil, nil
	}

	var user session.User
	if err := json.Unmarshal([]byte(row.UserJSON), &user); err != nil {
		return nil, fmt.Errorf("decode stored user: %w", err)
	}

	return &session.Credentials{
		Token:     row.Token,
		User:      user,
		ExpiresAt: time.UnixMilli(row.ExpiresAt).UTC(),
	}, nil
}

func (s *SessionStore) Save(ctx context.Context, creds *session.Credentials) error {
	userJSON, err := json.Marshal(creds.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	row := &sqlconfig.Session{
		ID:        currentSessionID,
		Token:     creds.Token,
		UserJSON:  string(userJSON),
		ExpiresAt: creds.ExpiresAt.UnixMilli(),
		UpdatedAt: s.now().UnixMilli(),
	}
	if err := s.table.Replace(ctx, row); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.table.Delete(ctx, currentSessionID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
