package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func newTestSession(t *testing.T) (*Session, *MemoryStore, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
	store := NewMemoryStore()
	return New(store, WithClock(clock.now)), store, clock
}

func TestSession_BeginAndToken(t *testing.T) {
	s, store, clock := newTestSession(t)
	ctx := context.Background()

	creds, err := s.Begin(ctx, "tok-1", User{ID: 7, Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)
	assert.Equal(t, clock.t.Add(DefaultTTL), creds.ExpiresAt)

	token, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	user, ok := s.User()
	assert.True(t, ok)
	assert.Equal(t, int64(7), user.ID)

	saved, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "tok-1", saved.Token)
}

func TestSession_NoSession(t *testing.T) {
	s, _, _ := newTestSession(t)

	_, err := s.Token(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.False(t, s.Authenticated(context.Background()))
	assert.True(t, s.ExpiresAt().IsZero())
}

func TestSession_ExpiryClearsCredentials(t *testing.T) {
	s, store, clock := newTestSession(t)
	ctx := context.Background()

	_, err := s.Begin(ctx, "tok-1", User{ID: 1})
	require.NoError(t, err)

	clock.t = clock.t.Add(DefaultTTL)

	_, err = s.Token(ctx)
	assert.ErrorIs(t, err, ErrExpired)

	_, ok := s.User()
	assert.False(t, ok)
	saved, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, saved)

	_, err = s.Token(ctx)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestSession_End(t *testing.T) {
	s, store, _ := newTestSession(t)
	ctx := context.Background()

	_, err := s.Begin(ctx, "tok-1", User{ID: 1})
	require.NoError(t, err)
	require.NoError(t, s.End(ctx))

	assert.False(t, s.Authenticated(ctx))
	saved, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, saved)
}

func TestSession_RevokeCurrentToken(t *testing.T) {
	s, store, _ := newTestSession(t)
	ctx := context.Background()

	_, err := s.Begin(ctx, "tok-1", User{ID: 1})
	require.NoError(t, err)
	require.NoError(t, s.Revoke(ctx, "tok-1"))

	assert.False(t, s.Authenticated(ctx))
	saved, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, saved)
}

func TestSession_RevokeReplacedTokenKeepsNewSession(t *testing.T) {
	s, store, _ := newTestSession(t)
	ctx := context.Background()

	_, err := s.Begin(ctx, "old-token", User{ID: 1})
	require.NoError(t, err)
	_, err = s.Begin(ctx, "new-token", User{ID: 1})
	require.NoError(t, err)

	require.NoError(t, s.Revoke(ctx, "old-token"))

	token, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new-token", token)
	saved, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "new-token", saved.Token)
}

func TestSession_RevokeWithoutSession(t *testing.T) {
	s, _, _ := newTestSession(t)

	assert.NoError(t, s.Revoke(context.Background(), "tok-1"))
	assert.False(t, s.Authenticated(context.Background()))
}

func TestSession_Restore(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, &Credentials{
		Token:     "persisted",
		User:      User{ID: 3},
		ExpiresAt: clock.t.Add(time.Hour),
	}))

	s := New(store, WithClock(clock.now))
	require.NoError(t, s.Restore(ctx))

	token, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "persisted", token)
}

func TestSession_RestoreExpired(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, &Credentials{
		Token:     "stale",
		ExpiresAt: clock.t.Add(-time.Minute),
	}))

	s := New(store, WithClock(clock.now))
	require.NoError(t, s.Restore(ctx))

	assert.False(t, s.Authenticated(ctx))
	saved, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, saved)
}

func TestSession_WithTTL(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
	s := New(NewMemoryStore(), WithClock(clock.now), WithTTL(10*time.Minute))

	creds, err := s.Begin(context.Background(), "tok", User{})
	require.NoError(t, err)
	assert.Equal(t, clock.t.Add(10*time.Minute), creds.ExpiresAt)
}

func TestSession_BeginRejectsEmptyToken(t *testing.T) {
	s, _, _ := newTestSession(t)

	_, err := s.Begin(context.Background(), "", User{})
	assert.Error(t, err)
	assert.False(t, s.Authenticated(context.Background()))
}
