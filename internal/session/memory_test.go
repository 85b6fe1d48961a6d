package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour, 0)
	defer s.Close()

	sess, err := s.Create(ctx, 7)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, uint(7), sess.UserID)

	got, err := s.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(7), got.UserID)

	require.NoError(t, s.Destroy(ctx, sess.ID))
	_, err = s.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStoreUnknownSession(t *testing.T) {
	s := NewMemoryStore(time.Hour, 0)
	defer s.Close()

	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(time.Hour, 0)
	defer s.Close()
	s.now = func() time.Time { return now }

	sess, err := s.Create(ctx, 1)
	require.NoError(t, err)

	now = now.Add(59 * time.Minute)
	_, err = s.Get(ctx, sess.ID)
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = s.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStoreSweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(time.Hour, 0)
	defer s.Close()
	s.now = func() time.Time { return now }

	_, err := s.Create(ctx, 1)
	require.NoError(t, err)
	now = now.Add(30 * time.Minute)
	fresh, err := s.Create(ctx, 2)
	require.NoError(t, err)

	now = now.Add(45 * time.Minute)
	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 1, s.Len())

	got, err := s.Get(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(2), got.UserID)
}

func TestMemoryStoreSweeperStops(t *testing.T) {
	s := NewMemoryStore(time.Millisecond, time.Millisecond)
	_, err := s.Create(context.Background(), 1)
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, 5*time.Millisecond)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}
