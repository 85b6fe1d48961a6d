package auth

import (
	"context"
	"digital_wallet/internal/domain"
	"digital_wallet/internal/store"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// newTestService uses the cheapest bcrypt cost to keep tests fast
func newTestService() (*Service, *store.MemoryStore) {
	s := store.NewMemoryStore()
	svc := NewService(s)
	svc.hash = func(pw string) (string, error) {
		h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
		return string(h), err
	}
	return svc, s
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user with defaults and hashed password", func(t *testing.T) {
		svc, _ := newTestService()
		u, err := svc.Register(ctx, "alice", "a@x.com", "pw123456")
		require.NoError(t, err)
		assert.Equal(t, int64(0), u.Balance)
		assert.False(t, u.IsAdmin)
		assert.False(t, u.IsBanned)
		assert.NotEqual(t, "pw123456", u.Password)
	})

	t.Run("rejects duplicate username and email", func(t *testing.T) {
		svc, s := newTestService()
		_, err := svc.Register(ctx, "alice", "a@x.com", "pw123456")
		require.NoError(t, err)

		_, err = svc.Register(ctx, "alice", "b@x.com", "pw123456")
		var dup *domain.DuplicateError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "username", dup.Field)

		_, err = svc.Register(ctx, "bob", "a@x.com", "pw123456")
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "email", dup.Field)

		users, _ := s.ListUsers(ctx)
		assert.Len(t, users, 1)
	})
}

func TestService_Authenticate(t *testing.T) {
	ctx := context.Background()
	svc, s := newTestService()
	created, err := svc.Register(ctx, "alice", "a@x.com", "pw123456")
	require.NoError(t, err)

	u, err := svc.Authenticate(ctx, "alice", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)

	_, err = svc.Authenticate(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody", "pw123456")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	// Banned users still authenticate
	require.NoError(t, s.UpdateUserBanStatus(ctx, created.ID, true))
	_, err = svc.Authenticate(ctx, "alice", "pw123456")
	assert.NoError(t, err)
}

func TestService_RecordLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	u, err := svc.Register(ctx, "alice", "a@x.com", "pw123456")
	require.NoError(t, err)

	got, err := svc.RecordLogin(ctx, u.ID, "10.0.0.1")
	require.NoError(t, err)
	require.NotNil(t, got.LastLoginIP)
	assert.Equal(t, "10.0.0.1", *got.LastLoginIP)
	assert.NotNil(t, got.LastLoginTime)

	_, err = svc.RecordLogin(ctx, 99, "10.0.0.1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_BootstrapAdmin(t *testing.T) {
	ctx := context.Background()
	svc, s := newTestService()

	created, err := svc.BootstrapAdmin(ctx, "admin", "admin@wallet.com", "admin123")
	require.NoError(t, err)
	assert.True(t, created)

	admin, err := s.GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)
	_, err = svc.Authenticate(ctx, "admin", "admin123")
	assert.NoError(t, err)

	created, err = svc.BootstrapAdmin(ctx, "admin", "admin@wallet.com", "admin123")
	require.NoError(t, err)
	assert.False(t, created)
	users, _ := s.ListUsers(ctx)
	assert.Len(t, users, 1)
}
