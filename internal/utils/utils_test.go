package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := GenerateSessionToken("sess-1", "secret", time.Now().Add(time.Hour))
	require.NoError(t, err)

	id, err := ParseSessionToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", id)
}

func TestParseSessionTokenRejects(t *testing.T) {
	valid, err := GenerateSessionToken("sess-1", "secret", time.Now().Add(time.Hour))
	require.NoError(t, err)
	expired, err := GenerateSessionToken("sess-1", "secret", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	noID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"wrong secret", valid, "other"},
		{"expired", expired, "secret"},
		{"garbage", "not-a-token", "secret"},
		{"missing id", noID, "secret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSessionToken(tt.token, tt.secret)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("pw123456")
	require.NoError(t, err)
	assert.NotEqual(t, "pw123456", hash)

	assert.True(t, CheckPassword(hash, "pw123456"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("", "pw123456"))
	assert.False(t, CheckPassword("not-a-hash", "pw123456"))
}

func TestSessionRecords(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	type record struct {
		UserID uint `json:"userId"`
	}

	require.NoError(t, SaveSessionRecord(ctx, rdb, "abc", record{UserID: 3}, time.Now().Add(time.Minute)))
	assert.True(t, mr.Exists("session:abc"))

	var got record
	found, err := LoadSessionRecord(ctx, rdb, "abc", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, uint(3), got.UserID)

	require.NoError(t, DeleteSessionRecord(ctx, rdb, "abc"))
	found, err = LoadSessionRecord(ctx, rdb, "abc", &got)
	require.NoError(t, err)
	assert.False(t, found)

	err = SaveSessionRecord(ctx, rdb, "old", record{UserID: 3}, time.Now().Add(-time.Second))
	assert.ErrorIs(t, err, ErrAlreadyExpired)
	assert.False(t, mr.Exists("session:old"))
}
