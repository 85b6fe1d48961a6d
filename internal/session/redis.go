package session

import (
	"context"                       // Context for Redis operations
	"digital_wallet/internal/utils" // Redis session records
	"time"                          // Time durations

	"github.com/google/uuid"       // Session identifiers
	"github.com/redis/go-redis/v9" // Redis client
)

// RedisStore keeps sessions in Redis; expiry is delegated to key TTLs
type RedisStore struct {
	rdb redis.UniversalClient // Redis client
	ttl time.Duration         // Session lifetime
	now func() time.Time      // Time source
}

// NewRedisStore wraps a connected Redis client
func NewRedisStore(rdb redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl, now: time.Now}
}

// Create stores a new session for userID that expires after the store TTL
func (s *RedisStore) Create(ctx context.Context, userID uint) (*Session, error) {
	sess := Session{
		ID:        uuid.NewString(),   // Random session id
		UserID:    userID,             // Owner
		ExpiresAt: s.now().Add(s.ttl), // Absolute expiry
	}
	if err := utils.SaveSessionRecord(ctx, s.rdb, sess.ID, sess, sess.ExpiresAt); err != nil {
		return nil, err // Redis unavailable or TTL not positive
	}
	return &sess, nil
}

// Get returns the live session with the given id or ErrSessionNotFound
func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	var sess Session // Decoded session record
	found, err := utils.LoadSessionRecord(ctx, s.rdb, id, &sess)
	if err != nil {
		return nil, err // Redis or decode failure
	}
	// The key TTL usually removes expired records, the ExpiresAt check covers clock skew
	if !found || sess.Expired(s.now()) {
		return nil, ErrSessionNotFound
	}
	return &sess, nil
}

// Destroy removes the session; unknown ids are ignored
func (s *RedisStore) Destroy(ctx context.Context, id string) error {
	return utils.DeleteSessionRecord(ctx, s.rdb, id)
}

// Close closes the underlying client
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

var _ Store = (*RedisStore)(nil)
