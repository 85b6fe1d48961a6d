package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"errors"        // Sentinel errors
	"time"          // Expiry times

	"github.com/redis/go-redis/v9" // Redis client
)

// sessionKeyPrefix namespaces session records in Redis
const sessionKeyPrefix = "session:"

// ErrAlreadyExpired is returned when a record would be stored past its expiry
var ErrAlreadyExpired = errors.New("record already expired")

// SessionKey returns the Redis key holding the session with the given id
func SessionKey(id string) string {
	return sessionKeyPrefix + id
}

// LoadSessionRecord reads the session stored under id into dest, reporting whether it exists
func LoadSessionRecord(ctx context.Context, rdb redis.Cmdable, id string, dest any) (bool, error) {
	val, err := rdb.Get(ctx, SessionKey(id)).Bytes() // Get value from Redis
	if errors.Is(err, redis.Nil) {
		return false, nil // Unknown or expired session
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal(val, dest) // Unmarshal JSON into dest
}

// SaveSessionRecord stores value under id and lets Redis drop it at expiresAt
func SaveSessionRecord(ctx context.Context, rdb redis.Cmdable, id string, value any, expiresAt time.Time) error {
	ttl := time.Until(expiresAt) // Key lifetime matches the session expiry
	if ttl <= 0 {
		return ErrAlreadyExpired
	}
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return rdb.Set(ctx, SessionKey(id), b, ttl).Err() // Set value in Redis with TTL
}

// DeleteSessionRecord removes the session stored under id; unknown ids are not an error
func DeleteSessionRecord(ctx context.Context, rdb redis.Cmdable, id string) error {
	return rdb.Del(ctx, SessionKey(id)).Err() // Delete key from Redis
}
