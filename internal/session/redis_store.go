package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "meetauth:session:"
)

type redisStore struct {
	client *redis.Client
	ttl    time.Duration

	generateKey func() ([32]byte, error)
}

// NewRedisStore returns a Store backed by redis, one JSON document per
// session id with the TTL enforced server-side by redis.
func NewRedisStore(client *redis.Client, ttl time.Duration) *redisStore {
	return &redisStore{client: client, ttl: ttl}
}

func (r *redisStore) Save(ctx context.Context, s *Session) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", &StoreError{fmt.Errorf("failed to marshal session: %w", err)}
	}

	generateKey := generateSessionID
	if r.generateKey != nil {
		generateKey = r.generateKey
	}
	for {
		keyBytes, err := generateKey()
		if err != nil {
			return "", &StoreError{fmt.Errorf("failed to generate session id: %w", err)}
		}
		key := base64.RawURLEncoding.EncodeToString(keyBytes[:])

		ok, err := r.client.SetNX(ctx, redisKeyPrefix+key, b, r.ttl).Result()
		if err != nil {
			return "", &StoreError{fmt.Errorf("failed to store session: %w", err)}
		}
		if !ok {
			continue
		}
		return key, nil
	}
}

func (r *redisStore) Get(ctx context.Context, id string) (*Session, bool, error) {
	b, err := r.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &StoreError{fmt.Errorf("failed to fetch session: %w", err)}
	}

	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		// A corrupt record reads as logged out rather than a hard failure.
		return nil, false, nil
	}
	return &s, true, nil
}

func (r *redisStore) Update(ctx context.Context, id string, s *Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return &StoreError{fmt.Errorf("failed to marshal session: %w", err)}
	}

	// KeepTTL keeps the original deadline: refreshing tokens must not
	// extend the session lifetime.
	ok, err := r.client.SetXX(ctx, redisKeyPrefix+id, b, redis.KeepTTL).Result()
	if err != nil {
		return &StoreError{fmt.Errorf("failed to update session: %w", err)}
	}
	if !ok {
		return &StoreError{fmt.Errorf("session '%s' not found", id)}
	}
	return nil
}

func (r *redisStore) Destroy(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return &StoreError{fmt.Errorf("failed to destroy session: %w", err)}
	}
	return nil
}
