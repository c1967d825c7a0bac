package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "upgrade-notify:dedup:"

// RedisDedupStore implements port.DedupStore on Redis. A fingerprint is a
// plain key with a TTL; presence means "already notified within the
// window".
type RedisDedupStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDedupStore creates a dedup store and verifies the connection.
func NewRedisDedupStore(host, port, password string, db int, ttl time.Duration) (*RedisDedupStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%s", host, port),
		Password:    password,
		DB:          db,
		DialTimeout: 5 * time.Second,
		ReadTimeout: 3 * time.Second,
		MaxRetries:  3,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisDedupStore{
		client: client,
		ttl:    ttl,
	}, nil
}

// Seen reports whether the fingerprint was marked within the TTL window.
func (s *RedisDedupStore) Seen(ctx context.Context, fingerprint string) (bool, error) {
	err := s.client.Get(ctx, keyPrefix+fingerprint).Err()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check fingerprint: %w", err)
	}
	return true, nil
}

// Mark records the fingerprint with the configured TTL.
func (s *RedisDedupStore) Mark(ctx context.Context, fingerprint string) error {
	if err := s.client.Set(ctx, keyPrefix+fingerprint, time.Now().UTC().Format(time.RFC3339), s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to mark fingerprint: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisDedupStore) Close() error {
	return s.client.Close()
}
