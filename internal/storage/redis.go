package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps blobs as plain string values under a key namespace, so
// several machines can share one cache server.
// It implements the Store interface.
type RedisStore struct {
	client    *redis.Client
	namespace string
}

// NewRedisStore connects to addr and verifies the connection with PING.
func NewRedisStore(ctx context.Context, addr, password string, db int, namespace string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client, namespace: namespace}, nil
}

func (s *RedisStore) key(k string) string {
	return s.namespace + k
}

// Get returns the value for key.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get Redis key: %w", err)
	}
	return data, nil
}

// Exists uses EXISTS, which does not transfer the value.
func (s *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check Redis key: %w", err)
	}
	return n > 0, nil
}

// Put sets the value for key with no expiry.
func (s *RedisStore) Put(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, s.key(key), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set Redis key: %w", err)
	}
	return nil
}

// Rename uses RENAME, which atomically replaces the destination.
func (s *RedisStore) Rename(ctx context.Context, from, to string) error {
	n, err := s.client.Exists(ctx, s.key(from)).Result()
	if err != nil {
		return fmt.Errorf("failed to check Redis key: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	if err := s.client.Rename(ctx, s.key(from), s.key(to)).Err(); err != nil {
		return fmt.Errorf("failed to rename Redis key: %w", err)
	}
	return nil
}

// Delete removes key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete Redis key: %w", err)
	}
	return nil
}

// Close closes the client connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
