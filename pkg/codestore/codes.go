// Package codestore keeps short-lived verification codes in Redis so
// that code checks work across horizontally scaled instances.
package codestore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "verification:"

type Store interface {
	Set(ctx context.Context, key, code string, ttl time.Duration) error

	// Consume returns the stored code and removes it (single-use).
	// Returns "" if the key is missing or expired.
	Consume(ctx context.Context, key string) (string, error)

	Peek(ctx context.Context, key string) (string, error)
}

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Set(ctx context.Context, key, code string, ttl time.Duration) error {
	return s.client.Set(ctx, keyPrefix+key, code, ttl).Err()
}

func (s *RedisStore) Consume(ctx context.Context, key string) (string, error) {
	code, err := s.client.GetDel(ctx, keyPrefix+key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return code, err
}

func (s *RedisStore) Peek(ctx context.Context, key string) (string, error) {
	code, err := s.client.Get(ctx, keyPrefix+key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return code, err
}
