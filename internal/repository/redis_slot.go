package repository

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

type redisSlotStore struct {
	client *redis.Client
}

// NewRedisSlotStore stores blobs as plain Redis string values without expiry
func NewRedisSlotStore(client *redis.Client) SlotStore {
	return &redisSlotStore{client: client}
}

func (s *redisSlotStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (s *redisSlotStore) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

func (s *redisSlotStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *redisSlotStore) Close() error {
	return s.client.Close()
}
