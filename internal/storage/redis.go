package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	inErrors "github.com/Alturino/journey/internal/errors"
)

// DefaultTTL matches the lifetime of the session cookie.
const DefaultTTL = 30 * 24 * time.Hour

type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (s *Redis) Get(c context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(c, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, inErrors.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed reading key=%s from redis with error=%w", key, err)
	}
	return value, nil
}

func (s *Redis) Set(c context.Context, key string, value []byte) error {
	if err := s.client.Set(c, key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed writing key=%s to redis with error=%w", key, err)
	}
	return nil
}

func (s *Redis) Delete(c context.Context, key string) error {
	if err := s.client.Del(c, key).Err(); err != nil {
		return fmt.Errorf("failed deleting key=%s from redis with error=%w", key, err)
	}
	return nil
}

func (s *Redis) Keys(c context.Context, prefix string) ([]string, error) {
	keys := []string{}
	iter := s.client.Scan(c, 0, prefix+"*", 100).Iterator()
	for iter.Next(c) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed scanning prefix=%s from redis with error=%w", prefix, err)
	}
	return keys, nil
}

func (s *Redis) Close() error {
	return s.client.Close()
}
