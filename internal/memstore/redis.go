package memstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis is a model.MemoryStore backed by a shared redis.Client, for
// executors that need memory-store entries visible across processes.
// Values are JSON-encoded since the core treats entries as opaque.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis wraps an existing client. keyPrefix namespaces keys so multiple
// executions can share one Redis instance without collisions.
func NewRedis(client *redis.Client, keyPrefix string) *Redis {
	return &Redis{client: client, prefix: keyPrefix}
}

func (s *Redis) key(k string) string { return s.prefix + ":" + k }

func (s *Redis) Put(key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("memstore: encode %q: %w", key, err)
	}
	return s.client.Set(context.Background(), s.key(key), payload, 0).Err()
}

func (s *Redis) Get(key string) (any, bool, error) {
	raw, err := s.client.Get(context.Background(), s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, false, fmt.Errorf("memstore: decode %q: %w", key, err)
	}
	return value, true, nil
}

func (s *Redis) Has(key string) (bool, error) {
	n, err := s.client.Exists(context.Background(), s.key(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Redis) Remove(key string) error {
	return s.client.Del(context.Background(), s.key(key)).Err()
}
