package tree

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements CacheStore on Redis so several client processes can
// share one warm child-list cache. Expiry is delegated to Redis TTLs.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection before
// returning. A non-positive ttl falls back to DefaultFreshness.
func NewRedisStore(redisURL string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultFreshness
	}
	return &RedisStore{
		client: client,
		prefix: "treechildren:",
		ttl:    ttl,
	}, nil
}

func (s *RedisStore) key(parentID string) string {
	return s.prefix + parentID
}

func (s *RedisStore) Get(ctx context.Context, parentID string) ([]Node, bool, error) {
	jsonData, err := s.client.Get(ctx, s.key(parentID)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached children: %w", err)
	}

	var children []Node
	if err := json.Unmarshal([]byte(jsonData), &children); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached children: %w", err)
	}
	if children == nil {
		children = []Node{}
	}
	return children, true, nil
}

func (s *RedisStore) Set(ctx context.Context, parentID string, children []Node) error {
	if children == nil {
		children = []Node{}
	}
	jsonData, err := json.Marshal(children)
	if err != nil {
		return fmt.Errorf("marshal children: %w", err)
	}
	if err := s.client.Set(ctx, s.key(parentID), jsonData, s.ttl).Err(); err != nil {
		return fmt.Errorf("cache children: %w", err)
	}
	return nil
}

func (s *RedisStore) Invalidate(ctx context.Context, parentID string) error {
	if err := s.client.Del(ctx, s.key(parentID)).Err(); err != nil {
		return fmt.Errorf("invalidate cached children: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping checks if Redis is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
