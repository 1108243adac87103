package common

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"aerosafety/labelboard/internal/logging"
)

// RedisCacheService implements CacheInterface using Redis, for deployments
// running more than one replica.
type RedisCacheService struct {
	client *redis.Client
	ctx    context.Context
}

// Ensure RedisCacheService implements CacheInterface
var _ CacheInterface = (*RedisCacheService)(nil)

// NewRedisCacheService creates a Redis-backed cache around an existing client.
func NewRedisCacheService(client *redis.Client) *RedisCacheService {
	return &RedisCacheService{
		client: client,
		ctx:    context.Background(),
	}
}

func (rc *RedisCacheService) Set(key string, value interface{}, duration time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		logging.Warn("Cache set skipped, marshal failed", "key", key, "error", err.Error())
		return
	}
	if err := rc.client.Set(rc.ctx, key, data, duration).Err(); err != nil {
		logging.Warn("Cache set failed", "key", key, "error", err.Error())
	}
}

func (rc *RedisCacheService) Get(key string) (interface{}, bool) {
	data, err := rc.client.Get(rc.ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, false
	}
	return value, true
}

func (rc *RedisCacheService) Delete(key string) {
	if err := rc.client.Del(rc.ctx, key).Err(); err != nil {
		logging.Warn("Cache delete failed", "key", key, "error", err.Error())
	}
}

func (rc *RedisCacheService) GetOrSet(
	key string,
	duration time.Duration,
	loader func() (any, error)) (interface{}, error) {
	if val, found := rc.Get(key); found {
		return val, nil
	}

	val, err := loader()
	if err != nil {
		return nil, err
	}

	rc.Set(key, val, duration)
	return val, nil
}

func (rc *RedisCacheService) Close() error {
	return rc.client.Close()
}
