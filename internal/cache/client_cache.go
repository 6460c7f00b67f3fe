package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const ClientCacheTTL = 5 * time.Minute

// ClientCache stores serialized client records and the statistics payload.
// Every mutation of a client invalidates the affected keys.
type ClientCache struct {
	client *redis.Client
}

func NewClientCache(client *redis.Client) *ClientCache {
	return &ClientCache{client: client}
}

// Get returns the raw cached bytes, or nil on a miss.
func (c *ClientCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil // cache miss
	}
	if err != nil {
		return nil, err
	}
	return []byte(val), nil
}

// Set marshals data as JSON and stores it with the cache TTL.
func (c *ClientCache) Set(ctx context.Context, key string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, jsonData, ClientCacheTTL).Err()
}

// Delete drops keys after a mutation.
func (c *ClientCache) Delete(ctx context.Context, keys ...string) error {
	return c.client.Del(ctx, keys...).Err()
}

// ClientKey builds the cache key for one client record.
func ClientKey(clientID int) string {
	return fmt.Sprintf("client:%d", clientID)
}

// StatisticsKey is the cache key for the aggregated statistics payload.
func StatisticsKey() string {
	return "clients:statistics"
}
