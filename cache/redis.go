package cache

import (
	"context"
	"crypto/md5"
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	productListPrefix = "products:list:"
	productListTTL    = 5 * time.Minute
)

// RedisClient wraps the Redis connection used as a read-through cache for the
// public product list. The cache is strictly optional: every method tolerates
// a nil receiver, so the server runs without Redis when REDIS_ADDR is unset.
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient connects using REDIS_ADDR (and optional REDIS_PASSWORD).
// Returns (nil, nil) when no address is configured.
func NewRedisClient() (*RedisClient, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Println("Connected to Redis at", addr)

	return &RedisClient{client: client}, nil
}

func (c *RedisClient) Close() {
	if c != nil && c.client != nil {
		_ = c.client.Close()
	}
}

// ProductListKey derives the cache key from the normalized query string, so
// each page/filter/sort combination caches independently.
func ProductListKey(params url.Values) string {
	return productListPrefix + fmt.Sprintf("%x", md5.Sum([]byte(params.Encode())))
}

// GetProductList returns the cached response payload, if any. Errors are
// treated as misses.
func (c *RedisClient) GetProductList(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("redis get %s: %v", key, err)
		}
		return nil, false
	}
	return payload, true
}

// SetProductList stores a response payload best-effort.
func (c *RedisClient) SetProductList(ctx context.Context, key string, payload []byte) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Set(ctx, key, payload, productListTTL).Err(); err != nil {
		log.Printf("redis set %s: %v", key, err)
	}
}

// InvalidateProducts drops every cached product list. Called after any
// product write.
func (c *RedisClient) InvalidateProducts(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, productListPrefix+"*", 100).Result()
		if err != nil {
			log.Printf("redis scan: %v", err)
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				log.Printf("redis del: %v", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return
		}
	}
}
