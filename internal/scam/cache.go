package scam

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"orato/internal/config"
)

// RedisCache keeps generative answers in Redis so repeated messages skip the
// model call.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache connects and pings the configured server.
func NewRedisCache(ctx context.Context, cfg config.Cache) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 2 * time.Second,
		MaxRetries:  1,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis %s: %w", cfg.Addr, err)
	}
	return &RedisCache{
		client: client,
		prefix: cfg.Prefix,
		ttl:    time.Duration(cfg.TTLSeconds) * time.Second,
	}, nil
}

// CacheKey derives the storage key for message.
func CacheKey(prefix, message string) string {
	sum := sha256.Sum256([]byte(message))
	return prefix + hex.EncodeToString(sum[:])
}

func (c *RedisCache) Get(ctx context.Context, message string) (string, bool, error) {
	label, err := c.client.Get(ctx, CacheKey(c.prefix, message)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	if label != LabelSpam && label != LabelHam {
		return "", false, nil
	}
	return label, true, nil
}

func (c *RedisCache) Set(ctx context.Context, message, label string) error {
	if err := c.client.Set(ctx, CacheKey(c.prefix, message), label, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
