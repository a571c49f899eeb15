package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"screener/pkg/model"

	"github.com/redis/go-redis/v9"
)

// Cache stores candle series by symbol
type Cache interface {
	Name() string
	Get(ctx context.Context, symbol string) ([]model.Candle, bool, error)
	Set(ctx context.Context, symbol string, candles []model.Candle) error
}

type memoryEntry struct {
	candles []model.Candle
	expires time.Time
}

// MemoryCache keeps candles in process. A zero ttl never expires.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryCache creates an in-memory cache
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemoryCache) Name() string { return "memory" }

func (c *MemoryCache) Get(_ context.Context, symbol string) ([]model.Candle, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[symbol]
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && c.now().After(e.expires) {
		delete(c.entries, symbol)
		return nil, false, nil
	}
	return e.candles, true, nil
}

func (c *MemoryCache) Set(_ context.Context, symbol string, candles []model.Candle) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := memoryEntry{candles: candles}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}
	c.entries[symbol] = e
	return nil
}

// RedisConfig holds the Redis connection settings
type RedisConfig struct {
	Addr     string `yaml:"addr" default:"localhost:6379"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db" validate:"gte=0"`
}

// RedisCache stores candles as JSON values in Redis
type RedisCache struct {
	cli    *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisCache creates a Redis-backed cache
func NewRedisCache(cfg RedisConfig, ttl time.Duration) *RedisCache {
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	return NewRedisCacheWithClient(rdb, ttl)
}

// NewRedisCacheWithClient wraps an existing client
func NewRedisCacheWithClient(cli *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{cli: cli, ttl: ttl, prefix: "screener:candles:"}
}

func (c *RedisCache) Name() string { return "redis" }

func (c *RedisCache) Get(ctx context.Context, symbol string) ([]model.Candle, bool, error) {
	b, err := c.cli.Get(ctx, c.prefix+symbol).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get %s: %w", symbol, err)
	}

	var candles []model.Candle
	if err := json.Unmarshal(b, &candles); err != nil {
		return nil, false, fmt.Errorf("decoding cached candles for %s: %w", symbol, err)
	}
	return candles, true, nil
}

func (c *RedisCache) Set(ctx context.Context, symbol string, candles []model.Candle) error {
	b, err := json.Marshal(candles)
	if err != nil {
		return fmt.Errorf("encoding candles for %s: %w", symbol, err)
	}
	if err := c.cli.Set(ctx, c.prefix+symbol, b, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", symbol, err)
	}
	return nil
}

// Ping checks the connection
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.cli.Ping(ctx).Err()
}

// Close releases the client
func (c *RedisCache) Close() error {
	return c.cli.Close()
}
