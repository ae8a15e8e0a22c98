package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-roster/internal/config"
)

const keyPrefix = "shift-roster:candidates:"

// Snapshot is enough of a generated candidate to rebuild it with
// roster.Restore from the same inputs
type Snapshot struct {
	Signature    string  `json:"signature"`
	Seed         int32   `json:"seed"`
	FairnessBias float64 `json:"fairnessBias"`

	// External maps member names to the pairing reference dates
	// (YYYY-MM-DD) the candidate was generated against
	External map[string][]string `json:"external,omitempty"`
}

// Entry is one cached generator run
type Entry struct {
	Candidates []Snapshot `json:"candidates"`
	Attempts   int        `json:"attempts"`
	Accepted   int        `json:"accepted"`
	BestSeen   int        `json:"bestSeen"`
	BestEffort bool       `json:"bestEffort"`
	CachedAt   time.Time  `json:"cachedAt"`
}

// Cache stores generator results in redis keyed by an input fingerprint.
// A nil or disabled Cache misses on every Get and drops every Put.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// New wraps an existing redis client
func New(client *redis.Client, ttl time.Duration, logger *zap.Logger) *Cache {
	return &Cache{client: client, ttl: ttl, logger: logger}
}

// NewFromConfig connects to the configured redis. An empty address returns
// a disabled cache.
func NewFromConfig(cfg config.Cache, logger *zap.Logger) *Cache {
	if cfg.RedisAddr == "" {
		return &Cache{logger: logger}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return New(client, cfg.TTL, logger)
}

// Enabled reports whether the cache has a redis client
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Key returns the redis key for an input fingerprint
func Key(fingerprint string) string {
	return keyPrefix + fingerprint
}

// Get returns the entry cached under fingerprint. Redis errors are logged
// and reported as a miss.
func (c *Cache) Get(ctx context.Context, fingerprint string) (*Entry, bool) {
	if !c.Enabled() {
		return nil, false
	}

	data, err := c.client.Get(ctx, Key(fingerprint)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.logger.Debug("Candidate cache miss", zap.String("fingerprint", fingerprint))
		return nil, false
	}
	if err != nil {
		c.logger.Warn("Failed to read candidate cache", zap.String("fingerprint", fingerprint), zap.Error(err))
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		c.logger.Warn("Discarding corrupt candidate cache entry", zap.String("fingerprint", fingerprint), zap.Error(err))
		return nil, false
	}

	c.logger.Debug("Candidate cache hit",
		zap.String("fingerprint", fingerprint),
		zap.Int("candidates", len(entry.Candidates)))
	return &entry, true
}

// Put stores entry under fingerprint for the configured TTL
func (c *Cache) Put(ctx context.Context, fingerprint string, entry *Entry) error {
	if !c.Enabled() {
		return nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	if err := c.client.Set(ctx, Key(fingerprint), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write candidate cache: %w", err)
	}
	return nil
}

// Invalidate removes the entry for fingerprint
func (c *Cache) Invalidate(ctx context.Context, fingerprint string) error {
	if !c.Enabled() {
		return nil
	}
	if err := c.client.Del(ctx, Key(fingerprint)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate candidate cache: %w", err)
	}
	return nil
}

// Close closes the redis client
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}
