// Package sessioncache provides a Redis-backed cache for session snapshots
// in front of the relational store.
//
// Graceful fallback: if Redis is unreachable or unconfigured, every lookup
// is a miss and the caller falls through to the store. The cache never
// surfaces its own failures into a turn.
package sessioncache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abcfit/fitbanker-go/internal/store"
)

// keyPrefix namespaces session snapshot entries.
const keyPrefix = "session:"

// snapshotTTL keeps cached snapshots short-lived so revocations elsewhere
// converge quickly.
const snapshotTTL = 5 * time.Minute

// Config holds Redis connection settings.
type Config struct {
	URL      string
	Password string
	DB       int
}

// Cache wraps the relational store's session lookup with a Redis layer.
// It satisfies orchestrator.SessionResolver.
type Cache struct {
	client *redis.Client
	store  store.Store
}

// New connects to Redis and returns a caching resolver over st. An empty
// URL or a failed connection returns a pass-through cache; both are logged,
// not errors.
func New(cfg Config, st store.Store) *Cache {
	c := &Cache{store: st}

	if cfg.URL == "" {
		log.Println("[SessionCache] URL not configured, pass-through mode")
		return c
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		log.Printf("[SessionCache] ❌ Invalid URL: %v", err)
		return c
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	opts.DB = cfg.DB
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[SessionCache] ❌ Connection failed: %v", err)
		client.Close()
		return c
	}

	c.client = client
	log.Println("[SessionCache] ✅ Connected")
	return c
}

// UserFromSession resolves a session token, preferring the cache.
func (c *Cache) UserFromSession(ctx context.Context, sessionID string) (*store.SessionInfo, error) {
	if sessionID == "" {
		return nil, nil
	}

	if c.client != nil {
		if raw, err := c.client.Get(ctx, keyPrefix+sessionID).Result(); err == nil {
			var info store.SessionInfo
			if json.Unmarshal([]byte(raw), &info) == nil {
				return &info, nil
			}
		}
	}

	info, err := c.store.UserFromSession(ctx, sessionID)
	if err != nil || info == nil {
		return info, err
	}

	if c.client != nil {
		if raw, err := json.Marshal(info); err == nil {
			if err := c.client.Set(ctx, keyPrefix+sessionID, raw, snapshotTTL).Err(); err != nil {
				log.Printf("[SessionCache] ⚠️ Set failed: %v", err)
			}
		}
	}
	return info, nil
}

// Invalidate drops a cached snapshot after login or logout changed the
// session's state.
func (c *Cache) Invalidate(ctx context.Context, sessionID string) {
	if c.client == nil || sessionID == "" {
		return
	}
	if err := c.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		log.Printf("[SessionCache] ⚠️ Invalidate failed: %v", err)
	}
}

// Close releases the Redis connection if one was established.
func (c *Cache) Close() {
	if c.client != nil {
		c.client.Close()
		c.client = nil
	}
}
