package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/mmynk/eventbook/internal/models"
	"github.com/mmynk/eventbook/internal/storage"
)

// cacheKey is the Redis key holding the encoded snapshot.
const cacheKey = "eventbook:catalog:v1"

// Loader reads the catalog from the store, optionally through a Redis cache.
// Concurrent loads share one round trip.
type Loader struct {
	services storage.Collection[models.Service]
	packages storage.Collection[models.Package]

	cache *redis.Client
	ttl   time.Duration
	group singleflight.Group
}

// Option configures a Loader.
type Option func(*Loader)

// WithRedisCache caches snapshots in Redis for ttl. A nil client disables caching.
func WithRedisCache(client *redis.Client, ttl time.Duration) Option {
	return func(l *Loader) {
		l.cache = client
		l.ttl = ttl
	}
}

// NewLoader creates a Loader over the store's catalog collections.
func NewLoader(store storage.Store, opts ...Option) *Loader {
	l := &Loader{
		services: store.Services(),
		packages: store.Packages(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the current catalog snapshot. Cache failures are logged and
// fall back to the store.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	v, err, _ := l.group.Do(cacheKey, func() (interface{}, error) {
		if snap, ok := l.fromCache(ctx); ok {
			return snap, nil
		}

		services, err := l.services.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list services: %w", err)
		}
		packages, err := l.packages.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list packages: %w", err)
		}

		snap := NewSnapshot(services, packages)
		l.toCache(ctx, snap)
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

// Invalidate drops the cached snapshot so the next Load reads the store.
func (l *Loader) Invalidate(ctx context.Context) error {
	if l.cache == nil {
		return nil
	}
	if err := l.cache.Del(ctx, cacheKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate catalog cache: %w", err)
	}
	return nil
}

func (l *Loader) fromCache(ctx context.Context) (*Snapshot, bool) {
	if l.cache == nil {
		return nil, false
	}
	raw, err := l.cache.Get(ctx, cacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("Catalog cache read failed", "error", err)
		return nil, false
	}

	var d snapshotData
	if err := json.Unmarshal(raw, &d); err != nil {
		slog.Warn("Catalog cache entry is corrupt", "error", err)
		return nil, false
	}
	slog.Debug("Catalog cache hit", "services", len(d.Services), "packages", len(d.Packages))
	return NewSnapshot(d.Services, d.Packages), true
}

func (l *Loader) toCache(ctx context.Context, snap *Snapshot) {
	if l.cache == nil {
		return
	}
	raw, err := json.Marshal(snap.data())
	if err != nil {
		slog.Warn("Catalog cache encode failed", "error", err)
		return
	}
	if err := l.cache.Set(ctx, cacheKey, raw, l.ttl).Err(); err != nil {
		slog.Warn("Catalog cache write failed", "error", err)
	}
}
