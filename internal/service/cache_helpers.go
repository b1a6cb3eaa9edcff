package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type FetchFunc[T any] func(ctx context.Context) (T, error)

const (
	defaultFetchTimeout = 15 * time.Second
	defaultSetTimeout   = 5 * time.Second
	// refreshAfter is the fraction of the TTL after which a hit also
	// triggers a background rebuild.
	refreshAfter = 0.75
)

// entry is what is stored under a cache key.
type entry[T any] struct {
	Value   T         `json:"value"`
	BuiltAt time.Time `json:"built_at"`
}

// cacheRun carries what one FindAndCache call needs besides the fetch itself.
type cacheRun struct {
	cache   Cacher
	sf      *singleflight.Group
	key     string
	ttl     time.Duration
	logger  *zap.Logger
	onHit   func()
	onMiss  func()
	onBuild func(time.Duration)
	now     func() time.Time
}

// addTTLJitter adds up to ±15s random jitter to TTL to avoid mass expiration.
func addTTLJitter(ttl time.Duration) time.Duration {
	if ttl <= 15*time.Second {
		return ttl
	}
	jitter := time.Duration(rand.Intn(30)-15) * time.Second
	return ttl + jitter
}

func (r cacheRun) stale(builtAt time.Time) bool {
	if r.ttl <= 0 || builtAt.IsZero() {
		return false
	}
	return r.now().Sub(builtAt) > time.Duration(float64(r.ttl)*refreshAfter)
}

func build[T any](ctx context.Context, r cacheRun, fn FetchFunc[T]) (entry[T], error) {
	start := r.now()
	value, err := fn(ctx)
	if err != nil {
		return entry[T]{}, err
	}
	if r.onBuild != nil {
		r.onBuild(r.now().Sub(start))
	}
	return entry[T]{Value: value, BuiltAt: r.now()}, nil
}

func store[T any](r cacheRun, e entry[T]) {
	setCtx, cancel := context.WithTimeout(context.Background(), defaultSetTimeout)
	defer cancel()

	ttl := addTTLJitter(r.ttl)
	if err := r.cache.Set(setCtx, r.key, e, ttl); err != nil {
		r.logger.Warn("failed to set cache", zap.String("key", r.key), zap.Error(err))
		return
	}
	r.logger.Debug("cache populated", zap.String("key", r.key), zap.Duration("ttl", ttl))
}

func triggerBackgroundRefresh[T any](r cacheRun, fn FetchFunc[T]) {
	go func() {
		_, _, _ = r.sf.Do(r.key+":refresh", func() (any, error) {
			ctx, cancel := context.WithTimeout(context.Background(), defaultFetchTimeout)
			defer cancel()

			e, err := build(ctx, r, fn)
			if err != nil {
				r.logger.Warn("background refresh failed",
					zap.String("key", r.key),
					zap.Error(err))
				return nil, err
			}
			store(r, e)
			return nil, nil
		})
	}()
}

// FindAndCache implements read-through caching with singleflight and
// refresh-ahead. Cache errors are treated as misses.
func FindAndCache[T any](ctx context.Context, r cacheRun, fn FetchFunc[T]) (T, error) {
	var zero T
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	if r.now == nil {
		r.now = time.Now
	}

	var cached entry[T]
	err := r.cache.Get(ctx, r.key, &cached)
	switch {
	case err == nil:
		r.logger.Debug("cache hit", zap.String("key", r.key))
		if r.onHit != nil {
			r.onHit()
		}
		if r.stale(cached.BuiltAt) {
			triggerBackgroundRefresh(r, fn)
		}
		return cached.Value, nil

	case errors.Is(err, redis.Nil):
		r.logger.Debug("cache miss", zap.String("key", r.key))

	default:
		r.logger.Warn("cache get error (treating as miss)", zap.String("key", r.key), zap.Error(err))
	}
	if r.onMiss != nil {
		r.onMiss()
	}

	v, err, shared := r.sf.Do(r.key, func() (any, error) {
		e, err := build(ctx, r, fn)
		if err != nil {
			return nil, err
		}
		go store(r, e)
		return e.Value, nil
	})
	if err != nil {
		return zero, err
	}

	value, ok := v.(T)
	if !ok {
		r.logger.Error("singleflight type mismatch", zap.String("key", r.key))
		return zero, fmt.Errorf("type mismatch for key %q", r.key)
	}

	if shared {
		r.logger.Debug("singleflight shared result", zap.String("key", r.key))
	}

	return value, nil
}
