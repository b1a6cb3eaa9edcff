package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CacheMetrics receives cache and build observations.
type CacheMetrics interface {
	CacheHit(op string)
	CacheMiss(op string)
	ObserveBuild(op string, d time.Duration)
}

// VersionSource reports the current snapshot version.
type VersionSource interface {
	SnapshotVersion(ctx context.Context) (int64, error)
}

// CachedDashboard decorates a DashboardService with read-through caching.
// Keys embed the snapshot version, so an import makes every older entry
// unreachable.
type CachedDashboard struct {
	next     *DashboardService
	cache    Cacher
	versions VersionSource
	metrics  CacheMetrics
	logger   *zap.Logger
	ttl      time.Duration
	sf       singleflight.Group
}

// NewCachedDashboard wraps next. A nil metrics discards observations.
func NewCachedDashboard(next *DashboardService, cache Cacher, versions VersionSource, ttl time.Duration, metrics CacheMetrics, logger *zap.Logger) *CachedDashboard {
	if next == nil || cache == nil || versions == nil {
		panic("dashboard, cache and version source must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedDashboard{
		next:     next,
		cache:    cache,
		versions: versions,
		metrics:  metrics,
		logger:   logger,
		ttl:      ttl,
	}
}

func (c *CachedDashboard) Views() []ViewInfo {
	return c.next.Views()
}

func (c *CachedDashboard) Query(ctx context.Context, q Query) (View, error) {
	if _, _, err := resolve(q); err != nil {
		return View{}, err
	}
	return cached[View](ctx, c, "query", q, func(ctx context.Context) (View, error) {
		return c.next.Query(ctx, q)
	})
}

func (c *CachedDashboard) Drilldown(ctx context.Context, q Query, key string) (Bucket, error) {
	if _, _, err := resolve(q); err != nil {
		return Bucket{}, err
	}
	params := struct {
		Query Query  `json:"query"`
		Key   string `json:"key"`
	}{q, key}
	return cached[Bucket](ctx, c, "drilldown", params, func(ctx context.Context) (Bucket, error) {
		return c.next.Drilldown(ctx, q, key)
	})
}

func (c *CachedDashboard) Records(ctx context.Context, q RecordsQuery) (RecordsPage, error) {
	if _, err := resolveDataset(q); err != nil {
		return RecordsPage{}, err
	}
	return cached[RecordsPage](ctx, c, "records", q, func(ctx context.Context) (RecordsPage, error) {
		return c.next.Records(ctx, q)
	})
}

func (c *CachedDashboard) Overview(ctx context.Context) (Overview, error) {
	return cached[Overview](ctx, c, "overview", struct{}{}, c.next.Overview)
}

// cached serves op from the cache, falling through to fn when the snapshot
// version cannot be read.
func cached[T any](ctx context.Context, c *CachedDashboard, op string, params any, fn FetchFunc[T]) (T, error) {
	version, err := c.versions.SnapshotVersion(ctx)
	if err != nil {
		c.logger.Warn("snapshot version unavailable, bypassing cache", zap.String("op", op), zap.Error(err))
		return fn(ctx)
	}
	key, err := cacheKey(op, version, params)
	if err != nil {
		return fn(ctx)
	}

	run := cacheRun{
		cache:  c.cache,
		sf:     &c.sf,
		key:    key,
		ttl:    c.ttl,
		logger: c.logger,
	}
	if c.metrics != nil {
		run.onHit = func() { c.metrics.CacheHit(op) }
		run.onMiss = func() { c.metrics.CacheMiss(op) }
		run.onBuild = func(d time.Duration) { c.metrics.ObserveBuild(op, d) }
	}
	return FindAndCache(ctx, run, fn)
}

// cacheKey renders dash:<op>:<version>:<hash>. Map keys marshal sorted, so
// equal queries hash equally.
func cacheKey(op string, version int64, params any) (string, error) {
	data, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("encode %s params: %w", op, err)
	}
	return "dash:" + op + ":" + strconv.FormatInt(version, 10) + ":" +
		strconv.FormatUint(xxhash.Sum64(data), 16), nil
}
