package service

import (
	"context"
	"time"

	"github.com/godilite/studio-insights/internal/records"
)

// SnapshotRepository defines the storage operations the dashboard reads from.
type SnapshotRepository interface {
	SnapshotVersion(ctx context.Context) (int64, error)
	ListSessions(ctx context.Context) ([]records.Session, error)
	ListSales(ctx context.Context) ([]records.Sale, error)
	ListPayroll(ctx context.Context) ([]records.PayrollEntry, error)
	ListMemberships(ctx context.Context) ([]records.Membership, error)
	ListLeads(ctx context.Context) ([]records.Lead, error)
	ListDiscounts(ctx context.Context) ([]records.DiscountSale, error)
}

// Cacher defines the cache operations used by CachedDashboard. Get must
// return redis.Nil on a miss.
type Cacher interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}
