package grpc

import (
	"context"

	"github.com/godilite/studio-insights/internal/service"
)

// Dashboard is the service API the gRPC handlers expose.
type Dashboard interface {
	Query(ctx context.Context, q service.Query) (service.View, error)
	Drilldown(ctx context.Context, q service.Query, key string) (service.Bucket, error)
	Records(ctx context.Context, q service.RecordsQuery) (service.RecordsPage, error)
	Overview(ctx context.Context) (service.Overview, error)
	Views() []service.ViewInfo
}
