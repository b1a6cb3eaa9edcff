package mocks

import (
	"context"
	"errors"

	"github.com/godilite/studio-insights/internal/service"
)

// MockDashboard is a mock implementation of the Dashboard interface for
// testing the transport layers. It uses function-based mocking for flexibility.
type MockDashboard struct {
	QueryFunc     func(ctx context.Context, q service.Query) (service.View, error)
	DrilldownFunc func(ctx context.Context, q service.Query, key string) (service.Bucket, error)
	RecordsFunc   func(ctx context.Context, q service.RecordsQuery) (service.RecordsPage, error)
	OverviewFunc  func(ctx context.Context) (service.Overview, error)
	ViewsFunc     func() []service.ViewInfo
}

// Query implements the Dashboard interface
func (m *MockDashboard) Query(ctx context.Context, q service.Query) (service.View, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, q)
	}
	return service.View{}, errors.New("QueryFunc not implemented")
}

// Drilldown implements the Dashboard interface
func (m *MockDashboard) Drilldown(ctx context.Context, q service.Query, key string) (service.Bucket, error) {
	if m.DrilldownFunc != nil {
		return m.DrilldownFunc(ctx, q, key)
	}
	return service.Bucket{}, errors.New("DrilldownFunc not implemented")
}

// Records implements the Dashboard interface
func (m *MockDashboard) Records(ctx context.Context, q service.RecordsQuery) (service.RecordsPage, error) {
	if m.RecordsFunc != nil {
		return m.RecordsFunc(ctx, q)
	}
	return service.RecordsPage{}, errors.New("RecordsFunc not implemented")
}

// Overview implements the Dashboard interface
func (m *MockDashboard) Overview(ctx context.Context) (service.Overview, error) {
	if m.OverviewFunc != nil {
		return m.OverviewFunc(ctx)
	}
	return service.Overview{}, errors.New("OverviewFunc not implemented")
}

// Views implements the Dashboard interface
func (m *MockDashboard) Views() []service.ViewInfo {
	if m.ViewsFunc != nil {
		return m.ViewsFunc()
	}
	return service.Catalogue()
}
