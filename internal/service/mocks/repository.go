package mocks

import (
	"context"
	"errors"

	"github.com/godilite/studio-insights/internal/records"
)

// MockSnapshotRepository is a mock implementation of the SnapshotRepository
// interface for testing the service layer.
type MockSnapshotRepository struct {
	SnapshotVersionFunc func(ctx context.Context) (int64, error)
	ListSessionsFunc    func(ctx context.Context) ([]records.Session, error)
	ListSalesFunc       func(ctx context.Context) ([]records.Sale, error)
	ListPayrollFunc     func(ctx context.Context) ([]records.PayrollEntry, error)
	ListMembershipsFunc func(ctx context.Context) ([]records.Membership, error)
	ListLeadsFunc       func(ctx context.Context) ([]records.Lead, error)
	ListDiscountsFunc   func(ctx context.Context) ([]records.DiscountSale, error)
}

// SnapshotVersion implements the SnapshotRepository interface
func (m *MockSnapshotRepository) SnapshotVersion(ctx context.Context) (int64, error) {
	if m.SnapshotVersionFunc != nil {
		return m.SnapshotVersionFunc(ctx)
	}
	return 1, nil
}

// ListSessions implements the SnapshotRepository interface
func (m *MockSnapshotRepository) ListSessions(ctx context.Context) ([]records.Session, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx)
	}
	return nil, errors.New("ListSessionsFunc not implemented")
}

// ListSales implements the SnapshotRepository interface
func (m *MockSnapshotRepository) ListSales(ctx context.Context) ([]records.Sale, error) {
	if m.ListSalesFunc != nil {
		return m.ListSalesFunc(ctx)
	}
	return nil, errors.New("ListSalesFunc not implemented")
}

// ListPayroll implements the SnapshotRepository interface
func (m *MockSnapshotRepository) ListPayroll(ctx context.Context) ([]records.PayrollEntry, error) {
	if m.ListPayrollFunc != nil {
		return m.ListPayrollFunc(ctx)
	}
	return nil, errors.New("ListPayrollFunc not implemented")
}

// ListMemberships implements the SnapshotRepository interface
func (m *MockSnapshotRepository) ListMemberships(ctx context.Context) ([]records.Membership, error) {
	if m.ListMembershipsFunc != nil {
		return m.ListMembershipsFunc(ctx)
	}
	return nil, errors.New("ListMembershipsFunc not implemented")
}

// ListLeads implements the SnapshotRepository interface
func (m *MockSnapshotRepository) ListLeads(ctx context.Context) ([]records.Lead, error) {
	if m.ListLeadsFunc != nil {
		return m.ListLeadsFunc(ctx)
	}
	return nil, errors.New("ListLeadsFunc not implemented")
}

// ListDiscounts implements the SnapshotRepository interface
func (m *MockSnapshotRepository) ListDiscounts(ctx context.Context) ([]records.DiscountSale, error) {
	if m.ListDiscountsFunc != nil {
		return m.ListDiscountsFunc(ctx)
	}
	return nil, errors.New("ListDiscountsFunc not implemented")
}
