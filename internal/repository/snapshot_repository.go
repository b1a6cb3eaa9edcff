package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/godilite/studio-insights/internal/records"
)

// SnapshotRepository reads the imported dataset tables.
type SnapshotRepository struct {
	db *sql.DB
}

func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// SnapshotVersion returns the counter bumped by every import.
func (r *SnapshotRepository) SnapshotVersion(ctx context.Context) (int64, error) {
	var version sql.NullInt64
	err := r.db.QueryRowContext(ctx, `SELECT version FROM snapshot_meta WHERE id = 1`).Scan(&version)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("query SnapshotVersion: %w", err)
	}
	return version.Int64, nil
}

// ListSessions returns every session in import order.
func (r *SnapshotRepository) ListSessions(ctx context.Context) ([]records.Session, error) {
	return list(ctx, r.db, "sessions", func(c cells) records.Session {
		return records.Session{
			ID:          c.str(0),
			Date:        c.str(1),
			Month:       c.str(2),
			DayOfWeek:   c.str(3),
			Trainer:     c.str(4),
			Location:    c.str(5),
			ClassFormat: c.str(6),
			Capacity:    c.count(7),
			Booked:      c.count(8),
			CheckedIn:   c.count(9),
			Cancelled:   c.count(10),
			NewClients:  c.count(11),
			Revenue:     c.amount(12),
		}
	})
}

// ListSales returns every sale in import order.
func (r *SnapshotRepository) ListSales(ctx context.Context) ([]records.Sale, error) {
	return list(ctx, r.db, "sales", func(c cells) records.Sale {
		return records.Sale{
			ID:            c.str(0),
			Date:          c.str(1),
			Month:         c.str(2),
			CustomerName:  c.str(3),
			CustomerEmail: c.str(4),
			Product:       c.str(5),
			Category:      c.str(6),
			Location:      c.str(7),
			SoldBy:        c.str(8),
			PaymentMethod: c.str(9),
			Paid:          c.amount(10),
			MRP:           c.amount(11),
			Discount:      c.amount(12),
		}
	})
}

// ListPayroll returns every payroll line in import order.
func (r *SnapshotRepository) ListPayroll(ctx context.Context) ([]records.PayrollEntry, error) {
	return list(ctx, r.db, "payroll", func(c cells) records.PayrollEntry {
		return records.PayrollEntry{
			Trainer:          c.str(0),
			Location:         c.str(1),
			Month:            c.str(2),
			TotalSessions:    c.count(3),
			EmptySessions:    c.count(4),
			NonEmptySessions: c.count(5),
			TotalCustomers:   c.count(6),
			TotalPaid:        c.amount(7),
		}
	})
}

// ListMemberships returns every membership in import order.
func (r *SnapshotRepository) ListMemberships(ctx context.Context) ([]records.Membership, error) {
	return list(ctx, r.db, "memberships", func(c cells) records.Membership {
		return records.Membership{
			MemberID:       c.str(0),
			Name:           c.str(1),
			Email:          c.str(2),
			MembershipType: c.str(3),
			Location:       c.str(4),
			Status:         c.str(5),
			StartDate:      c.str(6),
			EndDate:        c.str(7),
			Paid:           c.amount(8),
			SessionsLeft:   c.count(9),
		}
	})
}

// ListLeads returns every lead in import order.
func (r *SnapshotRepository) ListLeads(ctx context.Context) ([]records.Lead, error) {
	return list(ctx, r.db, "leads", func(c cells) records.Lead {
		return records.Lead{
			ID:        c.str(0),
			Name:      c.str(1),
			Source:    c.str(2),
			Stage:     c.str(3),
			Status:    c.str(4),
			Associate: c.str(5),
			Location:  c.str(6),
			Month:     c.str(7),
			LTV:       c.amount(8),
		}
	})
}

// ListDiscounts returns every discounted sale in import order.
func (r *SnapshotRepository) ListDiscounts(ctx context.Context) ([]records.DiscountSale, error) {
	return list(ctx, r.db, "discounts", func(c cells) records.DiscountSale {
		return records.DiscountSale{
			ID:           c.str(0),
			Date:         c.str(1),
			Month:        c.str(2),
			Product:      c.str(3),
			Category:     c.str(4),
			Location:     c.str(5),
			SoldBy:       c.str(6),
			DiscountType: c.str(7),
			MRP:          c.amount(8),
			Discount:     c.amount(9),
			Paid:         c.amount(10),
		}
	})
}

// cells is one scanned row. Every column is read as text so a malformed
// number never fails the whole query; conversion happens in the accessors.
type cells []sql.NullString

func (c cells) str(i int) string {
	return strings.TrimSpace(c[i].String)
}

func (c cells) amount(i int) float64 {
	return records.ParseAmount(c[i].String)
}

func (c cells) count(i int) int {
	return int(records.ParseAmount(c[i].String))
}

func list[T any](ctx context.Context, db *sql.DB, table string, build func(cells) T) ([]T, error) {
	cols := columns[table]
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid", strings.Join(cols, ", "), table)

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	results := make([]T, 0)
	row := make(cells, len(cols))
	dest := make([]any, len(cols))
	for i := range row {
		dest[i] = &row[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", table, err)
		}
		results = append(results, build(row))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}
	return results, nil
}
