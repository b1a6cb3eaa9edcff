package service

import (
	"context"
	"fmt"

	"github.com/godilite/studio-insights/internal/records"
	"github.com/godilite/studio-insights/internal/service/mocks"
)

func sessionFixture() []records.Session {
	return []records.Session{
		{ID: "S1", Month: "Jan 2025", DayOfWeek: "Saturday", Trainer: "Anisha", Location: "Kwality House", ClassFormat: "Barre",
			Capacity: 20, Booked: 18, CheckedIn: 15, Cancelled: 3, NewClients: 2, Revenue: 3000},
		{ID: "S2", Month: "Jan 2025", DayOfWeek: "Sunday", Trainer: "", Location: "Supreme HQ", ClassFormat: "Cycle",
			Capacity: 12, Booked: 4, CheckedIn: 0, Cancelled: 4, NewClients: 0, Revenue: 0},
		{ID: "S3", Month: "Feb 2025", DayOfWeek: "Saturday", Trainer: "Rohan", Location: "Supreme HQ", ClassFormat: "Cycle",
			Capacity: 12, Booked: 12, CheckedIn: 11, Cancelled: 1, NewClients: 1, Revenue: 2200},
		{ID: "S4", Month: "Feb 2025", DayOfWeek: "Monday", Trainer: "Anisha", Location: "Supreme HQ", ClassFormat: "Barre",
			Capacity: 20, Booked: 10, CheckedIn: 9, Cancelled: 1, NewClients: 3, Revenue: 1800},
	}
}

// membershipFixture has ten members, m2, m4 and m8 churned.
func membershipFixture() []records.Membership {
	statuses := []string{"Active", "Churned", "Active", "Churned", "Frozen", "Active", "Active", "Churned", "Active", "Frozen"}
	types := []string{"Studio Annual", "Studio 8 Class Package"}
	out := make([]records.Membership, len(statuses))
	for i, st := range statuses {
		out[i] = records.Membership{
			MemberID:       fmt.Sprintf("m%d", i+1),
			Name:           fmt.Sprintf("Member %d", i+1),
			Email:          fmt.Sprintf("m%d@example.com", i+1),
			MembershipType: types[i%2],
			Location:       "Kwality House",
			Status:         st,
			Paid:           1000,
		}
	}
	return out
}

func salesFixture() []records.Sale {
	return []records.Sale{
		{ID: "T1", Product: "Studio Annual", CustomerEmail: "a@x.io", SoldBy: "Imran", Paid: 45000, MRP: 50000, Discount: 5000},
		{ID: "T2", Product: "Single Class", CustomerEmail: "b@x.io", SoldBy: "Imran", Paid: 1200, MRP: 1200},
		{ID: "T3", Product: "Single Class", CustomerEmail: "b@x.io", SoldBy: "Zahur", Paid: 1200, MRP: 1200},
	}
}

func fullRepo() *mocks.MockSnapshotRepository {
	return &mocks.MockSnapshotRepository{
		ListSessionsFunc: func(ctx context.Context) ([]records.Session, error) { return sessionFixture(), nil },
		ListSalesFunc:    func(ctx context.Context) ([]records.Sale, error) { return salesFixture(), nil },
		ListPayrollFunc: func(ctx context.Context) ([]records.PayrollEntry, error) {
			return []records.PayrollEntry{
				{Trainer: "Anisha", TotalSessions: 10, EmptySessions: 2, NonEmptySessions: 8, TotalCustomers: 64, TotalPaid: 40000},
			}, nil
		},
		ListMembershipsFunc: func(ctx context.Context) ([]records.Membership, error) { return membershipFixture(), nil },
		ListLeadsFunc:       func(ctx context.Context) ([]records.Lead, error) { return []records.Lead{}, nil },
		ListDiscountsFunc: func(ctx context.Context) ([]records.DiscountSale, error) {
			return []records.DiscountSale{
				{ID: "D1", Product: "Studio Annual", DiscountType: "Early bird", MRP: 50000, Discount: 5000, Paid: 45000},
				{ID: "D2", Product: "Single Class", DiscountType: "None", MRP: 1200, Discount: 0, Paid: 1200},
			}, nil
		},
	}
}
