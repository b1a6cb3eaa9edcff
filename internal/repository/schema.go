package repository

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id           TEXT,
	session_date TEXT,
	month        TEXT,
	day_of_week  TEXT,
	trainer      TEXT,
	location     TEXT,
	class_format TEXT,
	capacity     INTEGER,
	booked       INTEGER,
	checked_in   INTEGER,
	cancelled    INTEGER,
	new_clients  INTEGER,
	revenue      TEXT
);
CREATE TABLE IF NOT EXISTS sales (
	id             TEXT,
	sale_date      TEXT,
	month          TEXT,
	customer_name  TEXT,
	customer_email TEXT,
	product        TEXT,
	category       TEXT,
	location       TEXT,
	sold_by        TEXT,
	payment_method TEXT,
	paid_amount    TEXT,
	mrp            TEXT,
	discount       TEXT
);
CREATE TABLE IF NOT EXISTS payroll (
	trainer            TEXT,
	location           TEXT,
	month              TEXT,
	total_sessions     INTEGER,
	empty_sessions     INTEGER,
	non_empty_sessions INTEGER,
	total_customers    INTEGER,
	total_paid         TEXT
);
CREATE TABLE IF NOT EXISTS memberships (
	member_id       TEXT,
	name            TEXT,
	email           TEXT,
	membership_type TEXT,
	location        TEXT,
	status          TEXT,
	start_date      TEXT,
	end_date        TEXT,
	paid            TEXT,
	sessions_left   INTEGER
);
CREATE TABLE IF NOT EXISTS leads (
	id        TEXT,
	name      TEXT,
	source    TEXT,
	stage     TEXT,
	status    TEXT,
	associate TEXT,
	location  TEXT,
	month     TEXT,
	ltv       TEXT
);
CREATE TABLE IF NOT EXISTS discounts (
	id            TEXT,
	sale_date     TEXT,
	month         TEXT,
	product       TEXT,
	category      TEXT,
	location      TEXT,
	sold_by       TEXT,
	discount_type TEXT,
	mrp           TEXT,
	discount      TEXT,
	paid_amount   TEXT
);
CREATE TABLE IF NOT EXISTS snapshot_meta (
	id          INTEGER PRIMARY KEY CHECK (id = 1),
	version     INTEGER NOT NULL,
	imported_at TEXT NOT NULL
);
INSERT OR IGNORE INTO snapshot_meta (id, version, imported_at) VALUES (1, 0, '');
`

// EnsureSchema creates the snapshot tables if they do not exist yet.
func (r *SnapshotRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// columns lists the importable columns of every dataset table, in table order.
var columns = map[string][]string{
	"sessions": {
		"id", "session_date", "month", "day_of_week", "trainer", "location", "class_format",
		"capacity", "booked", "checked_in", "cancelled", "new_clients", "revenue",
	},
	"sales": {
		"id", "sale_date", "month", "customer_name", "customer_email", "product", "category",
		"location", "sold_by", "payment_method", "paid_amount", "mrp", "discount",
	},
	"payroll": {
		"trainer", "location", "month", "total_sessions", "empty_sessions",
		"non_empty_sessions", "total_customers", "total_paid",
	},
	"memberships": {
		"member_id", "name", "email", "membership_type", "location", "status",
		"start_date", "end_date", "paid", "sessions_left",
	},
	"leads": {
		"id", "name", "source", "stage", "status", "associate", "location", "month", "ltv",
	},
	"discounts": {
		"id", "sale_date", "month", "product", "category", "location", "sold_by",
		"discount_type", "mrp", "discount", "paid_amount",
	},
}
