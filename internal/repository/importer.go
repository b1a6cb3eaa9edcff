package repository

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/godilite/studio-insights/internal/records"
)

var (
	ErrUnknownDataset = errors.New("unknown dataset")
	ErrEmptyExport    = errors.New("export has no header row")
)

// Importer loads CSV exports into the snapshot tables.
type Importer struct {
	db  *sql.DB
	now func() time.Time
}

func NewImporter(db *sql.DB) *Importer {
	return &Importer{db: db, now: time.Now}
}

// Import replaces the rows of one dataset with the CSV read from src and
// bumps the snapshot version, all in one transaction. Header names are
// matched case-insensitively; spaces and dashes count as underscores.
// Unknown columns are ignored and missing ones are stored as NULL.
func (im *Importer) Import(ctx context.Context, dataset records.Dataset, src io.Reader) (int, error) {
	cols, ok := columns[string(dataset)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownDataset, dataset)
	}

	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, ErrEmptyExport
		}
		return 0, fmt.Errorf("read header: %w", err)
	}
	positions := mapHeader(header, cols)

	tx, err := im.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", dataset)); err != nil {
		return 0, fmt.Errorf("clear %s: %w", dataset, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)", dataset, strings.Join(cols, ", "), placeholders))
	if err != nil {
		return 0, fmt.Errorf("prepare insert %s: %w", dataset, err)
	}
	defer stmt.Close()

	count := 0
	args := make([]any, len(cols))
	for {
		line, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read %s line %d: %w", dataset, count+2, err)
		}
		for i, pos := range positions {
			if pos >= 0 && pos < len(line) {
				args[i] = line[pos]
			} else {
				args[i] = nil
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("insert %s line %d: %w", dataset, count+2, err)
		}
		count++
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE snapshot_meta SET version = version + 1, imported_at = ? WHERE id = 1`,
		im.now().UTC().Format(time.RFC3339)); err != nil {
		return 0, fmt.Errorf("bump snapshot version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return count, nil
}

// mapHeader returns, for each table column, its index in the CSV header or -1.
func mapHeader(header, cols []string) []int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}
	positions := make([]int, len(cols))
	for i, c := range cols {
		positions[i] = -1
		for _, name := range append([]string{c}, headerAliases[c]...) {
			if pos, ok := index[name]; ok {
				positions[i] = pos
				break
			}
		}
	}
	return positions
}

// headerAliases are alternative export header names per table column.
var headerAliases = map[string][]string{
	"session_date":   {"date", "class_date"},
	"sale_date":      {"date", "payment_date"},
	"paid_amount":    {"paid", "payment_value", "amount"},
	"class_format":   {"format", "class_type"},
	"trainer":        {"teacher", "instructor"},
	"customer_email": {"email"},
	"customer_name":  {"customer"},
	"discount":       {"discount_amount"},
}
