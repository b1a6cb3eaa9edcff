// Package records holds the typed schemas of the studio datasets and the
// accessor layer the aggregation pipeline reads them through.
package records

// Dataset names a table of pre-fetched records.
type Dataset string

const (
	DatasetSessions    Dataset = "sessions"
	DatasetSales       Dataset = "sales"
	DatasetPayroll     Dataset = "payroll"
	DatasetMemberships Dataset = "memberships"
	DatasetLeads       Dataset = "leads"
	DatasetDiscounts   Dataset = "discounts"
)

// Datasets lists every dataset in a fixed order.
var Datasets = []Dataset{
	DatasetSessions,
	DatasetSales,
	DatasetPayroll,
	DatasetMemberships,
	DatasetLeads,
	DatasetDiscounts,
}

// Valid reports whether d names a known dataset.
func (d Dataset) Valid() bool {
	for _, known := range Datasets {
		if d == known {
			return true
		}
	}
	return false
}

// Row is a map-backed record for ad-hoc tables. Values that are neither
// numbers nor numeric strings read as 0.
type Row map[string]any

func (r Row) Str(field string) string {
	if v, ok := r[field].(string); ok {
		return v
	}
	return ""
}

func (r Row) Num(field string) float64 {
	switch v := r[field].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		return ParseAmount(v)
	default:
		return 0
	}
}
