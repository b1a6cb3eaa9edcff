// Package pipeline implements the group → accumulate → derive → rank
// aggregation used by every dashboard view.
package pipeline

// Record is the accessor every input row is read through. Missing fields
// read as "" and 0.
type Record interface {
	Str(field string) string
	Num(field string) float64
}

// KeyFunc maps a record to its group key.
type KeyFunc[R Record] func(R) string

// Values is a set of named numbers: accumulated totals or derived metrics.
type Values map[string]float64

// Bucket accumulates the records sharing one group key.
type Bucket[R Record] struct {
	Key     string
	Totals  Values
	Records []R

	distinct map[string]map[string]struct{}
}

func newBucket[R Record](key string) *Bucket[R] {
	return &Bucket[R]{
		Key:    key,
		Totals: make(Values),
	}
}

// DerivedBucket is a fully accumulated bucket plus its derived ratios.
type DerivedBucket[R Record] struct {
	Name    string `json:"name"`
	Totals  Values `json:"totals"`
	Metrics Values `json:"metrics"`
	Records []R    `json:"records,omitempty"`
}

// Value looks a metric up by name, derived metrics first.
func (b DerivedBucket[R]) Value(name string) (float64, bool) {
	if v, ok := b.Metrics[name]; ok {
		return v, true
	}
	v, ok := b.Totals[name]
	return v, ok
}
