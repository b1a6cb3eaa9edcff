package pipeline

// Config describes one aggregation: how to key records, which totals to
// accumulate and which ratios to derive from them.
type Config[R Record] struct {
	Key         KeyFunc[R]
	Measures    []Measure
	Derive      []Derivation
	KeepRecords bool
}

// Run groups records, accumulates every bucket over its own records, then
// derives each bucket once it is complete. Buckets come back in first-seen
// key order.
func Run[R Record](records []R, cfg Config[R]) []DerivedBucket[R] {
	groups := Group(records, cfg.Key)

	out := make([]DerivedBucket[R], 0, groups.Len())
	for _, b := range groups.Buckets() {
		prime(b, cfg.Measures)
		for _, rec := range b.Records {
			Accumulate(b, rec, cfg.Measures)
		}
		out = append(out, Derive(b, cfg.Derive, cfg.KeepRecords))
	}
	return out
}
