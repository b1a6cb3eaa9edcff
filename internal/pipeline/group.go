package pipeline

import (
	"strings"

	"github.com/godilite/studio-insights/internal/records"
)

// Groups is the key → bucket mapping produced by Group. Keys keep the order
// in which they were first seen so ties sort by input order later on.
type Groups[R Record] struct {
	order   []string
	buckets map[string]*Bucket[R]
}

// Group partitions records into one bucket per distinct key. Each bucket
// lists its records in input order; none are dropped and an empty key
// becomes "Unknown". Totals stay empty until the bucket is accumulated.
func Group[R Record](records []R, key KeyFunc[R]) *Groups[R] {
	g := &Groups[R]{buckets: make(map[string]*Bucket[R])}
	for _, rec := range records {
		b, _ := g.bucketFor(normalizeKey(key(rec)))
		b.Records = append(b.Records, rec)
	}
	return g
}

func (g *Groups[R]) bucketFor(key string) (*Bucket[R], bool) {
	if b, ok := g.buckets[key]; ok {
		return b, false
	}
	b := newBucket[R](key)
	g.buckets[key] = b
	g.order = append(g.order, key)
	return b, true
}

// Get returns the bucket for key.
func (g *Groups[R]) Get(key string) (*Bucket[R], bool) {
	b, ok := g.buckets[key]
	return b, ok
}

// Keys returns the bucket keys in first-seen order.
func (g *Groups[R]) Keys() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Len is the number of buckets.
func (g *Groups[R]) Len() int {
	return len(g.order)
}

// Buckets returns the buckets in first-seen order.
func (g *Groups[R]) Buckets() []*Bucket[R] {
	out := make([]*Bucket[R], 0, len(g.order))
	for _, k := range g.order {
		out = append(out, g.buckets[k])
	}
	return out
}

func normalizeKey(key string) string {
	return records.KeyOrUnknown(key)
}

// Constant groups every record into a single bucket, used for summary cards.
func Constant[R Record](key string) KeyFunc[R] {
	return func(R) string { return key }
}

// Field groups by one categorical field.
func Field[R Record](field string) KeyFunc[R] {
	return func(r R) string { return r.Str(field) }
}

// Join composes key functions into one composite key.
func Join[R Record](sep string, keys ...KeyFunc[R]) KeyFunc[R] {
	return func(r R) string {
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = normalizeKey(k(r))
		}
		return strings.Join(parts, sep)
	}
}
