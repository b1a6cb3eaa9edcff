package pipeline

import (
	"sort"
	"strings"
	"time"
)

// Direction is a sort order.
type Direction int

const (
	Descending Direction = iota
	Ascending
)

const (
	// ByName ranks buckets by their case-folded display name.
	ByName = "name"
	// ByMonth ranks month buckets such as "Jan 2025" or "2025-01" by date.
	// Keys that are not months sort last whatever the direction.
	ByMonth = "month"
)

var monthLayouts = []string{"Jan 2006", "January 2006", "2006-01", "2006-01-02"}

// sortKey carries a bucket with the value it is ranked by.
type sortKey[R Record] struct {
	bucket DerivedBucket[R]
	name   string
	month  time.Time
	dated  bool
}

// Rank returns a sorted copy of buckets. The sort is stable, so buckets with
// equal values keep their input order.
func Rank[R Record](buckets []DerivedBucket[R], metric string, dir Direction) []DerivedBucket[R] {
	switch metric {
	case ByName:
		return rankByName(buckets, dir)
	case ByMonth:
		return rankByMonth(buckets, dir)
	}

	out := make([]DerivedBucket[R], len(buckets))
	copy(out, buckets)
	sort.SliceStable(out, func(i, j int) bool {
		a, _ := out[i].Value(metric)
		b, _ := out[j].Value(metric)
		if dir == Ascending {
			return a < b
		}
		return a > b
	})
	return out
}

func rankByName[R Record](buckets []DerivedBucket[R], dir Direction) []DerivedBucket[R] {
	f := newFolder()
	keys := make([]sortKey[R], len(buckets))
	for i, b := range buckets {
		keys[i] = sortKey[R]{bucket: b, name: f.fold(b.Name)}
	}
	sort.SliceStable(keys, func(i, j int) bool {
		if dir == Ascending {
			return keys[i].name < keys[j].name
		}
		return keys[i].name > keys[j].name
	})
	return unwrap(keys)
}

func rankByMonth[R Record](buckets []DerivedBucket[R], dir Direction) []DerivedBucket[R] {
	keys := make([]sortKey[R], len(buckets))
	for i, b := range buckets {
		month, ok := parseMonth(b.Name)
		keys[i] = sortKey[R]{bucket: b, month: month, dated: ok}
	}
	sort.SliceStable(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.dated != b.dated {
			return a.dated
		}
		if !a.dated {
			return false
		}
		if dir == Ascending {
			return a.month.Before(b.month)
		}
		return a.month.After(b.month)
	})
	return unwrap(keys)
}

func parseMonth(key string) (time.Time, bool) {
	key = strings.TrimSpace(key)
	for _, layout := range monthLayouts {
		if t, err := time.Parse(layout, key); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func unwrap[R Record](keys []sortKey[R]) []DerivedBucket[R] {
	out := make([]DerivedBucket[R], len(keys))
	for i, k := range keys {
		out[i] = k.bucket
	}
	return out
}

// Top returns the first n ranked buckets.
func Top[R Record](sorted []DerivedBucket[R], n int) []DerivedBucket[R] {
	if n <= 0 {
		return []DerivedBucket[R]{}
	}
	if n > len(sorted) {
		n = len(sorted)
	}
	out := make([]DerivedBucket[R], n)
	copy(out, sorted[:n])
	return out
}

// Bottom returns the last n ranked buckets reversed, so index 0 is the
// worst performer rather than the nth-worst.
func Bottom[R Record](sorted []DerivedBucket[R], n int) []DerivedBucket[R] {
	if n <= 0 {
		return []DerivedBucket[R]{}
	}
	if n > len(sorted) {
		n = len(sorted)
	}
	tail := sorted[len(sorted)-n:]
	out := make([]DerivedBucket[R], n)
	for i := range tail {
		out[i] = tail[len(tail)-1-i]
	}
	return out
}
