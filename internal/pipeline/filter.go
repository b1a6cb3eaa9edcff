package pipeline

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"
)

// Predicate selects records.
type Predicate[R Record] func(R) bool

// Match is how a facet compares its value with a record field.
type Match int

const (
	// Equals requires the field to equal the facet value exactly.
	Equals Match = iota
	// Contains requires the field to contain the value, ignoring case.
	Contains
)

// AllValues is the facet value that disables a facet.
const AllValues = "all"

// Search matches records where any of fields contains term, ignoring case.
// An empty term matches everything.
func Search[R Record](term string, fields ...string) Predicate[R] {
	f := newFolder()
	needle := f.fold(strings.TrimSpace(term))
	if needle == "" {
		return func(R) bool { return true }
	}
	return func(r R) bool {
		for _, field := range fields {
			if strings.Contains(f.fold(r.Str(field)), needle) {
				return true
			}
		}
		return false
	}
}

// Facet matches records whose field matches value. "all" or an empty value
// matches everything.
func Facet[R Record](field, value string, match Match) Predicate[R] {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, AllValues) {
		return func(R) bool { return true }
	}
	if match == Contains {
		f := newFolder()
		needle := f.fold(value)
		return func(r R) bool {
			return strings.Contains(f.fold(r.Str(field)), needle)
		}
	}
	return func(r R) bool {
		return r.Str(field) == value
	}
}

// And composes predicates with logical AND.
func And[R Record](preds ...Predicate[R]) Predicate[R] {
	return func(r R) bool {
		for _, p := range preds {
			if p != nil && !p(r) {
				return false
			}
		}
		return true
	}
}

// Filter returns the records matching pred in their original order. The
// input slice is never modified.
func Filter[R Record](records []R, pred Predicate[R]) []R {
	out := make([]R, 0, len(records))
	for _, r := range records {
		if pred == nil || pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// folder case-folds strings with one Caser. A Caser keeps state between
// calls, so predicates that may run concurrently serialize access to it.
type folder struct {
	mu    sync.Mutex
	caser cases.Caser
}

func newFolder() *folder {
	return &folder{caser: cases.Fold()}
}

func (f *folder) fold(s string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.caser.String(s)
}
