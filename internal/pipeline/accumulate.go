package pipeline

// Op is how a measure folds records into a bucket total.
type Op int

const (
	// Sum adds the field value.
	Sum Op = iota
	// Count counts records; Field is ignored.
	Count
	// CountNonZero counts records whose field is non-zero.
	CountNonZero
	// Distinct counts distinct non-empty string values of the field.
	Distinct
)

// Measure names one accumulated total.
type Measure struct {
	Name  string
	Field string
	Op    Op
}

// SumOf sums field into name.
func SumOf(name, field string) Measure {
	return Measure{Name: name, Field: field, Op: Sum}
}

// CountAs counts records into name.
func CountAs(name string) Measure {
	return Measure{Name: name, Op: Count}
}

// NonZero counts records whose field is non-zero.
func NonZero(name, field string) Measure {
	return Measure{Name: name, Field: field, Op: CountNonZero}
}

// DistinctOf counts distinct values of field.
func DistinctOf(name, field string) Measure {
	return Measure{Name: name, Field: field, Op: Distinct}
}

// prime sets every measure to zero so buckets always carry the full set of
// totals, even when no record contributed to one of them.
func prime[R Record](b *Bucket[R], measures []Measure) {
	for _, m := range measures {
		if _, ok := b.Totals[m.Name]; !ok {
			b.Totals[m.Name] = 0
		}
	}
}

// Accumulate folds rec into b. It mutates b in place; every op is a plain
// sum so the final totals do not depend on record order.
func Accumulate[R Record](b *Bucket[R], rec R, measures []Measure) {
	for _, m := range measures {
		switch m.Op {
		case Sum:
			b.Totals[m.Name] += rec.Num(m.Field)
		case Count:
			b.Totals[m.Name]++
		case CountNonZero:
			if rec.Num(m.Field) != 0 {
				b.Totals[m.Name]++
			}
		case Distinct:
			accumulateDistinct(b, m, rec.Str(m.Field))
		}
	}
}

func accumulateDistinct[R Record](b *Bucket[R], m Measure, v string) {
	if b.distinct == nil {
		b.distinct = make(map[string]map[string]struct{})
	}
	set, ok := b.distinct[m.Name]
	if !ok {
		set = make(map[string]struct{})
		b.distinct[m.Name] = set
	}
	if v != "" {
		set[v] = struct{}{}
	}
	b.Totals[m.Name] = float64(len(set))
}
