package pipeline

// Lookup reads a total or an already derived metric by name.
type Lookup func(name string) float64

// Derivation computes one named ratio from a fully accumulated bucket.
type Derivation struct {
	Name string
	Fn   func(v Lookup) float64
}

// Derive computes every derivation for b, in order. A derivation may read
// metrics derived before it.
func Derive[R Record](b *Bucket[R], derivations []Derivation, keepRecords bool) DerivedBucket[R] {
	out := DerivedBucket[R]{
		Name:    b.Key,
		Totals:  make(Values, len(b.Totals)),
		Metrics: make(Values, len(derivations)),
	}
	for k, v := range b.Totals {
		out.Totals[k] = v
	}

	lookup := func(name string) float64 {
		if v, ok := out.Metrics[name]; ok {
			return v
		}
		return out.Totals[name]
	}
	for _, d := range derivations {
		out.Metrics[d.Name] = finite(d.Fn(lookup))
	}

	if keepRecords {
		out.Records = make([]R, len(b.Records))
		copy(out.Records, b.Records)
	}
	return out
}

// Formula derives fn(v(a), v(b)), for the named rate helpers such as
// FillRate(attendance, capacity).
func Formula(name string, fn func(a, b float64) float64, a, b string) Derivation {
	return Derivation{Name: name, Fn: func(v Lookup) float64 {
		return fn(v(a), v(b))
	}}
}

// Ratio derives num/den.
func Ratio(name, num, den string) Derivation {
	return Derivation{Name: name, Fn: func(v Lookup) float64 {
		return SafeDiv(v(num), v(den))
	}}
}

// Percent derives num/den on a 0–100 scale.
func Percent(name, num, den string) Derivation {
	return Derivation{Name: name, Fn: func(v Lookup) float64 {
		return Pct(v(num), v(den))
	}}
}

// Complement derives (den-num)/den on a 0–100 scale.
func Complement(name, num, den string) Derivation {
	return Derivation{Name: name, Fn: func(v Lookup) float64 {
		d := v(den)
		return Pct(d-v(num), d)
	}}
}

// Score derives the composite class-format score from four percentage
// metrics that must already be derived.
func Score(name, fill, cancellation, retention, conversion string) Derivation {
	return Derivation{Name: name, Fn: func(v Lookup) float64 {
		return CompositeScore(v(fill), v(cancellation), v(retention), v(conversion))
	}}
}
