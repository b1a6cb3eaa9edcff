package records

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// leadingNumber is the longest numeric prefix a float parser would accept.
var leadingNumber = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)`)

// ParseAmount converts a currency string such as "₹1,200.50" into a number.
// Everything but digits, '.' and '-' is stripped first, then the longest
// numeric prefix is parsed, so "500-" is 500 and "1.2.3" is 1.2. A string
// with no numeric prefix yields 0.
func ParseAmount(raw string) float64 {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}

	prefix := strings.TrimSuffix(leadingNumber.FindString(b.String()), ".")
	if prefix == "" {
		return 0
	}
	d, err := decimal.NewFromString(prefix)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}
