package records

import "strings"

// Unknown is the bucket key used for absent categorical values.
const Unknown = "Unknown"

// CompositeSeparator joins the parts of a composite group key.
const CompositeSeparator = " • "

// KeyOrUnknown normalises a categorical value for use as a group key.
func KeyOrUnknown(v string) string {
	v = strings.TrimSpace(v)
	switch strings.ToLower(v) {
	case "", "null", "undefined", "nan":
		return Unknown
	}
	return v
}

// Composite builds a composite key such as "Barre • Anisha".
func Composite(parts ...string) string {
	keys := make([]string, len(parts))
	for i, p := range parts {
		keys[i] = KeyOrUnknown(p)
	}
	return strings.Join(keys, CompositeSeparator)
}

func indicator(ok bool) float64 {
	if ok {
		return 1
	}
	return 0
}

func isStatus(v, want string) bool {
	return strings.EqualFold(strings.TrimSpace(v), want)
}
