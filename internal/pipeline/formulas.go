package pipeline

import "math"

// Composite score weights. They sum to 1.
const (
	FillWeight        = 0.3
	ReliabilityWeight = 0.25
	RetentionWeight   = 0.25
	ConversionWeight  = 0.2
)

// SafeDiv returns num/den, or 0 when den is not positive.
func SafeDiv(num, den float64) float64 {
	if den > 0 {
		return finite(num / den)
	}
	return 0
}

// Pct returns num/den*100, or 0 when den is not positive.
func Pct(num, den float64) float64 {
	if den > 0 {
		return finite(num / den * 100)
	}
	return 0
}

// FillRate is the share of capacity that attended, 0–100.
func FillRate(attendance, capacity float64) float64 {
	return Pct(attendance, capacity)
}

// ConversionRate is the share of attendees who were new clients, 0–100.
func ConversionRate(newClients, attendance float64) float64 {
	return Pct(newClients, attendance)
}

// RetentionRate is the share of attendees who were returning clients, 0–100.
func RetentionRate(newClients, attendance float64) float64 {
	return Pct(attendance-newClients, attendance)
}

// CancellationRate is the share of bookings that were cancelled, 0–100.
func CancellationRate(cancelled, booked float64) float64 {
	return Pct(cancelled, booked)
}

// RevenuePerSession is revenue divided by scheduled sessions.
func RevenuePerSession(revenue, sessions float64) float64 {
	return SafeDiv(revenue, sessions)
}

// AvgPerSession divides by sessions that had attendance, not by every
// scheduled session.
func AvgPerSession(customers, nonEmptySessions float64) float64 {
	return SafeDiv(customers, nonEmptySessions)
}

// CompositeScore blends four percentages into a 0–100 class-format score.
func CompositeScore(fillRate, cancellationRate, retentionRate, conversionRate float64) float64 {
	return Round(fillRate*FillWeight+
		(100-cancellationRate)*ReliabilityWeight+
		retentionRate*RetentionWeight+
		conversionRate*ConversionWeight, 0)
}

// Round rounds half up to the given number of decimal places. It is the only
// rounding applied to derived values.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Floor(v*p+0.5) / p
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
