package records

// PayrollEntry is a trainer's monthly payroll line.
type PayrollEntry struct {
	Trainer          string  `json:"trainer"`
	Location         string  `json:"location"`
	Month            string  `json:"month"`
	TotalSessions    int     `json:"total_sessions"`
	EmptySessions    int     `json:"empty_sessions"`
	NonEmptySessions int     `json:"non_empty_sessions"`
	TotalCustomers   int     `json:"total_customers"`
	TotalPaid        float64 `json:"total_paid"`
}

func (p PayrollEntry) Str(field string) string {
	switch field {
	case "trainer":
		return p.Trainer
	case "location":
		return p.Location
	case "month":
		return p.Month
	}
	return ""
}

func (p PayrollEntry) Num(field string) float64 {
	switch field {
	case "total_sessions":
		return float64(p.TotalSessions)
	case "empty_sessions":
		return float64(p.EmptySessions)
	case "non_empty_sessions":
		return float64(p.NonEmptySessions)
	case "total_customers":
		return float64(p.TotalCustomers)
	case "total_paid":
		return p.TotalPaid
	}
	return 0
}
