package records

// Session is one scheduled class.
type Session struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Month       string  `json:"month"`
	DayOfWeek   string  `json:"day_of_week"`
	Trainer     string  `json:"trainer"`
	Location    string  `json:"location"`
	ClassFormat string  `json:"class_format"`
	Capacity    int     `json:"capacity"`
	Booked      int     `json:"booked"`
	CheckedIn   int     `json:"checked_in"`
	Cancelled   int     `json:"cancelled"`
	NewClients  int     `json:"new_clients"`
	Revenue     float64 `json:"revenue"`
}

func (s Session) Str(field string) string {
	switch field {
	case "id":
		return s.ID
	case "date":
		return s.Date
	case "month":
		return s.Month
	case "day_of_week":
		return s.DayOfWeek
	case "trainer":
		return s.Trainer
	case "location":
		return s.Location
	case "class_format":
		return s.ClassFormat
	}
	return ""
}

func (s Session) Num(field string) float64 {
	switch field {
	case "capacity":
		return float64(s.Capacity)
	case "booked":
		return float64(s.Booked)
	case "checked_in":
		return float64(s.CheckedIn)
	case "cancelled":
		return float64(s.Cancelled)
	case "new_clients":
		return float64(s.NewClients)
	case "revenue":
		return s.Revenue
	case "empty":
		return indicator(s.CheckedIn == 0)
	}
	return 0
}
