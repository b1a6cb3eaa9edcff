package records

// Membership statuses.
const (
	StatusActive  = "Active"
	StatusChurned = "Churned"
	StatusFrozen  = "Frozen"
)

// Membership is one member's current plan.
type Membership struct {
	MemberID       string  `json:"member_id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	MembershipType string  `json:"membership_type"`
	Location       string  `json:"location"`
	Status         string  `json:"status"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	Paid           float64 `json:"paid"`
	SessionsLeft   int     `json:"sessions_left"`
}

func (m Membership) Str(field string) string {
	switch field {
	case "member_id":
		return m.MemberID
	case "name":
		return m.Name
	case "email":
		return m.Email
	case "membership_type":
		return m.MembershipType
	case "location":
		return m.Location
	case "status":
		return m.Status
	case "start_date":
		return m.StartDate
	case "end_date":
		return m.EndDate
	}
	return ""
}

func (m Membership) Num(field string) float64 {
	switch field {
	case "paid":
		return m.Paid
	case "sessions_left":
		return float64(m.SessionsLeft)
	case "churned":
		return indicator(isStatus(m.Status, StatusChurned))
	case "active":
		return indicator(isStatus(m.Status, StatusActive))
	case "frozen":
		return indicator(isStatus(m.Status, StatusFrozen))
	}
	return 0
}
