package records

// Lead statuses.
const (
	LeadConverted = "Converted"
	LeadLost      = "Lost"
)

// Lead is one prospective client.
type Lead struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Source    string  `json:"source"`
	Stage     string  `json:"stage"`
	Status    string  `json:"status"`
	Associate string  `json:"associate"`
	Location  string  `json:"location"`
	Month     string  `json:"month"`
	LTV       float64 `json:"ltv"`
}

func (l Lead) Str(field string) string {
	switch field {
	case "id":
		return l.ID
	case "name":
		return l.Name
	case "source":
		return l.Source
	case "stage":
		return l.Stage
	case "status":
		return l.Status
	case "associate":
		return l.Associate
	case "location":
		return l.Location
	case "month":
		return l.Month
	}
	return ""
}

func (l Lead) Num(field string) float64 {
	switch field {
	case "ltv":
		return l.LTV
	case "converted":
		return indicator(isStatus(l.Status, LeadConverted))
	case "lost":
		return indicator(isStatus(l.Status, LeadLost))
	}
	return 0
}
