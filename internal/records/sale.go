package records

// Sale is one point-of-sale transaction.
type Sale struct {
	ID            string  `json:"id"`
	Date          string  `json:"date"`
	Month         string  `json:"month"`
	CustomerName  string  `json:"customer_name"`
	CustomerEmail string  `json:"customer_email"`
	Product       string  `json:"product"`
	Category      string  `json:"category"`
	Location      string  `json:"location"`
	SoldBy        string  `json:"sold_by"`
	PaymentMethod string  `json:"payment_method"`
	Paid          float64 `json:"paid"`
	MRP           float64 `json:"mrp"`
	Discount      float64 `json:"discount"`
}

func (s Sale) Str(field string) string {
	switch field {
	case "id":
		return s.ID
	case "date":
		return s.Date
	case "month":
		return s.Month
	case "customer_name":
		return s.CustomerName
	case "customer_email":
		return s.CustomerEmail
	case "product":
		return s.Product
	case "category":
		return s.Category
	case "location":
		return s.Location
	case "sold_by":
		return s.SoldBy
	case "payment_method":
		return s.PaymentMethod
	}
	return ""
}

func (s Sale) Num(field string) float64 {
	switch field {
	case "paid":
		return s.Paid
	case "mrp":
		return s.MRP
	case "discount":
		return s.Discount
	}
	return 0
}
