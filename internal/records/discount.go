package records

// DiscountSale is a sale that carried a discount.
type DiscountSale struct {
	ID           string  `json:"id"`
	Date         string  `json:"date"`
	Month        string  `json:"month"`
	Product      string  `json:"product"`
	Category     string  `json:"category"`
	Location     string  `json:"location"`
	SoldBy       string  `json:"sold_by"`
	DiscountType string  `json:"discount_type"`
	MRP          float64 `json:"mrp"`
	Discount     float64 `json:"discount"`
	Paid         float64 `json:"paid"`
}

func (d DiscountSale) Str(field string) string {
	switch field {
	case "id":
		return d.ID
	case "date":
		return d.Date
	case "month":
		return d.Month
	case "product":
		return d.Product
	case "category":
		return d.Category
	case "location":
		return d.Location
	case "sold_by":
		return d.SoldBy
	case "discount_type":
		return d.DiscountType
	}
	return ""
}

func (d DiscountSale) Num(field string) float64 {
	switch field {
	case "mrp":
		return d.MRP
	case "discount":
		return d.Discount
	case "paid":
		return d.Paid
	}
	return 0
}
