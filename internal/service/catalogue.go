package service

import (
	"sort"

	"github.com/godilite/studio-insights/internal/pipeline"
	"github.com/godilite/studio-insights/internal/records"
)

type (
	record  = pipeline.Record
	derived = pipeline.DerivedBucket[pipeline.Record]
)

// facet is a filter a dataset accepts, addressed by its name in a query.
type facet struct {
	Field string
	Match pipeline.Match
}

// datasetSpec holds what every view over one dataset shares: searchable
// fields, facets and the measures and ratios computed per bucket.
type datasetSpec struct {
	Dataset  records.Dataset
	Title    string
	Search   []string
	Facets   map[string]facet
	Measures []pipeline.Measure
	Derive   []pipeline.Derivation
	// Headline is the view whose leader is shown on the overview card.
	Headline string
}

// viewSpec is one grouping of a dataset.
type viewSpec struct {
	Name    string
	Title   string
	Dataset records.Dataset
	Key     pipeline.KeyFunc[record]
	SortBy  string
}

// ViewInfo describes a view for catalogue listings.
type ViewInfo struct {
	Name    string          `json:"name"`
	Title   string          `json:"title"`
	Dataset records.Dataset `json:"dataset"`
	SortBy  string          `json:"sort_by"`
	Metrics []string        `json:"metrics"`
	Facets  []string        `json:"facets"`
}

func field(name string) pipeline.KeyFunc[record] {
	return pipeline.Field[record](name)
}

var sessionMeasures = []pipeline.Measure{
	pipeline.CountAs("sessions"),
	pipeline.SumOf("capacity", "capacity"),
	pipeline.SumOf("booked", "booked"),
	pipeline.SumOf("attendance", "checked_in"),
	pipeline.SumOf("cancelled", "cancelled"),
	pipeline.SumOf("new_clients", "new_clients"),
	pipeline.SumOf("revenue", "revenue"),
	pipeline.SumOf("empty_sessions", "empty"),
	pipeline.NonZero("non_empty_sessions", "checked_in"),
}

var sessionRatios = []pipeline.Derivation{
	pipeline.Formula("fill_rate", pipeline.FillRate, "attendance", "capacity"),
	pipeline.Formula("cancellation_rate", pipeline.CancellationRate, "cancelled", "booked"),
	pipeline.Formula("conversion_rate", pipeline.ConversionRate, "new_clients", "attendance"),
	pipeline.Formula("retention_rate", pipeline.RetentionRate, "new_clients", "attendance"),
	pipeline.Formula("revenue_per_session", pipeline.RevenuePerSession, "revenue", "sessions"),
	pipeline.Ratio("avg_attendance", "attendance", "sessions"),
	pipeline.Formula("avg_per_session", pipeline.AvgPerSession, "attendance", "non_empty_sessions"),
	pipeline.Score("score", "fill_rate", "cancellation_rate", "retention_rate", "conversion_rate"),
}

var datasets = map[records.Dataset]datasetSpec{
	records.DatasetSessions: {
		Dataset: records.DatasetSessions,
		Title:   "Sessions",
		Search:  []string{"trainer", "location", "class_format"},
		Facets: map[string]facet{
			"trainer":      {Field: "trainer", Match: pipeline.Equals},
			"location":     {Field: "location", Match: pipeline.Equals},
			"class_format": {Field: "class_format", Match: pipeline.Contains},
			"month":        {Field: "month", Match: pipeline.Equals},
			"day_of_week":  {Field: "day_of_week", Match: pipeline.Equals},
		},
		Measures: sessionMeasures,
		Derive:   sessionRatios,
		Headline: "sessions.formats",
	},
	records.DatasetSales: {
		Dataset: records.DatasetSales,
		Title:   "Sales",
		Search:  []string{"customer_name", "customer_email", "product", "sold_by"},
		Facets: map[string]facet{
			"product":        {Field: "product", Match: pipeline.Contains},
			"category":       {Field: "category", Match: pipeline.Equals},
			"location":       {Field: "location", Match: pipeline.Equals},
			"sold_by":        {Field: "sold_by", Match: pipeline.Equals},
			"payment_method": {Field: "payment_method", Match: pipeline.Equals},
			"month":          {Field: "month", Match: pipeline.Equals},
		},
		Measures: []pipeline.Measure{
			pipeline.CountAs("transactions"),
			pipeline.SumOf("paid", "paid"),
			pipeline.SumOf("mrp", "mrp"),
			pipeline.SumOf("discount", "discount"),
			pipeline.DistinctOf("customers", "customer_email"),
		},
		Derive: []pipeline.Derivation{
			pipeline.Ratio("revenue_per_customer", "paid", "customers"),
			pipeline.Ratio("avg_ticket", "paid", "transactions"),
			pipeline.Percent("discount_rate", "discount", "mrp"),
		},
		Headline: "sales.products",
	},
	records.DatasetPayroll: {
		Dataset: records.DatasetPayroll,
		Title:   "Payroll",
		Search:  []string{"trainer", "location"},
		Facets: map[string]facet{
			"trainer":  {Field: "trainer", Match: pipeline.Equals},
			"location": {Field: "location", Match: pipeline.Equals},
			"month":    {Field: "month", Match: pipeline.Equals},
		},
		Measures: []pipeline.Measure{
			pipeline.SumOf("sessions", "total_sessions"),
			pipeline.SumOf("empty_sessions", "empty_sessions"),
			pipeline.SumOf("non_empty_sessions", "non_empty_sessions"),
			pipeline.SumOf("customers", "total_customers"),
			pipeline.SumOf("paid", "total_paid"),
		},
		Derive: []pipeline.Derivation{
			pipeline.Formula("avg_per_session", pipeline.AvgPerSession, "customers", "non_empty_sessions"),
			pipeline.Formula("revenue_per_session", pipeline.RevenuePerSession, "paid", "sessions"),
			pipeline.Percent("empty_rate", "empty_sessions", "sessions"),
		},
		Headline: "payroll.trainers",
	},
	records.DatasetMemberships: {
		Dataset: records.DatasetMemberships,
		Title:   "Memberships",
		Search:  []string{"name", "email", "membership_type"},
		Facets: map[string]facet{
			"membership_type": {Field: "membership_type", Match: pipeline.Contains},
			"location":        {Field: "location", Match: pipeline.Equals},
			"status":          {Field: "status", Match: pipeline.Equals},
		},
		Measures: []pipeline.Measure{
			pipeline.CountAs("members"),
			pipeline.SumOf("active", "active"),
			pipeline.SumOf("churned", "churned"),
			pipeline.SumOf("frozen", "frozen"),
			pipeline.SumOf("paid", "paid"),
			pipeline.SumOf("sessions_left", "sessions_left"),
		},
		Derive: []pipeline.Derivation{
			pipeline.Percent("churn_rate", "churned", "members"),
			pipeline.Complement("retention_rate", "churned", "members"),
			pipeline.Percent("active_rate", "active", "members"),
			pipeline.Ratio("revenue_per_member", "paid", "members"),
		},
		Headline: "memberships.types",
	},
	records.DatasetLeads: {
		Dataset: records.DatasetLeads,
		Title:   "Leads",
		Search:  []string{"name", "source", "associate"},
		Facets: map[string]facet{
			"source":    {Field: "source", Match: pipeline.Equals},
			"stage":     {Field: "stage", Match: pipeline.Equals},
			"status":    {Field: "status", Match: pipeline.Equals},
			"associate": {Field: "associate", Match: pipeline.Equals},
			"location":  {Field: "location", Match: pipeline.Equals},
			"month":     {Field: "month", Match: pipeline.Equals},
		},
		Measures: []pipeline.Measure{
			pipeline.CountAs("leads"),
			pipeline.SumOf("converted", "converted"),
			pipeline.SumOf("lost", "lost"),
			pipeline.SumOf("ltv", "ltv"),
		},
		Derive: []pipeline.Derivation{
			pipeline.Percent("conversion_rate", "converted", "leads"),
			pipeline.Percent("loss_rate", "lost", "leads"),
			pipeline.Ratio("ltv_per_conversion", "ltv", "converted"),
		},
		Headline: "leads.sources",
	},
	records.DatasetDiscounts: {
		Dataset: records.DatasetDiscounts,
		Title:   "Discounts",
		Search:  []string{"product", "sold_by", "discount_type"},
		Facets: map[string]facet{
			"product":       {Field: "product", Match: pipeline.Contains},
			"category":      {Field: "category", Match: pipeline.Equals},
			"location":      {Field: "location", Match: pipeline.Equals},
			"sold_by":       {Field: "sold_by", Match: pipeline.Equals},
			"discount_type": {Field: "discount_type", Match: pipeline.Equals},
			"month":         {Field: "month", Match: pipeline.Equals},
		},
		Measures: []pipeline.Measure{
			pipeline.CountAs("transactions"),
			pipeline.NonZero("discounted", "discount"),
			pipeline.SumOf("mrp", "mrp"),
			pipeline.SumOf("discount", "discount"),
			pipeline.SumOf("paid", "paid"),
		},
		Derive: []pipeline.Derivation{
			pipeline.Percent("discount_rate", "discount", "mrp"),
			pipeline.Ratio("avg_discount", "discount", "discounted"),
		},
		Headline: "discounts.products",
	},
}

var views = []viewSpec{
	{Name: "sessions.trainers", Title: "Trainer performance", Dataset: records.DatasetSessions, Key: field("trainer"), SortBy: "attendance"},
	{Name: "sessions.locations", Title: "Location performance", Dataset: records.DatasetSessions, Key: field("location"), SortBy: "attendance"},
	{Name: "sessions.formats", Title: "Class formats", Dataset: records.DatasetSessions, Key: field("class_format"), SortBy: "score"},
	{
		Name:    "sessions.format_trainers",
		Title:   "Class formats by trainer",
		Dataset: records.DatasetSessions,
		Key:     pipeline.Join(records.CompositeSeparator, field("class_format"), field("trainer")),
		SortBy:  "score",
	},
	{Name: "sessions.months", Title: "Sessions by month", Dataset: records.DatasetSessions, Key: field("month"), SortBy: pipeline.ByMonth},
	{Name: "sessions.weekdays", Title: "Sessions by weekday", Dataset: records.DatasetSessions, Key: field("day_of_week"), SortBy: "attendance"},

	{Name: "sales.products", Title: "Product sales", Dataset: records.DatasetSales, Key: field("product"), SortBy: "paid"},
	{Name: "sales.categories", Title: "Category sales", Dataset: records.DatasetSales, Key: field("category"), SortBy: "paid"},
	{Name: "sales.locations", Title: "Sales by location", Dataset: records.DatasetSales, Key: field("location"), SortBy: "paid"},
	{Name: "sales.months", Title: "Sales by month", Dataset: records.DatasetSales, Key: field("month"), SortBy: pipeline.ByMonth},
	{Name: "sales.sellers", Title: "Sales by associate", Dataset: records.DatasetSales, Key: field("sold_by"), SortBy: "paid"},
	{Name: "sales.payment_methods", Title: "Payment methods", Dataset: records.DatasetSales, Key: field("payment_method"), SortBy: "transactions"},

	{Name: "payroll.trainers", Title: "Trainer payroll", Dataset: records.DatasetPayroll, Key: field("trainer"), SortBy: "paid"},
	{Name: "payroll.locations", Title: "Payroll by location", Dataset: records.DatasetPayroll, Key: field("location"), SortBy: "paid"},
	{Name: "payroll.months", Title: "Payroll by month", Dataset: records.DatasetPayroll, Key: field("month"), SortBy: pipeline.ByMonth},

	{Name: "memberships.types", Title: "Membership types", Dataset: records.DatasetMemberships, Key: field("membership_type"), SortBy: "members"},
	{Name: "memberships.locations", Title: "Members by location", Dataset: records.DatasetMemberships, Key: field("location"), SortBy: "members"},
	{Name: "memberships.statuses", Title: "Membership status", Dataset: records.DatasetMemberships, Key: field("status"), SortBy: "members"},

	{Name: "leads.sources", Title: "Lead sources", Dataset: records.DatasetLeads, Key: field("source"), SortBy: "conversion_rate"},
	{Name: "leads.stages", Title: "Lead funnel", Dataset: records.DatasetLeads, Key: field("stage"), SortBy: "leads"},
	{Name: "leads.associates", Title: "Leads by associate", Dataset: records.DatasetLeads, Key: field("associate"), SortBy: "converted"},
	{Name: "leads.months", Title: "Leads by month", Dataset: records.DatasetLeads, Key: field("month"), SortBy: pipeline.ByMonth},

	{Name: "discounts.products", Title: "Discounted products", Dataset: records.DatasetDiscounts, Key: field("product"), SortBy: "discount"},
	{Name: "discounts.types", Title: "Discount types", Dataset: records.DatasetDiscounts, Key: field("discount_type"), SortBy: "discount"},
	{Name: "discounts.locations", Title: "Discounts by location", Dataset: records.DatasetDiscounts, Key: field("location"), SortBy: "discount"},
	{Name: "discounts.sellers", Title: "Discounts by associate", Dataset: records.DatasetDiscounts, Key: field("sold_by"), SortBy: "discount"},
}

var viewsByName = func() map[string]viewSpec {
	m := make(map[string]viewSpec, len(views))
	for _, v := range views {
		m[v.Name] = v
	}
	return m
}()

// metricNames lists the totals and ratios a dataset's buckets carry.
func (d datasetSpec) metricNames() []string {
	names := make([]string, 0, len(d.Measures)+len(d.Derive))
	for _, m := range d.Measures {
		names = append(names, m.Name)
	}
	for _, r := range d.Derive {
		names = append(names, r.Name)
	}
	return names
}

func (d datasetSpec) hasMetric(name string) bool {
	if name == pipeline.ByName || name == pipeline.ByMonth {
		return true
	}
	for _, n := range d.metricNames() {
		if n == name {
			return true
		}
	}
	return false
}

func (d datasetSpec) facetNames() []string {
	names := make([]string, 0, len(d.Facets))
	for n := range d.Facets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (d datasetSpec) config(key pipeline.KeyFunc[record], keepRecords bool) pipeline.Config[record] {
	return pipeline.Config[record]{
		Key:         key,
		Measures:    d.Measures,
		Derive:      d.Derive,
		KeepRecords: keepRecords,
	}
}

// Catalogue lists every view in a fixed order.
func Catalogue() []ViewInfo {
	out := make([]ViewInfo, 0, len(views))
	for _, v := range views {
		ds := datasets[v.Dataset]
		out = append(out, ViewInfo{
			Name:    v.Name,
			Title:   v.Title,
			Dataset: v.Dataset,
			SortBy:  v.SortBy,
			Metrics: ds.metricNames(),
			Facets:  ds.facetNames(),
		})
	}
	return out
}
