package service

import (
	"encoding/json"

	"github.com/godilite/studio-insights/internal/pipeline"
	"github.com/godilite/studio-insights/internal/records"
)

// Bucket is one rendered row of a view. Values are rounded to one decimal.
type Bucket struct {
	Name    string          `json:"name"`
	Totals  pipeline.Values `json:"totals"`
	Metrics pipeline.Values `json:"metrics"`
	Records []records.Row   `json:"records,omitempty"`
}

// View is the rendered result of a Query.
type View struct {
	Name    string          `json:"name"`
	Title   string          `json:"title"`
	Dataset records.Dataset `json:"dataset"`
	Metric  string          `json:"metric"`
	Order   string          `json:"order"`
	Rows    []Bucket        `json:"rows"`
	Summary *Bucket         `json:"summary,omitempty"`
	// Total is the number of buckets before Limit was applied.
	Total   int  `json:"total"`
	Matched int  `json:"matched"`
	Empty   bool `json:"empty"`
}

// RecordsPage is one page of filtered records.
type RecordsPage struct {
	Dataset records.Dataset `json:"dataset"`
	Total   int             `json:"total"`
	Offset  int             `json:"offset"`
	Records []records.Row   `json:"records"`
}

// Card is the overview headline of one dataset.
type Card struct {
	Dataset records.Dataset `json:"dataset"`
	Title   string          `json:"title"`
	Records int             `json:"records"`
	Totals  pipeline.Values `json:"totals"`
	Metrics pipeline.Values `json:"metrics"`
	// Leader is the top bucket of the dataset's headline view.
	LeaderView string `json:"leader_view"`
	Leader     string `json:"leader,omitempty"`
}

// Overview holds one card per dataset in a fixed order.
type Overview struct {
	Cards []Card `json:"cards"`
}

const (
	orderAsc  = "asc"
	orderDesc = "desc"
)

func render(b derived, withRecords bool) Bucket {
	out := Bucket{
		Name:    b.Name,
		Totals:  rounded(b.Totals),
		Metrics: rounded(b.Metrics),
	}
	if withRecords {
		out.Records = make([]records.Row, len(b.Records))
		for i, r := range b.Records {
			out.Records[i] = asRow(r)
		}
	}
	return out
}

func rounded(v pipeline.Values) pipeline.Values {
	out := make(pipeline.Values, len(v))
	for k, x := range v {
		out[k] = pipeline.Round(x, 1)
	}
	return out
}

// asRow flattens a typed record into its JSON field map.
func asRow(r record) records.Row {
	if row, ok := r.(records.Row); ok {
		return row
	}
	data, err := json.Marshal(r)
	if err != nil {
		return records.Row{}
	}
	row := records.Row{}
	if err := json.Unmarshal(data, &row); err != nil {
		return records.Row{}
	}
	return row
}
