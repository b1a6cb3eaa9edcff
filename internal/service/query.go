package service

import (
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/godilite/studio-insights/internal/pipeline"
	"github.com/godilite/studio-insights/internal/records"
)

// MaxLimit caps how many rows or records one request may return.
const MaxLimit = 1000

var validate = validator.New()

// Query selects, filters and orders one view. It is a value type: the With
// helpers return modified copies and never touch the receiver.
type Query struct {
	View           string            `json:"view" validate:"required,max=64"`
	Search         string            `json:"search,omitempty" validate:"max=200"`
	Filters        map[string]string `json:"filters,omitempty" validate:"max=16,dive,keys,required,max=64,endkeys,max=200"`
	SortBy         string            `json:"sort_by,omitempty" validate:"max=64"`
	Ascending      bool              `json:"ascending,omitempty"`
	Limit          int               `json:"limit,omitempty" validate:"min=0,max=1000"`
	Bottom         bool              `json:"bottom,omitempty"`
	IncludeRecords bool              `json:"include_records,omitempty"`
}

// WithFilter returns a copy of q with the facet name set to value.
func (q Query) WithFilter(name, value string) Query {
	filters := make(map[string]string, len(q.Filters)+1)
	for k, v := range q.Filters {
		filters[k] = v
	}
	filters[name] = value
	q.Filters = filters
	return q
}

// WithSort returns a copy of q ordered by metric.
func (q Query) WithSort(metric string, ascending bool) Query {
	q.SortBy = metric
	q.Ascending = ascending
	return q
}

// RecordsQuery pages through the filtered records of one dataset.
type RecordsQuery struct {
	Dataset records.Dataset   `json:"dataset" validate:"required,max=32"`
	Search  string            `json:"search,omitempty" validate:"max=200"`
	Filters map[string]string `json:"filters,omitempty" validate:"max=16,dive,keys,required,max=64,endkeys,max=200"`
	Limit   int               `json:"limit,omitempty" validate:"min=0,max=1000"`
	Offset  int               `json:"offset,omitempty" validate:"min=0"`
}

// resolve validates q and returns the view and dataset it addresses.
func resolve(q Query) (viewSpec, datasetSpec, error) {
	if err := validate.Struct(q); err != nil {
		return viewSpec{}, datasetSpec{}, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	view, ok := viewsByName[q.View]
	if !ok {
		return viewSpec{}, datasetSpec{}, fmt.Errorf("%w: %q", ErrUnknownView, q.View)
	}
	ds := datasets[view.Dataset]
	if q.SortBy != "" && !ds.hasMetric(q.SortBy) {
		return viewSpec{}, datasetSpec{}, fmt.Errorf("%w: view %s has no metric %q", ErrInvalidQuery, view.Name, q.SortBy)
	}
	if err := ds.checkFacets(q.Filters); err != nil {
		return viewSpec{}, datasetSpec{}, err
	}
	return view, ds, nil
}

func resolveDataset(q RecordsQuery) (datasetSpec, error) {
	if err := validate.Struct(q); err != nil {
		return datasetSpec{}, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	ds, ok := datasets[q.Dataset]
	if !ok {
		return datasetSpec{}, fmt.Errorf("%w: %q", ErrUnknownDataset, q.Dataset)
	}
	if err := ds.checkFacets(q.Filters); err != nil {
		return datasetSpec{}, err
	}
	return ds, nil
}

func (d datasetSpec) checkFacets(filters map[string]string) error {
	for name := range filters {
		if _, ok := d.Facets[name]; !ok {
			return fmt.Errorf("%w: %s has no facet %q", ErrInvalidQuery, d.Dataset, name)
		}
	}
	return nil
}

// predicate combines the free-text search with every facet filter. Facets
// are applied in name order so equal queries build equal predicates.
func (d datasetSpec) predicate(search string, filters map[string]string) pipeline.Predicate[record] {
	names := make([]string, 0, len(filters))
	for name := range filters {
		names = append(names, name)
	}
	sort.Strings(names)

	preds := make([]pipeline.Predicate[record], 0, len(names)+1)
	preds = append(preds, pipeline.Search[record](search, d.Search...))
	for _, name := range names {
		f := d.Facets[name]
		preds = append(preds, pipeline.Facet[record](f.Field, filters[name], f.Match))
	}
	return pipeline.And(preds...)
}
