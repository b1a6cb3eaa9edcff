package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/godilite/studio-insights/internal/pipeline"
	"github.com/godilite/studio-insights/internal/records"
)

const (
	dbTimeout  = 2 * time.Second
	summaryKey = "All"
)

var (
	ErrUnknownView    = errors.New("unknown view")
	ErrUnknownDataset = errors.New("unknown dataset")
	ErrInvalidQuery   = errors.New("invalid query")
	ErrBucketNotFound = errors.New("bucket not found")
	ErrStorageFailure = errors.New("storage failure")
)

// DashboardService loads snapshot records and runs them through the
// aggregation pipeline. Every call builds its buckets from scratch.
type DashboardService struct {
	storage SnapshotRepository
	logger  *zap.Logger
}

// NewDashboardService creates a new DashboardService instance.
func NewDashboardService(storage SnapshotRepository, logger *zap.Logger) *DashboardService {
	if storage == nil {
		panic("storage must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	return &DashboardService{
		storage: storage,
		logger:  logger,
	}
}

// Views lists the view catalogue.
func (s *DashboardService) Views() []ViewInfo {
	return Catalogue()
}

// Query renders one view: filter, group, derive, rank and slice, plus a
// summary bucket over every matched record.
func (s *DashboardService) Query(ctx context.Context, q Query) (View, error) {
	view, ds, err := resolve(q)
	if err != nil {
		return View{}, err
	}

	all, err := s.load(ctx, ds.Dataset)
	if err != nil {
		return View{}, err
	}
	matched := pipeline.Filter(all, ds.predicate(q.Search, q.Filters))

	metric := view.SortBy
	if q.SortBy != "" {
		metric = q.SortBy
	}
	dir, order := pipeline.Descending, orderDesc
	if q.Ascending {
		dir, order = pipeline.Ascending, orderAsc
	}

	out := View{
		Name:    view.Name,
		Title:   view.Title,
		Dataset: view.Dataset,
		Metric:  metric,
		Order:   order,
		Rows:    []Bucket{},
		Matched: len(matched),
		Empty:   len(matched) == 0,
	}
	if out.Empty {
		s.logger.Info("view has no matching records",
			zap.String("view", view.Name),
			zap.Int("records", len(all)))
		return out, nil
	}

	buckets := pipeline.Run(matched, ds.config(view.Key, q.IncludeRecords))
	ranked := pipeline.Rank(buckets, metric, dir)

	n := q.Limit
	if n == 0 {
		n = len(ranked)
	}
	if q.Bottom {
		ranked = pipeline.Bottom(ranked, n)
	} else {
		ranked = pipeline.Top(ranked, n)
	}

	out.Total = len(buckets)
	out.Rows = make([]Bucket, len(ranked))
	for i, b := range ranked {
		out.Rows[i] = render(b, q.IncludeRecords)
	}
	summary := pipeline.Run(matched, ds.config(pipeline.Constant[record](summaryKey), false))
	if len(summary) == 1 {
		card := render(summary[0], false)
		out.Summary = &card
	}

	s.logger.Info("built view",
		zap.String("view", view.Name),
		zap.String("metric", metric),
		zap.Int("matched", len(matched)),
		zap.Int("buckets", len(buckets)),
		zap.Int("rows", len(out.Rows)))

	return out, nil
}

// Drilldown returns a single bucket of a view with every record that
// contributed to it.
func (s *DashboardService) Drilldown(ctx context.Context, q Query, key string) (Bucket, error) {
	view, ds, err := resolve(q)
	if err != nil {
		return Bucket{}, err
	}

	all, err := s.load(ctx, ds.Dataset)
	if err != nil {
		return Bucket{}, err
	}
	matched := pipeline.Filter(all, ds.predicate(q.Search, q.Filters))

	want := records.KeyOrUnknown(key)
	for _, b := range pipeline.Run(matched, ds.config(view.Key, true)) {
		if b.Name == want {
			return render(b, true), nil
		}
	}
	return Bucket{}, fmt.Errorf("%w: %s has no bucket %q", ErrBucketNotFound, view.Name, want)
}

// Records returns one page of a dataset's filtered records in import order.
func (s *DashboardService) Records(ctx context.Context, q RecordsQuery) (RecordsPage, error) {
	ds, err := resolveDataset(q)
	if err != nil {
		return RecordsPage{}, err
	}

	all, err := s.load(ctx, ds.Dataset)
	if err != nil {
		return RecordsPage{}, err
	}
	matched := pipeline.Filter(all, ds.predicate(q.Search, q.Filters))

	start := min(q.Offset, len(matched))
	end := len(matched)
	if q.Limit > 0 {
		end = min(start+q.Limit, len(matched))
	}

	page := RecordsPage{
		Dataset: ds.Dataset,
		Total:   len(matched),
		Offset:  q.Offset,
		Records: make([]records.Row, 0, end-start),
	}
	for _, r := range matched[start:end] {
		page.Records = append(page.Records, asRow(r))
	}
	return page, nil
}

// Overview builds a headline card for every dataset, loading them
// concurrently.
func (s *DashboardService) Overview(ctx context.Context) (Overview, error) {
	cards := make([]Card, len(records.Datasets))

	g, ctx := errgroup.WithContext(ctx)
	for i, dataset := range records.Datasets {
		g.Go(func() error {
			all, err := s.load(ctx, dataset)
			if err != nil {
				return err
			}
			cards[i] = headline(datasets[dataset], all)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}

	s.logger.Info("built overview", zap.Int("cards", len(cards)))
	return Overview{Cards: cards}, nil
}

func headline(ds datasetSpec, all []record) Card {
	card := Card{
		Dataset:    ds.Dataset,
		Title:      ds.Title,
		Records:    len(all),
		Totals:     pipeline.Values{},
		Metrics:    pipeline.Values{},
		LeaderView: ds.Headline,
	}
	if len(all) == 0 {
		return card
	}

	summary := pipeline.Run(all, ds.config(pipeline.Constant[record](summaryKey), false))
	b := render(summary[0], false)
	card.Totals, card.Metrics = b.Totals, b.Metrics

	view := viewsByName[ds.Headline]
	ranked := pipeline.Rank(pipeline.Run(all, ds.config(view.Key, false)), view.SortBy, pipeline.Descending)
	if len(ranked) > 0 {
		card.Leader = ranked[0].Name
	}
	return card
}

// load reads one dataset from storage as pipeline records.
func (s *DashboardService) load(ctx context.Context, dataset records.Dataset) ([]record, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var (
		out []record
		err error
	)
	switch dataset {
	case records.DatasetSessions:
		out, err = fetch(dbCtx, s.storage.ListSessions)
	case records.DatasetSales:
		out, err = fetch(dbCtx, s.storage.ListSales)
	case records.DatasetPayroll:
		out, err = fetch(dbCtx, s.storage.ListPayroll)
	case records.DatasetMemberships:
		out, err = fetch(dbCtx, s.storage.ListMemberships)
	case records.DatasetLeads:
		out, err = fetch(dbCtx, s.storage.ListLeads)
	case records.DatasetDiscounts:
		out, err = fetch(dbCtx, s.storage.ListDiscounts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDataset, dataset)
	}
	if err != nil {
		s.logger.Error("failed to load dataset", zap.String("dataset", string(dataset)), zap.Error(err))
		return nil, fmt.Errorf("%w: load %s: %w", ErrStorageFailure, dataset, err)
	}
	return out, nil
}

func fetch[T record](ctx context.Context, list func(context.Context) ([]T, error)) ([]record, error) {
	rows, err := list(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]record, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out, nil
}
