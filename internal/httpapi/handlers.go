package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/godilite/studio-insights/internal/records"
	"github.com/godilite/studio-insights/internal/service"
)

// facetPrefix marks query parameters that are facet filters, e.g.
// f.location=Supreme+HQ.
const facetPrefix = "f."

// Dashboard is the service API the HTTP handlers expose.
type Dashboard interface {
	Query(ctx context.Context, q service.Query) (service.View, error)
	Drilldown(ctx context.Context, q service.Query, key string) (service.Bucket, error)
	Records(ctx context.Context, q service.RecordsQuery) (service.RecordsPage, error)
	Overview(ctx context.Context) (service.Overview, error)
	Views() []service.ViewInfo
}

// Handler serves the dashboard endpoints.
type Handler struct {
	dashboard Dashboard
	logger    *zap.Logger
}

func NewHandler(dashboard Dashboard, logger *zap.Logger) *Handler {
	if dashboard == nil {
		panic("nil Dashboard provided to NewHandler")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{dashboard: dashboard, logger: logger.Named("http-handler")}
}

func (h *Handler) handleViews(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]any{"views": h.dashboard.Views()})
}

func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	view, err := h.dashboard.Query(r.Context(), q)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, view)
}

func (h *Handler) handleBucket(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	key, err := pathParam(r, "key")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	bucket, err := h.dashboard.Drilldown(r.Context(), q, key)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, bucket)
}

func (h *Handler) handleRecords(w http.ResponseWriter, r *http.Request) {
	dataset, err := pathParam(r, "dataset")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	params := r.URL.Query()
	q := service.RecordsQuery{
		Dataset: records.Dataset(dataset),
		Search:  params.Get("search"),
		Filters: facets(params),
	}
	if q.Limit, err = intParam(params, "limit"); err != nil {
		h.respondError(w, r, err)
		return
	}
	if q.Offset, err = intParam(params, "offset"); err != nil {
		h.respondError(w, r, err)
		return
	}

	page, err := h.dashboard.Records(r.Context(), q)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, page)
}

func (h *Handler) handleOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.dashboard.Overview(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, overview)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// parseQuery builds a Query from the {view} path parameter and the query
// string: search, sort, order, limit, bottom, records and f.<facet>.
func parseQuery(r *http.Request) (service.Query, error) {
	view, err := pathParam(r, "view")
	if err != nil {
		return service.Query{}, err
	}
	params := r.URL.Query()
	q := service.Query{
		View:    view,
		Search:  params.Get("search"),
		Filters: facets(params),
		SortBy:  params.Get("sort"),
	}

	switch strings.ToLower(params.Get("order")) {
	case "", "desc":
	case "asc":
		q.Ascending = true
	default:
		return service.Query{}, fmt.Errorf("%w: order must be asc or desc", service.ErrInvalidQuery)
	}
	if q.Limit, err = intParam(params, "limit"); err != nil {
		return service.Query{}, err
	}
	if q.Bottom, err = boolParam(params, "bottom"); err != nil {
		return service.Query{}, err
	}
	if q.IncludeRecords, err = boolParam(params, "records"); err != nil {
		return service.Query{}, err
	}
	return q, nil
}

// pathParam reads a path parameter. chi matches on the raw path only when
// it differs from the decoded one (an escaped '/', say), and only then is
// the parameter still escaped.
func pathParam(r *http.Request, name string) (string, error) {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return v, nil
	}
	v, err := url.PathUnescape(v)
	if err != nil {
		return "", fmt.Errorf("%w: bad %s: %v", service.ErrInvalidQuery, name, err)
	}
	return v, nil
}

func facets(params url.Values) map[string]string {
	var out map[string]string
	for k, v := range params {
		name, ok := strings.CutPrefix(k, facetPrefix)
		if !ok || name == "" || len(v) == 0 {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[name] = v[0]
	}
	return out
}

func intParam(params url.Values, name string) (int, error) {
	raw := params.Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", service.ErrInvalidQuery, name)
	}
	return n, nil
}

func boolParam(params url.Values, name string) (bool, error) {
	raw := params.Get(name)
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be true or false", service.ErrInvalidQuery, name)
	}
	return b, nil
}
