package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"

	"github.com/godilite/studio-insights/internal/observability"
)

const defaultRequestTimeout = 30 * time.Second

// RouterConfig aggregates what the router needs besides the handler.
type RouterConfig struct {
	Logger         *zap.Logger
	Metrics        *observability.Metrics
	RateLimit      int
	RequestTimeout time.Duration
}

// NewRouter mounts the API under /api/v1 plus /healthz and /metrics.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	r := chi.NewRouter()
	r.Use(
		middleware.RealIP,
		middleware.RequestID,
		requestLogger(logger.Named("http")),
		middleware.Recoverer,
		middleware.Timeout(timeout),
		cfg.Metrics.Middleware,
	)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		Problem(w, r, http.StatusNotFound, "Not Found", "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		Problem(w, r, http.StatusMethodNotAllowed, "Method Not Allowed", "")
	})

	r.Get("/healthz", handleHealth)
	r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		if cfg.RateLimit > 0 {
			api.Use(httprate.Limit(cfg.RateLimit, time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
					Problem(w, r, http.StatusTooManyRequests, "Too Many Requests", "")
				}),
			))
		}
		api.Get("/views", h.handleViews)
		api.Get("/views/{view}", h.handleView)
		api.Get("/views/{view}/buckets/{key}", h.handleBucket)
		api.Get("/datasets/{dataset}/records", h.handleRecords)
		api.Get("/overview", h.handleOverview)
	})
	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("http request completed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
