package app

import (
	"context"
	"database/sql"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/godilite/studio-insights/internal/config"
	handler "github.com/godilite/studio-insights/internal/grpc"
	"github.com/godilite/studio-insights/internal/httpapi"
	"github.com/godilite/studio-insights/internal/observability"
	"github.com/godilite/studio-insights/internal/repository"
	"github.com/godilite/studio-insights/internal/service"
	"github.com/godilite/studio-insights/pkg/cache"
	dbbuilder "github.com/godilite/studio-insights/pkg/database"
	grpcsrv "github.com/godilite/studio-insights/pkg/grpc/server"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	logger     *zap.Logger
	dbPool     *sql.DB
	cache      *cache.Cache
	grpcServer *grpcsrv.Server
	httpServer *httpapi.Server
}

// Dashboard is what both transports serve.
type Dashboard interface {
	handler.Dashboard
	httpapi.Dashboard
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	dbPool, err := dbbuilder.New(ctx,
		dbbuilder.WithDriver(cfg.DBDriver),
		dbbuilder.WithDataSource(cfg.DBPath),
	)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	logger.Info("Database pool initialized", zap.String("path", cfg.DBPath))

	repo := repository.NewSnapshotRepository(dbPool)
	if err := repo.EnsureSchema(ctx); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("schema init failed: %w", err)
	}

	metrics := observability.NewMetrics()
	dashboardService := service.NewDashboardService(repo, logger.Named("dashboard"))

	var dashboard Dashboard = dashboardService
	cacheClient, err := cache.New(ctx, cache.WithAddress(cfg.RedisAddr))
	if err != nil {
		logger.Warn("cache unavailable, serving uncached", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	} else {
		logger.Info("Cache client initialized", zap.String("addr", cfg.RedisAddr))
		dashboard = service.NewCachedDashboard(dashboardService, cacheClient, repo, cfg.CacheTTL, metrics, logger.Named("cache"))
	}

	grpcServer, err := grpcsrv.New(
		grpcsrv.WithPort(cfg.GRPCPort),
		grpcsrv.WithLogger(logger),
		grpcsrv.WithReflection(cfg.GRPCReflectionEnabled),
		grpcsrv.WithLogging(true),
		grpcsrv.WithRecovery(true),
		grpcsrv.WithMetrics(metrics),
	)
	if err != nil {
		closeAll(logger, cacheClient, dbPool)
		return nil, fmt.Errorf("failed to create gRPC server: %w", err)
	}

	grpcHandlers := handler.NewDashboardHandlers(dashboard, logger, 0)
	grpcServer.RegisterServiceWithHealth(handler.ServiceName, func(s *grpc.Server) {
		handler.RegisterDashboardServer(s, grpcHandlers)
	})

	router := httpapi.NewRouter(httpapi.NewHandler(dashboard, logger), httpapi.RouterConfig{
		Logger:    logger,
		Metrics:   metrics,
		RateLimit: cfg.RateLimitPerMinute,
	})
	httpServer, err := httpapi.NewServer(fmt.Sprintf(":%d", cfg.HTTPPort), router, logger)
	if err != nil {
		closeAll(logger, cacheClient, dbPool)
		return nil, fmt.Errorf("failed to create HTTP server: %w", err)
	}

	return &App{
		logger:     logger,
		dbPool:     dbPool,
		cache:      cacheClient,
		grpcServer: grpcServer,
		httpServer: httpServer,
	}, nil
}

// Run starts the application and blocks until a shutdown signal is received.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return a.Serve(ctx)
}

// Serve runs both servers until ctx is done, then shuts them down.
func (a *App) Serve(ctx context.Context) error {
	a.logger.Info("application starting")

	a.grpcServer.Start()
	a.httpServer.Start()

	<-ctx.Done()

	a.logger.Info("application shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var shutdownErr error
	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		shutdownErr = fmt.Errorf("http shutdown: %w", err)
	}
	if err := a.grpcServer.Shutdown(shutdownCtx); err != nil && shutdownErr == nil {
		shutdownErr = fmt.Errorf("grpc shutdown: %w", err)
	}

	closeAll(a.logger, a.cache, a.dbPool)

	if shutdownErr != nil {
		a.logger.Warn("shutdown completed with errors", zap.Error(shutdownErr))
	} else {
		a.logger.Info("graceful shutdown completed successfully")
	}

	_ = a.logger.Sync()
	return shutdownErr
}

func closeAll(logger *zap.Logger, cacheClient *cache.Cache, dbPool *sql.DB) {
	if cacheClient != nil {
		if err := cacheClient.Close(); err != nil {
			logger.Error("cache shutdown error", zap.Error(err))
		}
	}
	if err := dbPool.Close(); err != nil {
		logger.Error("database shutdown error", zap.Error(err))
	}
}
