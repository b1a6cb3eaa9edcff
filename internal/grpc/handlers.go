package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/godilite/studio-insights/internal/service"
)

const defaultGRPCTimeout = 10 * time.Second

// DashboardHandlers serves the Dashboard service on top of a Dashboard.
type DashboardHandlers struct {
	dashboard Dashboard
	logger    *zap.Logger
	timeout   time.Duration
}

// NewDashboardHandlers initializes the gRPC handlers.
func NewDashboardHandlers(dashboard Dashboard, logger *zap.Logger, timeout time.Duration) *DashboardHandlers {
	if dashboard == nil {
		panic("nil Dashboard provided to NewDashboardHandlers")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = defaultGRPCTimeout
	}
	return &DashboardHandlers{
		dashboard: dashboard,
		logger:    logger.Named("grpc-handler"),
		timeout:   timeout,
	}
}

type drilldownRequest struct {
	service.Query
	Key string `json:"key"`
}

// decode maps a Struct request onto dest through its JSON field names.
func decode(req *structpb.Struct, dest any) error {
	data, err := req.MarshalJSON()
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "malformed request: %v", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return status.Errorf(codes.InvalidArgument, "malformed request: %v", err)
	}
	return nil
}

// encode renders a response value as a Struct.
func encode(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}
	out := &structpb.Struct{}
	if err := out.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}
	return out, nil
}

func (s *DashboardHandlers) handleError(ctx context.Context, op string, err error) error {
	switch ctx.Err() {
	case context.Canceled:
		s.logger.Warn("request canceled", zap.String("op", op))
		return status.Error(codes.Canceled, "request canceled")
	case context.DeadlineExceeded:
		s.logger.Warn("request timeout", zap.String("op", op))
		return status.Error(codes.DeadlineExceeded, "request timed out")
	}

	switch {
	case errors.Is(err, service.ErrInvalidQuery),
		errors.Is(err, service.ErrUnknownView),
		errors.Is(err, service.ErrUnknownDataset):
		s.logger.Info("rejected request", zap.String("op", op), zap.Error(err))
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrBucketNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, service.ErrStorageFailure):
		s.logger.Error("storage failure", zap.String("op", op), zap.Error(err))
		return status.Error(codes.Internal, "database error")
	default:
		s.logger.Error("unexpected error", zap.String("op", op), zap.Error(err))
		return status.Errorf(codes.Internal, "%s failed: %v", op, err)
	}
}

func respond(v any) (*structpb.Struct, error) {
	out, err := encode(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func (s *DashboardHandlers) Query(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var q service.Query
	if err := decode(req, &q); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	view, err := s.dashboard.Query(ctx, q)
	if err != nil {
		return nil, s.handleError(ctx, "Query", err)
	}
	return respond(view)
}

func (s *DashboardHandlers) Drilldown(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var r drilldownRequest
	if err := decode(req, &r); err != nil {
		return nil, err
	}
	if r.Key == "" {
		return nil, status.Error(codes.InvalidArgument, "key is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	bucket, err := s.dashboard.Drilldown(ctx, r.Query, r.Key)
	if err != nil {
		return nil, s.handleError(ctx, "Drilldown", err)
	}
	return respond(bucket)
}

func (s *DashboardHandlers) Records(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var q service.RecordsQuery
	if err := decode(req, &q); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	page, err := s.dashboard.Records(ctx, q)
	if err != nil {
		return nil, s.handleError(ctx, "Records", err)
	}
	return respond(page)
}

func (s *DashboardHandlers) Overview(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	overview, err := s.dashboard.Overview(ctx)
	if err != nil {
		return nil, s.handleError(ctx, "Overview", err)
	}
	return respond(overview)
}

func (s *DashboardHandlers) ListViews(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return respond(struct {
		Views []service.ViewInfo `json:"views"`
	}{s.dashboard.Views()})
}
