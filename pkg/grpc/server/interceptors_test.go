package server

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

const queryMethod = "/studioinsights.v1.Dashboard/Query"

type recordedRPC struct {
	method, code string
}

type rpcRecorder struct {
	mu    sync.Mutex
	calls []recordedRPC
}

func (r *rpcRecorder) ObserveRPC(method, code string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, recordedRPC{method, code})
}

func (r *rpcRecorder) recorded() []recordedRPC {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedRPC(nil), r.calls...)
}

func TestLoggingInterceptor(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	interceptor := LoggingInterceptor(zap.New(core))
	info := &grpc.UnaryServerInfo{FullMethod: queryMethod}

	t.Run("successful request", func(t *testing.T) {
		resp, err := interceptor(context.Background(), "req", info, func(ctx context.Context, req any) (any, error) {
			return "view", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "view", resp)

		completed := logs.FilterMessage("gRPC request completed").All()
		require.Len(t, completed, 1)
		assert.Equal(t, queryMethod, completed[0].ContextMap()["method"])
		assert.Equal(t, "unknown", logs.FilterMessage("gRPC request started").All()[0].ContextMap()["client_addr"])
	})

	t.Run("error request", func(t *testing.T) {
		_, err := interceptor(context.Background(), "req", info, func(ctx context.Context, req any) (any, error) {
			return nil, status.Error(codes.InvalidArgument, "unknown view")
		})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))

		failed := logs.FilterMessage("gRPC request failed").All()
		require.Len(t, failed, 1)
		assert.Equal(t, "InvalidArgument", failed[0].ContextMap()["status_code"])
		assert.Equal(t, "unknown view", failed[0].ContextMap()["status_message"])
	})
}

func TestRecoveryInterceptor(t *testing.T) {
	interceptor := RecoveryInterceptor(zaptest.NewLogger(t))
	info := &grpc.UnaryServerInfo{FullMethod: queryMethod}

	_, err := interceptor(context.Background(), "req", info, func(ctx context.Context, req any) (any, error) {
		panic("boom")
	})
	assert.Equal(t, codes.Internal, status.Code(err))

	resp, err := interceptor(context.Background(), "req", info, func(ctx context.Context, req any) (any, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
}

func TestMetricsInterceptor(t *testing.T) {
	recorder := &rpcRecorder{}
	interceptor := MetricsInterceptor(recorder)
	info := &grpc.UnaryServerInfo{FullMethod: queryMethod}

	_, _ = interceptor(context.Background(), "req", info, func(ctx context.Context, req any) (any, error) {
		return "ok", nil
	})
	_, _ = interceptor(context.Background(), "req", info, func(ctx context.Context, req any) (any, error) {
		return nil, status.Error(codes.NotFound, "no bucket")
	})

	assert.Equal(t, []recordedRPC{
		{queryMethod, "OK"},
		{queryMethod, "NotFound"},
	}, recorder.recorded())
}

func TestServerBuilderRejectsInvalidPort(t *testing.T) {
	_, err := New(WithPort(70000))
	assert.ErrorContains(t, err, "invalid port 70000")

	_, err = New(WithPort(0))
	assert.Error(t, err)
}

func TestServerBuilderWithLogging(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	recorder := &rpcRecorder{}
	server, err := New(
		WithListener(lis),
		WithLogger(zaptest.NewLogger(t)),
		WithLogging(true),
		WithRecovery(true),
		WithMetrics(recorder),
		WithMaxConnectionIdle(time.Minute),
	)
	require.NoError(t, err)
	server.RegisterServiceWithHealth("studioinsights.v1.Dashboard", func(s *grpc.Server) {})
	server.Start()

	conn, err := grpc.NewClient(server.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	healthClient := healthpb.NewHealthClient(conn)
	resp, err := healthClient.Check(ctx, &healthpb.HealthCheckRequest{Service: "studioinsights.v1.Dashboard"})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
	assert.Equal(t, []recordedRPC{{"/grpc.health.v1.Health/Check", "OK"}}, recorder.recorded())

	_, err = healthClient.Check(ctx, &healthpb.HealthCheckRequest{Service: "nope"})
	assert.Equal(t, codes.NotFound, status.Code(err))

	require.NoError(t, server.Shutdown(context.Background()))
}
