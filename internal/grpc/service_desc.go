package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "studioinsights.v1.Dashboard"

// DashboardServer is the server API for the Dashboard service. Requests and
// responses are google.protobuf.Struct documents shaped like the JSON API.
type DashboardServer interface {
	Query(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Drilldown(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Records(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Overview(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListViews(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type dashboardCall func(srv DashboardServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call dashboardCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DashboardServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/" + ServiceName + "/" + method,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(DashboardServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// DashboardServiceDesc describes the Dashboard service for grpc.Server.
var DashboardServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DashboardServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Query", Handler: unaryHandler("Query", DashboardServer.Query)},
		{MethodName: "Drilldown", Handler: unaryHandler("Drilldown", DashboardServer.Drilldown)},
		{MethodName: "Records", Handler: unaryHandler("Records", DashboardServer.Records)},
		{MethodName: "Overview", Handler: unaryHandler("Overview", DashboardServer.Overview)},
		{MethodName: "ListViews", Handler: unaryHandler("ListViews", DashboardServer.ListViews)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "studioinsights/v1/dashboard.proto",
}

// RegisterDashboardServer registers srv on s.
func RegisterDashboardServer(s grpc.ServiceRegistrar, srv DashboardServer) {
	s.RegisterService(&DashboardServiceDesc, srv)
}

// DashboardClient calls the Dashboard service.
type DashboardClient struct {
	cc grpc.ClientConnInterface
}

func NewDashboardClient(cc grpc.ClientConnInterface) *DashboardClient {
	return &DashboardClient{cc: cc}
}

func (c *DashboardClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if in == nil {
		in = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DashboardClient) Query(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "Query", in, opts...)
}

func (c *DashboardClient) Drilldown(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "Drilldown", in, opts...)
}

func (c *DashboardClient) Records(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "Records", in, opts...)
}

func (c *DashboardClient) Overview(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "Overview", in, opts...)
}

func (c *DashboardClient) ListViews(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "ListViews", in, opts...)
}
