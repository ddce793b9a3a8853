package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"order-catalog-service/internal/analytics"
	"order-catalog-service/internal/store"
)

// Fully qualified gRPC service names. Messages are google.protobuf.Struct values
// carrying the same JSON documents as the HTTP API.
const (
	DashboardServiceName = "dashboard.v1.DashboardService"
	CatalogServiceName   = "catalog.v1.CatalogService"
)

// DashboardServer is the server API for DashboardService.
type DashboardServer interface {
	GetSalesMetrics(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// CatalogServer is the server API for CatalogService.
type CatalogServer interface {
	GetCategoryDetails(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetProductDetails(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// GRPCHandler implements DashboardServer and CatalogServer.
type GRPCHandler struct {
	categoryStore store.CategoryStorer
	productStore  store.ProductStorer
	sales         SalesMetricsComputer
	logger        *zap.Logger
}

// NewGRPCHandler creates a new GRPCHandler.
func NewGRPCHandler(cs store.CategoryStorer, ps store.ProductStorer, sales SalesMetricsComputer, logger *zap.Logger) *GRPCHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GRPCHandler{categoryStore: cs, productStore: ps, sales: sales, logger: logger}
}

// NewGRPCServer registers the handler, the health service and reflection.
func NewGRPCServer(h *GRPCHandler, logger *zap.Logger) *grpc.Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(loggingInterceptor(logger)))
	s.RegisterService(&dashboardServiceDesc, h)
	s.RegisterService(&catalogServiceDesc, h)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(DashboardServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(CatalogServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	grpc_health_v1.RegisterHealthServer(s, healthServer)

	reflection.Register(s)
	return s
}

func loggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Info("grpc request",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("duration", time.Since(start)))
		return resp, err
	}
}

// --- Helper: Error Mapping ---

func (s *GRPCHandler) mapStoreErrorToGrpcStatus(err error, resourceName string, resourceID interface{}) error {
	switch {
	case errors.Is(err, store.ErrCategoryNotFound), errors.Is(err, store.ErrProductNotFound):
		return status.Errorf(codes.NotFound, "%s with ID %v not found", resourceName, resourceID)
	default:
		s.logger.Error("store operation failed", zap.String("resource", resourceName), zap.Any("id", resourceID), zap.Error(err))
		return status.Errorf(codes.Internal, "Failed to process request for %s ID %v", resourceName, resourceID)
	}
}

func (s *GRPCHandler) mapSalesError(err error) error {
	var invalid *analytics.InvalidFilterError
	var unavailable *analytics.StoreUnavailableError
	switch {
	case errors.As(err, &invalid):
		return status.Error(codes.InvalidArgument, invalid.Error())
	case errors.As(err, &unavailable):
		return status.Error(codes.Unavailable, "Sales metrics are temporarily unavailable")
	default:
		s.logger.Error("sales metrics computation failed", zap.Error(err))
		return status.Error(codes.Internal, "Failed to compute sales metrics")
	}
}

// --- Dashboard ---

// GetSalesMetrics accepts {categoryIds, productIds, startDate, endDate}. Id fields may
// be a list of strings or a single comma separated string.
func (s *GRPCHandler) GetSalesMetrics(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	categoryIDs, err := stringListField(req, "categoryIds")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	productIDs, err := stringListField(req, "productIds")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	filter, err := analytics.ParseFilter(categoryIDs, productIDs, stringField(req, "startDate"), stringField(req, "endDate"))
	if err != nil {
		return nil, s.mapSalesError(err)
	}

	metrics, err := s.sales.Compute(ctx, filter)
	if err != nil {
		return nil, s.mapSalesError(err)
	}
	return toStruct(metrics)
}

// --- Catalog ---

func (s *GRPCHandler) GetCategoryDetails(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := uuid.Parse(stringField(req, "id"))
	if err != nil || id == uuid.Nil {
		return nil, status.Error(codes.InvalidArgument, "Invalid category ID format")
	}

	category, err := s.categoryStore.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, s.mapStoreErrorToGrpcStatus(err, "Category", id)
	}
	return toStruct(category)
}

func (s *GRPCHandler) GetProductDetails(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := uuid.Parse(stringField(req, "id"))
	if err != nil || id == uuid.Nil {
		return nil, status.Error(codes.InvalidArgument, "Invalid product ID format")
	}

	product, err := s.productStore.GetProductView(ctx, id)
	if err != nil {
		return nil, s.mapStoreErrorToGrpcStatus(err, "Product", id)
	}
	return toStruct(product)
}

// --- Struct conversion ---

func stringField(req *structpb.Struct, name string) string {
	v, ok := req.GetFields()[name]
	if !ok {
		return ""
	}
	return v.GetStringValue()
}

func stringListField(req *structpb.Struct, name string) ([]string, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return nil, nil
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_NullValue:
		return nil, nil
	case *structpb.Value_StringValue:
		return []string{kind.StringValue}, nil
	case *structpb.Value_ListValue:
		out := make([]string, 0, len(kind.ListValue.GetValues()))
		for _, item := range kind.ListValue.GetValues() {
			str, ok := item.GetKind().(*structpb.Value_StringValue)
			if !ok {
				return nil, fmt.Errorf("%s must contain only strings", name)
			}
			out = append(out, str.StringValue)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s must be a string or a list of strings", name)
	}
}

// toStruct converts v through its JSON form so gRPC and HTTP share one document shape.
func toStruct(v interface{}) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

// --- Service descriptors ---

func unaryStructHandler(fullMethod string, call func(srv interface{}, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv, ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var dashboardServiceDesc = grpc.ServiceDesc{
	ServiceName: DashboardServiceName,
	HandlerType: (*DashboardServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetSalesMetrics",
			Handler: unaryStructHandler("/"+DashboardServiceName+"/GetSalesMetrics",
				func(srv interface{}, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
					return srv.(DashboardServer).GetSalesMetrics(ctx, req)
				}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: dashboardProtoFile,
}

var catalogServiceDesc = grpc.ServiceDesc{
	ServiceName: CatalogServiceName,
	HandlerType: (*CatalogServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetCategoryDetails",
			Handler: unaryStructHandler("/"+CatalogServiceName+"/GetCategoryDetails",
				func(srv interface{}, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
					return srv.(CatalogServer).GetCategoryDetails(ctx, req)
				}),
		},
		{
			MethodName: "GetProductDetails",
			Handler: unaryStructHandler("/"+CatalogServiceName+"/GetProductDetails",
				func(srv interface{}, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
					return srv.(CatalogServer).GetProductDetails(ctx, req)
				}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: catalogProtoFile,
}
