package api

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Proto files describing the Struct-typed services, registered so that gRPC
// reflection clients can describe every method.
const (
	dashboardProtoFile = "dashboard/v1/dashboard.proto"
	catalogProtoFile   = "catalog/v1/catalog.proto"
)

func init() {
	files := []*descriptorpb.FileDescriptorProto{
		serviceFile(dashboardProtoFile, "dashboard.v1", "DashboardService", "GetSalesMetrics"),
		serviceFile(catalogProtoFile, "catalog.v1", "CatalogService", "GetCategoryDetails", "GetProductDetails"),
	}
	for _, fdp := range files {
		if err := registerServiceFile(fdp); err != nil {
			panic(err)
		}
	}
}

// serviceFile declares one service whose methods all take and return google.protobuf.Struct.
func serviceFile(name, pkg, service string, methods ...string) *descriptorpb.FileDescriptorProto {
	structType := "." + string((&structpb.Struct{}).ProtoReflect().Descriptor().FullName())

	descs := make([]*descriptorpb.MethodDescriptorProto, 0, len(methods))
	for _, m := range methods {
		descs = append(descs, &descriptorpb.MethodDescriptorProto{
			Name:       proto.String(m),
			InputType:  proto.String(structType),
			OutputType: proto.String(structType),
		})
	}
	return &descriptorpb.FileDescriptorProto{
		Name:       proto.String(name),
		Package:    proto.String(pkg),
		Syntax:     proto.String("proto3"),
		Dependency: []string{structpb.File_google_protobuf_struct_proto.Path()},
		Service: []*descriptorpb.ServiceDescriptorProto{
			{Name: proto.String(service), Method: descs},
		},
	}
}

func registerServiceFile(fdp *descriptorpb.FileDescriptorProto) error {
	fd, err := protodesc.NewFile(fdp, protoregistry.GlobalFiles)
	if err != nil {
		return fmt.Errorf("build descriptor %s: %w", fdp.GetName(), err)
	}
	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		return fmt.Errorf("register descriptor %s: %w", fdp.GetName(), err)
	}
	return nil
}
