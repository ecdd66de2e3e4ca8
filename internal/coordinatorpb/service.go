package coordinatorpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// serviceName is indexify_coordinator.CoordinatorService. There is no
// protoc/buf step in this tree; CoordinatorServer and the ServiceDesc
// below are the hand-maintained equivalent of what protoc-gen-go-grpc
// would otherwise emit.
const serviceName = "indexify_coordinator.CoordinatorService"

// CoordinatorServer is implemented by internal/coordinatorapi.
type CoordinatorServer interface {
	RegisterExecutor(context.Context, *RegisterExecutorRequest) (*RegisterExecutorResponse, error)
	Heartbeat(CoordinatorHeartbeatServer) error
	ReportTaskOutcome(context.Context, *ReportTaskOutcomeRequest) (*ReportTaskOutcomeResponse, error)

	CreateRepository(context.Context, *CreateRepositoryRequest) (*CreateRepositoryResponse, error)
	ListRepositories(context.Context, *ListRepositoriesRequest) (*ListRepositoriesResponse, error)
	CreateBinding(context.Context, *CreateBindingRequest) (*CreateBindingResponse, error)
	ListBindings(context.Context, *ListBindingsRequest) (*ListBindingsResponse, error)
	CreateContent(context.Context, *CreateContentRequest) (*CreateContentResponse, error)
	ListContent(context.Context, *ListContentRequest) (*ListContentResponse, error)
	CreateIndex(context.Context, *CreateIndexRequest) (*CreateIndexResponse, error)
	ListIndexes(context.Context, *ListIndexesRequest) (*ListIndexesResponse, error)
	ListExecutors(context.Context, *ListExecutorsRequest) (*ListExecutorsResponse, error)
	ListTasks(context.Context, *ListTasksRequest) (*ListTasksResponse, error)
}

// CoordinatorHeartbeatServer is the server side of the bidi-streaming
// Heartbeat RPC.
type CoordinatorHeartbeatServer interface {
	Send(*HeartbeatResponse) error
	Recv() (*HeartbeatRequest, error)
	grpc.ServerStream
}

type coordinatorHeartbeatServer struct {
	grpc.ServerStream
}

func (s *coordinatorHeartbeatServer) Send(m *HeartbeatResponse) error { return s.ServerStream.SendMsg(m) }
func (s *coordinatorHeartbeatServer) Recv() (*HeartbeatRequest, error) {
	var m HeartbeatRequest
	if err := s.ServerStream.RecvMsg(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// UnimplementedCoordinatorServer can be embedded by servers that only
// implement a subset of the interface during incremental rollout.
type UnimplementedCoordinatorServer struct{}

func (UnimplementedCoordinatorServer) RegisterExecutor(context.Context, *RegisterExecutorRequest) (*RegisterExecutorResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RegisterExecutor not implemented")
}
func (UnimplementedCoordinatorServer) Heartbeat(CoordinatorHeartbeatServer) error {
	return status.Error(codes.Unimplemented, "method Heartbeat not implemented")
}
func (UnimplementedCoordinatorServer) ReportTaskOutcome(context.Context, *ReportTaskOutcomeRequest) (*ReportTaskOutcomeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ReportTaskOutcome not implemented")
}
func (UnimplementedCoordinatorServer) CreateRepository(context.Context, *CreateRepositoryRequest) (*CreateRepositoryResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateRepository not implemented")
}
func (UnimplementedCoordinatorServer) ListRepositories(context.Context, *ListRepositoriesRequest) (*ListRepositoriesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListRepositories not implemented")
}
func (UnimplementedCoordinatorServer) CreateBinding(context.Context, *CreateBindingRequest) (*CreateBindingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateBinding not implemented")
}
func (UnimplementedCoordinatorServer) ListBindings(context.Context, *ListBindingsRequest) (*ListBindingsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListBindings not implemented")
}
func (UnimplementedCoordinatorServer) CreateContent(context.Context, *CreateContentRequest) (*CreateContentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateContent not implemented")
}
func (UnimplementedCoordinatorServer) ListContent(context.Context, *ListContentRequest) (*ListContentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListContent not implemented")
}
func (UnimplementedCoordinatorServer) CreateIndex(context.Context, *CreateIndexRequest) (*CreateIndexResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateIndex not implemented")
}
func (UnimplementedCoordinatorServer) ListIndexes(context.Context, *ListIndexesRequest) (*ListIndexesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListIndexes not implemented")
}
func (UnimplementedCoordinatorServer) ListExecutors(context.Context, *ListExecutorsRequest) (*ListExecutorsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListExecutors not implemented")
}
func (UnimplementedCoordinatorServer) ListTasks(context.Context, *ListTasksRequest) (*ListTasksResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListTasks not implemented")
}

// RegisterCoordinatorServer registers srv with s, the way cmd/coordinator
// wires the gRPC server up.
func RegisterCoordinatorServer(s grpc.ServiceRegistrar, srv CoordinatorServer) {
	s.RegisterService(&coordinatorServiceDesc, srv)
}

func coordinatorRegisterExecutorHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	var in RegisterExecutorRequest
	if err := dec(&in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CoordinatorServer).RegisterExecutor(ctx, &in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/RegisterExecutor"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CoordinatorServer).RegisterExecutor(ctx, req.(*RegisterExecutorRequest))
	}
	return interceptor(ctx, &in, info, handler)
}

func coordinatorReportTaskOutcomeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	var in ReportTaskOutcomeRequest
	if err := dec(&in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CoordinatorServer).ReportTaskOutcome(ctx, &in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/ReportTaskOutcome"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CoordinatorServer).ReportTaskOutcome(ctx, req.(*ReportTaskOutcomeRequest))
	}
	return interceptor(ctx, &in, info, handler)
}

func coordinatorHeartbeatHandler(srv interface{}, stream grpc.ServerStream) error {
	return srv.(CoordinatorServer).Heartbeat(&coordinatorHeartbeatServer{stream})
}

func coordinatorCreateRepositoryHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	var in CreateRepositoryRequest
	if err := dec(&in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CoordinatorServer).CreateRepository(ctx, &in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/CreateRepository"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CoordinatorServer).CreateRepository(ctx, req.(*CreateRepositoryRequest))
	}
	return interceptor(ctx, &in, info, handler)
}

func coordinatorListRepositoriesHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	var in ListRepositoriesRequest
	if err := dec(&in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CoordinatorServer).ListRepositories(ctx, &in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/ListRepositories"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CoordinatorServer).ListRepositories(ctx, req.(*ListRepositoriesRequest))
	}
	return interceptor(ctx, &in, info, handler)
}

func coordinatorCreateBindingHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	var in CreateBindingRequest
	if err := dec(&in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CoordinatorServer).CreateBinding(ctx, &in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/CreateBinding"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CoordinatorServer).CreateBinding(ctx, req.(*CreateBindingRequest))
	}
	return interceptor(ctx, &in, info, handler)
}

func coordinatorListBindingsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	var in ListBindingsRequest
	if err := dec(&in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CoordinatorServer).ListBindings(ctx, &in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/ListBindings"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CoordinatorServer).ListBindings(ctx, req.(*ListBindingsRequest))
	}
	return interceptor(ctx, &in, info, handler)
}

func coordinatorCreateContentHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	var in CreateContentRequest
	if err := dec(&in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CoordinatorServer).CreateContent(ctx, &in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/CreateContent"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CoordinatorServer).CreateContent(ctx, req.(*CreateContentRequest))
	}
	return interceptor(ctx, &in, info, handler)
}

func coordinatorListContentHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	var in ListContentRequest
	if err := dec(&in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CoordinatorServer).ListContent(ctx, &in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/ListContent"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CoordinatorServer).ListContent(ctx, req.(*ListContentRequest))
	}
	return interceptor(ctx, &in, info, handler)
}

func coordinatorCreateIndexHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	var in CreateIndexRequest
	if err := dec(&in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CoordinatorServer).CreateIndex(ctx, &in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/CreateIndex"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CoordinatorServer).CreateIndex(ctx, req.(*CreateIndexRequest))
	}
	return interceptor(ctx, &in, info, handler)
}

func coordinatorListIndexesHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	var in ListIndexesRequest
	if err := dec(&in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CoordinatorServer).ListIndexes(ctx, &in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/ListIndexes"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CoordinatorServer).ListIndexes(ctx, req.(*ListIndexesRequest))
	}
	return interceptor(ctx, &in, info, handler)
}

func coordinatorListExecutorsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	var in ListExecutorsRequest
	if err := dec(&in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CoordinatorServer).ListExecutors(ctx, &in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/ListExecutors"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CoordinatorServer).ListExecutors(ctx, req.(*ListExecutorsRequest))
	}
	return interceptor(ctx, &in, info, handler)
}

func coordinatorListTasksHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	var in ListTasksRequest
	if err := dec(&in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CoordinatorServer).ListTasks(ctx, &in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/ListTasks"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CoordinatorServer).ListTasks(ctx, req.(*ListTasksRequest))
	}
	return interceptor(ctx, &in, info, handler)
}

var coordinatorServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*CoordinatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "RegisterExecutor", Handler: coordinatorRegisterExecutorHandler},
		{MethodName: "ReportTaskOutcome", Handler: coordinatorReportTaskOutcomeHandler},
		{MethodName: "CreateRepository", Handler: coordinatorCreateRepositoryHandler},
		{MethodName: "ListRepositories", Handler: coordinatorListRepositoriesHandler},
		{MethodName: "CreateBinding", Handler: coordinatorCreateBindingHandler},
		{MethodName: "ListBindings", Handler: coordinatorListBindingsHandler},
		{MethodName: "CreateContent", Handler: coordinatorCreateContentHandler},
		{MethodName: "ListContent", Handler: coordinatorListContentHandler},
		{MethodName: "CreateIndex", Handler: coordinatorCreateIndexHandler},
		{MethodName: "ListIndexes", Handler: coordinatorListIndexesHandler},
		{MethodName: "ListExecutors", Handler: coordinatorListExecutorsHandler},
		{MethodName: "ListTasks", Handler: coordinatorListTasksHandler},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Heartbeat",
			Handler:       coordinatorHeartbeatHandler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: "coordinator.proto",
}
