package coordinatorpb

import (
	"context"

	"google.golang.org/grpc"
)

// CoordinatorClient is the executor/gateway-facing client stub.
type CoordinatorClient interface {
	RegisterExecutor(ctx context.Context, in *RegisterExecutorRequest, opts ...grpc.CallOption) (*RegisterExecutorResponse, error)
	Heartbeat(ctx context.Context, opts ...grpc.CallOption) (CoordinatorHeartbeatClient, error)
	ReportTaskOutcome(ctx context.Context, in *ReportTaskOutcomeRequest, opts ...grpc.CallOption) (*ReportTaskOutcomeResponse, error)
}

type CoordinatorHeartbeatClient interface {
	Send(*HeartbeatRequest) error
	Recv() (*HeartbeatResponse, error)
	grpc.ClientStream
}

type coordinatorClient struct {
	cc grpc.ClientConnInterface
}

// NewCoordinatorClient wraps cc for calls against serviceName.
func NewCoordinatorClient(cc grpc.ClientConnInterface) CoordinatorClient {
	return &coordinatorClient{cc: cc}
}

func (c *coordinatorClient) RegisterExecutor(ctx context.Context, in *RegisterExecutorRequest, opts ...grpc.CallOption) (*RegisterExecutorResponse, error) {
	var out RegisterExecutorResponse
	if err := c.cc.Invoke(ctx, serviceName+"/RegisterExecutor", in, &out, opts...); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *coordinatorClient) ReportTaskOutcome(ctx context.Context, in *ReportTaskOutcomeRequest, opts ...grpc.CallOption) (*ReportTaskOutcomeResponse, error) {
	var out ReportTaskOutcomeResponse
	if err := c.cc.Invoke(ctx, serviceName+"/ReportTaskOutcome", in, &out, opts...); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *coordinatorClient) Heartbeat(ctx context.Context, opts ...grpc.CallOption) (CoordinatorHeartbeatClient, error) {
	stream, err := c.cc.NewStream(ctx, &coordinatorServiceDesc.Streams[0], serviceName+"/Heartbeat", opts...)
	if err != nil {
		return nil, err
	}
	return &coordinatorHeartbeatClient{stream}, nil
}

type coordinatorHeartbeatClient struct {
	grpc.ClientStream
}

func (c *coordinatorHeartbeatClient) Send(m *HeartbeatRequest) error {
	return c.ClientStream.SendMsg(m)
}

func (c *coordinatorHeartbeatClient) Recv() (*HeartbeatResponse, error) {
	var m HeartbeatResponse
	if err := c.ClientStream.RecvMsg(&m); err != nil {
		return nil, err
	}
	return &m, nil
}
