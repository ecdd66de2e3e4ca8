// Package coordinatorpb holds the wire messages of the
// indexify_coordinator.CoordinatorService contract: executor
// registration and the heartbeat/task-delivery stream. These are
// hand-maintained gogo/protobuf-style messages — there is no .proto source
// or protoc step in this tree, so the struct tags below are what gRPC's
// default protobuf codec reads through the protobuf runtime's reflection
// over legacy (v1) messages. github.com/gogo/protobuf itself is not
// imported.
package coordinatorpb

import "fmt"

// RegisterExecutorRequest is sent once by an executor on startup.
type RegisterExecutorRequest struct {
	ExecutorID string            `protobuf:"bytes,1,opt,name=executor_id,json=executorId,proto3" json:"executor_id,omitempty"`
	Addr       string            `protobuf:"bytes,2,opt,name=addr,proto3" json:"addr,omitempty"`
	RunnerName string            `protobuf:"bytes,3,opt,name=runner_name,json=runnerName,proto3" json:"runner_name,omitempty"`
	Labels     map[string]string `protobuf:"bytes,4,rep,name=labels,proto3" json:"labels,omitempty" protobuf_key:"bytes,1,opt,name=key,proto3" protobuf_val:"bytes,2,opt,name=value,proto3"`
}

func (m *RegisterExecutorRequest) Reset()         { *m = RegisterExecutorRequest{} }
func (m *RegisterExecutorRequest) String() string { return fmt.Sprintf("%+v", *m) }
func (*RegisterExecutorRequest) ProtoMessage()    {}

// RegisterExecutorResponse acknowledges registration.
type RegisterExecutorResponse struct {
	ExecutorID string `protobuf:"bytes,1,opt,name=executor_id,json=executorId,proto3" json:"executor_id,omitempty"`
}

func (m *RegisterExecutorResponse) Reset()         { *m = RegisterExecutorResponse{} }
func (m *RegisterExecutorResponse) String() string { return fmt.Sprintf("%+v", *m) }
func (*RegisterExecutorResponse) ProtoMessage()    {}

// HeartbeatRequest is one inbound frame of the Heartbeat stream.
type HeartbeatRequest struct {
	ExecutorID      string `protobuf:"bytes,1,opt,name=executor_id,json=executorId,proto3" json:"executor_id,omitempty"`
	PendingTasks    int64  `protobuf:"varint,2,opt,name=pending_tasks,json=pendingTasks,proto3" json:"pending_tasks,omitempty"`
	MaxPendingTasks uint64 `protobuf:"varint,3,opt,name=max_pending_tasks,json=maxPendingTasks,proto3" json:"max_pending_tasks,omitempty"`
}

func (m *HeartbeatRequest) Reset()         { *m = HeartbeatRequest{} }
func (m *HeartbeatRequest) String() string { return fmt.Sprintf("%+v", *m) }
func (*HeartbeatRequest) ProtoMessage()    {}

// HeartbeatResponse is one outbound batch of the executor's open assigned
// tasks; a task is sent again on later frames until its outcome is reported.
type HeartbeatResponse struct {
	ExecutorID string  `protobuf:"bytes,1,opt,name=executor_id,json=executorId,proto3" json:"executor_id,omitempty"`
	Tasks      []*Task `protobuf:"bytes,2,rep,name=tasks,proto3" json:"tasks,omitempty"`
}

func (m *HeartbeatResponse) Reset()         { *m = HeartbeatResponse{} }
func (m *HeartbeatResponse) String() string { return fmt.Sprintf("%+v", *m) }
func (*HeartbeatResponse) ProtoMessage()    {}

// Task is the over-the-wire shape of a task delivered to an executor.
// Field names preserve the indexify_coordinator wire vocabulary
// (namespace == repository, compute_graph_name == binding name,
// compute_fn_name == extractor).
type Task struct {
	ID                string `protobuf:"bytes,1,opt,name=id,proto3" json:"id,omitempty"`
	Namespace         string `protobuf:"bytes,2,opt,name=namespace,proto3" json:"namespace,omitempty"`
	InputDataObjectID string `protobuf:"bytes,3,opt,name=input_data_object_id,json=inputDataObjectId,proto3" json:"input_data_object_id,omitempty"`
	ComputeGraphName  string `protobuf:"bytes,4,opt,name=compute_graph_name,json=computeGraphName,proto3" json:"compute_graph_name,omitempty"`
	ComputeFnName     string `protobuf:"bytes,5,opt,name=compute_fn_name,json=computeFnName,proto3" json:"compute_fn_name,omitempty"`
}

func (m *Task) Reset()         { *m = Task{} }
func (m *Task) String() string { return fmt.Sprintf("%+v", *m) }
func (*Task) ProtoMessage()    {}

// TaskOutcome mirrors statemachine.TaskOutcome on the wire.
type TaskOutcome int32

const (
	TaskOutcome_UNKNOWN TaskOutcome = 0
	TaskOutcome_SUCCESS TaskOutcome = 1
	TaskOutcome_FAILED  TaskOutcome = 2
)

var TaskOutcome_name = map[int32]string{
	0: "UNKNOWN",
	1: "SUCCESS",
	2: "FAILED",
}

func (x TaskOutcome) String() string {
	if name, ok := TaskOutcome_name[int32(x)]; ok {
		return name
	}
	return fmt.Sprintf("TaskOutcome(%d)", int32(x))
}

// ReportTaskOutcomeRequest lets an executor report a terminal outcome for
// a task it was assigned, closing out its at-least-once delivery window.
type ReportTaskOutcomeRequest struct {
	ExecutorID string      `protobuf:"bytes,1,opt,name=executor_id,json=executorId,proto3" json:"executor_id,omitempty"`
	TaskID     string      `protobuf:"bytes,2,opt,name=task_id,json=taskId,proto3" json:"task_id,omitempty"`
	Outcome    TaskOutcome `protobuf:"varint,3,opt,name=outcome,proto3,enum=indexify_coordinator.TaskOutcome" json:"outcome,omitempty"`
}

func (m *ReportTaskOutcomeRequest) Reset()         { *m = ReportTaskOutcomeRequest{} }
func (m *ReportTaskOutcomeRequest) String() string { return fmt.Sprintf("%+v", *m) }
func (*ReportTaskOutcomeRequest) ProtoMessage()    {}

// ReportTaskOutcomeResponse is empty; success is the absence of an error.
type ReportTaskOutcomeResponse struct{}

func (m *ReportTaskOutcomeResponse) Reset()         { *m = ReportTaskOutcomeResponse{} }
func (m *ReportTaskOutcomeResponse) String() string { return fmt.Sprintf("%+v", *m) }
func (*ReportTaskOutcomeResponse) ProtoMessage()    {}
