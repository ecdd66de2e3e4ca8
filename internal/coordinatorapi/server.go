// Package coordinatorapi implements indexify_coordinator.CoordinatorService:
// the outward-facing RPC consumed by executors and the gateway. Every
// mutation is lowered to a statemachine.Command and proposed through the
// raft node; every listing reads a consistent snapshot off the state
// machine's shared-read lock.
package coordinatorapi

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/indexify/coordinator/internal/coordinatorpb"
	"github.com/indexify/coordinator/internal/raftnode"
	"github.com/indexify/coordinator/internal/statemachine"
)

// Server implements coordinatorpb.CoordinatorServer over a single raft
// node. It holds no state of its own beyond the node and a write timeout;
// all authoritative state lives in the replicated state machine.
type Server struct {
	coordinatorpb.UnimplementedCoordinatorServer

	node         *raftnode.Node
	writeTimeout time.Duration
}

// New returns a Server proposing writes against node with the default
// client_write deadline of 5s.
func New(node *raftnode.Node) *Server {
	return &Server{node: node, writeTimeout: 5 * time.Second}
}

func (s *Server) propose(ctx context.Context, cmd statemachine.Command) (*statemachine.Response, error) {
	resp, err := s.node.ClientWrite(cmd, s.writeTimeout)
	if err != nil {
		return nil, translateWriteErr(err)
	}
	if resp.Err != nil {
		writeRejectedCounter.WithLabelValues(cmd.Kind.String()).Inc()
		return nil, status.Error(codes.FailedPrecondition, resp.Err.Error())
	}
	return resp, nil
}

func translateWriteErr(err error) error {
	var fwd *raftnode.ErrForwardToLeader
	if asForwardErr(err, &fwd) {
		return status.Errorf(codes.Unavailable, "not leader; retry against %s (%s)", fwd.LeaderID, fwd.LeaderAddr)
	}
	if err == raftnode.ErrLeaderUnknown {
		return status.Error(codes.Unavailable, "no leader elected")
	}
	return status.Errorf(codes.Internal, "propose: %v", err)
}

func asForwardErr(err error, target **raftnode.ErrForwardToLeader) bool {
	fwd, ok := err.(*raftnode.ErrForwardToLeader)
	if ok {
		*target = fwd
	}
	return ok
}

// RegisterExecutor upserts the executor, idempotently.
func (s *Server) RegisterExecutor(ctx context.Context, req *coordinatorpb.RegisterExecutorRequest) (*coordinatorpb.RegisterExecutorResponse, error) {
	if req.ExecutorID == "" {
		return nil, status.Error(codes.InvalidArgument, "executor_id is required")
	}
	_, err := s.propose(ctx, statemachine.Command{
		Kind: statemachine.CmdRegisterExecutor,
		RegisterExecutor: &statemachine.RegisterExecutorCmd{
			ExecutorID: req.ExecutorID,
			Addr:       req.Addr,
			Extractor:  req.RunnerName,
			TSSecs:     time.Now().Unix(),
		},
	})
	if err != nil {
		return nil, err
	}
	executorsRegisteredCounter.Inc()
	log.WithField("executor_id", req.ExecutorID).Info("executor registered")
	return &coordinatorpb.RegisterExecutorResponse{ExecutorID: req.ExecutorID}, nil
}

// ReportTaskOutcome records a terminal outcome reported by the executor
// that ran the task.
func (s *Server) ReportTaskOutcome(ctx context.Context, req *coordinatorpb.ReportTaskOutcomeRequest) (*coordinatorpb.ReportTaskOutcomeResponse, error) {
	_, err := s.propose(ctx, statemachine.Command{
		Kind: statemachine.CmdUpdateTaskOutcome,
		UpdateTaskOutcome: &statemachine.UpdateTaskOutcomeCmd{
			TaskID:     req.TaskID,
			Outcome:    statemachine.TaskOutcome(req.Outcome),
			ExecutorID: req.ExecutorID,
			TSSecs:     time.Now().Unix(),
		},
	})
	if err != nil {
		return nil, err
	}
	return &coordinatorpb.ReportTaskOutcomeResponse{}, nil
}

// Heartbeat implements the bidi-streaming liveness and task-delivery
// protocol: each inbound frame refreshes liveness and drains up to
// (max_pending - pending) tasks from the executor's open assignment set,
// delivering at-least-once until the executor reports a terminal outcome.
func (s *Server) Heartbeat(stream coordinatorpb.CoordinatorHeartbeatServer) error {
	heartbeatStreamsGauge.Inc()
	defer heartbeatStreamsGauge.Dec()

	for {
		req, err := stream.Recv()
		if err != nil {
			return err // EOF on clean disconnect, a stream error otherwise
		}

		_, err = s.propose(stream.Context(), statemachine.Command{
			Kind: statemachine.CmdExecutorHeartbeat,
			ExecutorHeartbeat: &statemachine.ExecutorHeartbeatCmd{
				ExecutorID: req.ExecutorID,
				TSSecs:     time.Now().Unix(),
			},
		})
		if err != nil {
			return err
		}

		var budget = int64(req.MaxPendingTasks) - req.PendingTasks
		if budget <= 0 {
			continue
		}

		var toSend []*coordinatorpb.Task
		s.node.Machine.State().Read(func(st *statemachine.State) {
			for _, taskID := range st.AssignedTasks(req.ExecutorID) {
				if int64(len(toSend)) >= budget {
					break
				}
				t, ok := st.Task(taskID)
				if !ok || t.Outcome != statemachine.OutcomeUnknown {
					continue
				}
				toSend = append(toSend, toWireTask(t))
			}
		})
		if len(toSend) == 0 {
			continue
		}

		if err := stream.Send(&coordinatorpb.HeartbeatResponse{ExecutorID: req.ExecutorID, Tasks: toSend}); err != nil {
			return err
		}
		for _, t := range toSend {
			tasksDeliveredCounter.WithLabelValues(t.ComputeFnName).Inc()
		}
	}
}

func toWireTask(t statemachine.Task) *coordinatorpb.Task {
	return &coordinatorpb.Task{
		ID:                t.ID,
		Namespace:         t.BindingRepository,
		InputDataObjectID: t.ContentID,
		ComputeGraphName:  t.BindingName,
		ComputeFnName:     t.Extractor,
	}
}

// CreateRepository lowers to CreateRepositoryCmd.
func (s *Server) CreateRepository(ctx context.Context, req *coordinatorpb.CreateRepositoryRequest) (*coordinatorpb.CreateRepositoryResponse, error) {
	if req.Name == "" {
		return nil, status.Error(codes.InvalidArgument, "name is required")
	}
	if _, err := s.propose(ctx, statemachine.Command{
		Kind:             statemachine.CmdCreateRepository,
		CreateRepository: &statemachine.CreateRepositoryCmd{Name: req.Name},
	}); err != nil {
		return nil, err
	}
	return &coordinatorpb.CreateRepositoryResponse{}, nil
}

// ListRepositories reads a consistent snapshot of repository names.
func (s *Server) ListRepositories(ctx context.Context, req *coordinatorpb.ListRepositoriesRequest) (*coordinatorpb.ListRepositoriesResponse, error) {
	var out []*coordinatorpb.Repository
	s.node.Machine.State().Read(func(st *statemachine.State) {
		for _, name := range st.RepositoryNames() {
			out = append(out, &coordinatorpb.Repository{Name: name})
		}
	})
	return &coordinatorpb.ListRepositoriesResponse{Repositories: out}, nil
}

// CreateBinding lowers to CreateBindingCmd, synthesizing the NewBinding
// extraction event the event processor consumes.
func (s *Server) CreateBinding(ctx context.Context, req *coordinatorpb.CreateBindingRequest) (*coordinatorpb.CreateBindingResponse, error) {
	if req.Binding == nil {
		return nil, status.Error(codes.InvalidArgument, "binding is required")
	}
	var b = req.Binding
	if _, err := s.propose(ctx, statemachine.Command{
		Kind: statemachine.CmdCreateBinding,
		CreateBinding: &statemachine.CreateBindingCmd{
			Binding: statemachine.ExtractorBinding{
				Repository: b.Repository,
				Name:       b.Name,
				Extractor:  b.Extractor,
				Filters:    b.Filters,
			},
			ExtractionEvent: &statemachine.ExtractionEvent{
				EventID:     fmt.Sprintf("binding:%s/%s", b.Repository, b.Name),
				Kind:        statemachine.EventNewBinding,
				Repository:  b.Repository,
				BindingRepo: b.Repository,
				BindingName: b.Name,
				TSSecs:      time.Now().Unix(),
			},
		},
	}); err != nil {
		return nil, err
	}
	return &coordinatorpb.CreateBindingResponse{}, nil
}

// ListBindings reads bindings declared against req.Repository.
func (s *Server) ListBindings(ctx context.Context, req *coordinatorpb.ListBindingsRequest) (*coordinatorpb.ListBindingsResponse, error) {
	var out []*coordinatorpb.ExtractorBinding
	s.node.Machine.State().Read(func(st *statemachine.State) {
		for _, b := range st.BindingsByRepo(req.Repository) {
			out = append(out, &coordinatorpb.ExtractorBinding{
				Repository: b.Repository,
				Name:       b.Name,
				Extractor:  b.Extractor,
				Filters:    b.Filters,
			})
		}
	})
	return &coordinatorpb.ListBindingsResponse{Bindings: out}, nil
}

// CreateContent lowers to CreateContentCmd, synthesizing the NewContent
// extraction event.
func (s *Server) CreateContent(ctx context.Context, req *coordinatorpb.CreateContentRequest) (*coordinatorpb.CreateContentResponse, error) {
	if req.Content == nil {
		return nil, status.Error(codes.InvalidArgument, "content is required")
	}
	var c = req.Content
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if _, err := s.propose(ctx, statemachine.Command{
		Kind: statemachine.CmdCreateContent,
		CreateContent: &statemachine.CreateContentCmd{
			ID: c.ID,
			Content: statemachine.ContentMetadata{
				ID:         c.ID,
				Repository: c.Repository,
				ParentID:   c.ParentID,
				Source:     c.Source,
				Labels:     c.Labels,
				CreatedAt:  time.Now().Unix(),
			},
			ExtractionEvent: &statemachine.ExtractionEvent{
				EventID:    fmt.Sprintf("content:%s", c.ID),
				Kind:       statemachine.EventNewContent,
				Repository: c.Repository,
				ContentID:  c.ID,
				TSSecs:     time.Now().Unix(),
			},
		},
	}); err != nil {
		return nil, err
	}
	return &coordinatorpb.CreateContentResponse{ID: c.ID}, nil
}

// ListContent reads content ids for req.Repository in insertion order.
func (s *Server) ListContent(ctx context.Context, req *coordinatorpb.ListContentRequest) (*coordinatorpb.ListContentResponse, error) {
	var out []*coordinatorpb.ContentMetadata
	s.node.Machine.State().Read(func(st *statemachine.State) {
		for _, id := range st.ContentByRepo(req.Repository) {
			c, ok := st.Content(id)
			if !ok {
				continue
			}
			out = append(out, &coordinatorpb.ContentMetadata{
				ID: c.ID, Repository: c.Repository, ParentID: c.ParentID,
				Source: c.Source, Labels: c.Labels, CreatedAt: c.CreatedAt,
			})
		}
	})
	return &coordinatorpb.ListContentResponse{Content: out}, nil
}

// CreateIndex lowers to CreateIndexCmd.
func (s *Server) CreateIndex(ctx context.Context, req *coordinatorpb.CreateIndexRequest) (*coordinatorpb.CreateIndexResponse, error) {
	if req.Index == nil {
		return nil, status.Error(codes.InvalidArgument, "index is required")
	}
	var idx = req.Index
	if idx.ID == "" {
		idx.ID = uuid.NewString()
	}
	if _, err := s.propose(ctx, statemachine.Command{
		Kind: statemachine.CmdCreateIndex,
		CreateIndex: &statemachine.CreateIndexCmd{
			ID:         idx.ID,
			Repository: idx.Repository,
			Index: statemachine.Index{
				ID: idx.ID, Repository: idx.Repository,
				ExtractorRef: idx.Extractor, Name: idx.Name, Schema: idx.Schema,
			},
		},
	}); err != nil {
		return nil, err
	}
	return &coordinatorpb.CreateIndexResponse{ID: idx.ID}, nil
}

// ListIndexes reads indexes declared against req.Repository.
func (s *Server) ListIndexes(ctx context.Context, req *coordinatorpb.ListIndexesRequest) (*coordinatorpb.ListIndexesResponse, error) {
	var out []*coordinatorpb.Index
	s.node.Machine.State().Read(func(st *statemachine.State) {
		for _, idx := range st.RepositoryIndexes(req.Repository) {
			out = append(out, &coordinatorpb.Index{
				ID: idx.ID, Repository: idx.Repository,
				Extractor: idx.ExtractorRef, Name: idx.Name, Schema: idx.Schema,
			})
		}
	})
	return &coordinatorpb.ListIndexesResponse{Indexes: out}, nil
}

// ListExecutors reads every registered executor, for operator tooling.
func (s *Server) ListExecutors(ctx context.Context, req *coordinatorpb.ListExecutorsRequest) (*coordinatorpb.ListExecutorsResponse, error) {
	var out []*coordinatorpb.Executor
	s.node.Machine.State().Read(func(st *statemachine.State) {
		for _, e := range st.Executors() {
			out = append(out, &coordinatorpb.Executor{
				ExecutorID: e.ExecutorID, Addr: e.Addr, Extractor: e.Extractor, LastSeenSecs: e.LastSeenSecs,
			})
		}
	})
	return &coordinatorpb.ListExecutorsResponse{Executors: out}, nil
}

// ListTasks reads every task, filtered by repository when set.
func (s *Server) ListTasks(ctx context.Context, req *coordinatorpb.ListTasksRequest) (*coordinatorpb.ListTasksResponse, error) {
	var out []*coordinatorpb.Task
	s.node.Machine.State().Read(func(st *statemachine.State) {
		for _, t := range st.Tasks() {
			if req.Repository != "" && t.BindingRepository != req.Repository {
				continue
			}
			out = append(out, toWireTask(t))
		}
	})
	return &coordinatorpb.ListTasksResponse{Tasks: out}, nil
}
