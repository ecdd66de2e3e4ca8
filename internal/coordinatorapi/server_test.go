package coordinatorapi

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/indexify/coordinator/internal/coordinatorpb"
	"github.com/indexify/coordinator/internal/raftnode"
)

func startLeaderServer(t *testing.T) *Server {
	t.Helper()
	node, err := raftnode.Start(raftnode.Config{
		NodeID:    "node1",
		RaftAddr:  "127.0.0.1:0",
		DataDir:   t.TempDir(),
		Bootstrap: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, node.Shutdown()) })
	require.Eventually(t, node.IsLeader, 5*time.Second, 10*time.Millisecond)
	return New(node)
}

func TestCreateRepositoryThenList(t *testing.T) {
	var s = startLeaderServer(t)
	_, err := s.CreateRepository(context.Background(), &coordinatorpb.CreateRepositoryRequest{Name: "r1"})
	require.NoError(t, err)

	resp, err := s.ListRepositories(context.Background(), &coordinatorpb.ListRepositoriesRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Repositories, 1)
	require.Equal(t, "r1", resp.Repositories[0].Name)
}

func TestRegisterExecutorIsIdempotent(t *testing.T) {
	var s = startLeaderServer(t)
	_, err := s.RegisterExecutor(context.Background(), &coordinatorpb.RegisterExecutorRequest{
		ExecutorID: "ex1", Addr: "host:1", RunnerName: "E1",
	})
	require.NoError(t, err)
	_, err = s.RegisterExecutor(context.Background(), &coordinatorpb.RegisterExecutorRequest{
		ExecutorID: "ex1", Addr: "host:2", RunnerName: "E1",
	})
	require.NoError(t, err)

	resp, err := s.ListExecutors(context.Background(), &coordinatorpb.ListExecutorsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Executors, 1)
	require.Equal(t, "host:2", resp.Executors[0].Addr)
}

func TestCreateContentGeneratesIDWhenOmitted(t *testing.T) {
	var s = startLeaderServer(t)
	resp, err := s.CreateContent(context.Background(), &coordinatorpb.CreateContentRequest{
		Content: &coordinatorpb.ContentMetadata{Repository: "r1"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)

	listResp, err := s.ListContent(context.Background(), &coordinatorpb.ListContentRequest{Repository: "r1"})
	require.NoError(t, err)
	require.Len(t, listResp.Content, 1)
	require.Equal(t, resp.ID, listResp.Content[0].ID)
}

func TestCreateContentRejectsNilContent(t *testing.T) {
	var s = startLeaderServer(t)
	_, err := s.CreateContent(context.Background(), &coordinatorpb.CreateContentRequest{})
	require.Error(t, err)
}

func TestCreateBindingThenList(t *testing.T) {
	var s = startLeaderServer(t)
	_, err := s.CreateRepository(context.Background(), &coordinatorpb.CreateRepositoryRequest{Name: "r1"})
	require.NoError(t, err)
	_, err = s.CreateBinding(context.Background(), &coordinatorpb.CreateBindingRequest{
		Binding: &coordinatorpb.ExtractorBinding{Repository: "r1", Name: "b1", Extractor: "E1"},
	})
	require.NoError(t, err)

	resp, err := s.ListBindings(context.Background(), &coordinatorpb.ListBindingsRequest{Repository: "r1"})
	require.NoError(t, err)
	require.Len(t, resp.Bindings, 1)
	require.Equal(t, "b1", resp.Bindings[0].Name)
}
