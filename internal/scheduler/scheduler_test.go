package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/indexify/coordinator/internal/raftnode"
	"github.com/indexify/coordinator/internal/statemachine"
)

func startLeaderNode(t *testing.T) *raftnode.Node {
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
	return node
}

func mustWrite(t *testing.T, node *raftnode.Node, cmd statemachine.Command) {
	t.Helper()
	resp, err := node.ClientWrite(cmd, time.Second)
	require.NoError(t, err)
	require.Nil(t, resp.Err)
}

func TestEventProcessorGeneratesTaskOnMatchingLabel(t *testing.T) {
	var node = startLeaderNode(t)
	mustWrite(t, node, statemachine.Command{Kind: statemachine.CmdCreateRepository, CreateRepository: &statemachine.CreateRepositoryCmd{Name: "r1"}})
	mustWrite(t, node, statemachine.Command{Kind: statemachine.CmdCreateContent, CreateContent: &statemachine.CreateContentCmd{
		ID:      "c1",
		Content: statemachine.ContentMetadata{ID: "c1", Repository: "r1", Labels: map[string]string{"lang": "en"}},
		ExtractionEvent: &statemachine.ExtractionEvent{
			EventID: "content:c1", Kind: statemachine.EventNewContent, Repository: "r1", ContentID: "c1",
		},
	}})
	mustWrite(t, node, statemachine.Command{Kind: statemachine.CmdCreateBinding, CreateBinding: &statemachine.CreateBindingCmd{
		Binding: statemachine.ExtractorBinding{Repository: "r1", Name: "b1", Extractor: "E1", Filters: map[string]string{"lang": "en"}},
	}})

	var p = NewEventProcessor(node)
	processed, err := p.processOne(context.Background())
	require.NoError(t, err)
	require.True(t, processed)

	var tasks []statemachine.Task
	node.Machine.State().Read(func(s *statemachine.State) { tasks = s.Tasks() })
	require.Len(t, tasks, 1)
	require.Equal(t, "c1", tasks[0].ContentID)
	require.Equal(t, "b1", tasks[0].BindingName)
}

func TestEventProcessorSkipsNonMatchingLabel(t *testing.T) {
	var node = startLeaderNode(t)
	mustWrite(t, node, statemachine.Command{Kind: statemachine.CmdCreateRepository, CreateRepository: &statemachine.CreateRepositoryCmd{Name: "r1"}})
	mustWrite(t, node, statemachine.Command{Kind: statemachine.CmdCreateBinding, CreateBinding: &statemachine.CreateBindingCmd{
		Binding: statemachine.ExtractorBinding{Repository: "r1", Name: "b1", Extractor: "E1", Filters: map[string]string{"lang": "en"}},
	}})
	mustWrite(t, node, statemachine.Command{Kind: statemachine.CmdCreateContent, CreateContent: &statemachine.CreateContentCmd{
		ID:      "c1",
		Content: statemachine.ContentMetadata{ID: "c1", Repository: "r1", Labels: map[string]string{"lang": "fr"}},
		ExtractionEvent: &statemachine.ExtractionEvent{
			EventID: "content:c1", Kind: statemachine.EventNewContent, Repository: "r1", ContentID: "c1",
		},
	}})

	var p = NewEventProcessor(node)
	processed, err := p.processOne(context.Background())
	require.NoError(t, err)
	require.True(t, processed)

	var tasks []statemachine.Task
	var event statemachine.ExtractionEvent
	node.Machine.State().Read(func(s *statemachine.State) {
		tasks = s.Tasks()
		event, _ = s.ExtractionEvent("content:c1")
	})
	require.Empty(t, tasks)
	require.True(t, event.Processed)
}

func TestTaskAssignerPicksLeastLoadedExecutor(t *testing.T) {
	var node = startLeaderNode(t)
	mustWrite(t, node, statemachine.Command{Kind: statemachine.CmdCreateRepository, CreateRepository: &statemachine.CreateRepositoryCmd{Name: "r1"}})
	mustWrite(t, node, statemachine.Command{Kind: statemachine.CmdCreateBinding, CreateBinding: &statemachine.CreateBindingCmd{
		Binding: statemachine.ExtractorBinding{Repository: "r1", Name: "b1", Extractor: "E1"},
	}})
	mustWrite(t, node, statemachine.Command{Kind: statemachine.CmdCreateContent, CreateContent: &statemachine.CreateContentCmd{
		ID: "c1", Content: statemachine.ContentMetadata{ID: "c1", Repository: "r1"},
	}})
	mustWrite(t, node, statemachine.Command{Kind: statemachine.CmdRegisterExecutor, RegisterExecutor: &statemachine.RegisterExecutorCmd{
		ExecutorID: "busy", Addr: "host:1", Extractor: "E1", TSSecs: time.Now().Unix(),
	}})
	mustWrite(t, node, statemachine.Command{Kind: statemachine.CmdRegisterExecutor, RegisterExecutor: &statemachine.RegisterExecutorCmd{
		ExecutorID: "idle", Addr: "host:2", Extractor: "E1", TSSecs: time.Now().Unix(),
	}})
	mustWrite(t, node, statemachine.Command{Kind: statemachine.CmdCreateTasks, CreateTasks: &statemachine.CreateTasksCmd{
		Tasks: []statemachine.Task{
			{ID: "t0", BindingRepository: "r1", BindingName: "b1", ContentID: "c1", Extractor: "E1"},
			{ID: "t1", BindingRepository: "r1", BindingName: "b1", ContentID: "c1", Extractor: "E1"},
		},
	}})
	mustWrite(t, node, statemachine.Command{Kind: statemachine.CmdAssignTask, AssignTask: &statemachine.AssignTaskCmd{
		Assignments: map[string]string{"t0": "busy"},
	}})

	mustWrite(t, node, statemachine.Command{Kind: statemachine.CmdCreateTasks, CreateTasks: &statemachine.CreateTasksCmd{
		Tasks: []statemachine.Task{{ID: "t2", BindingRepository: "r1", BindingName: "b1", ContentID: "c1", Extractor: "E1"}},
	}})

	var a = NewTaskAssigner(node, time.Minute)
	var assignments = a.planOnce()
	// t1 goes to idle (load 0 vs 1); that raises idle's in-pass load to 1,
	// so t2 sees a 1-1 tie, broken lexicographically in favour of busy.
	require.Equal(t, "idle", assignments["t1"])
	require.Equal(t, "busy", assignments["t2"])
}

func TestExecutorReaperRequeuesOpenAssignments(t *testing.T) {
	var node = startLeaderNode(t)
	mustWrite(t, node, statemachine.Command{Kind: statemachine.CmdCreateRepository, CreateRepository: &statemachine.CreateRepositoryCmd{Name: "r1"}})
	mustWrite(t, node, statemachine.Command{Kind: statemachine.CmdCreateBinding, CreateBinding: &statemachine.CreateBindingCmd{
		Binding: statemachine.ExtractorBinding{Repository: "r1", Name: "b1", Extractor: "E1"},
	}})
	mustWrite(t, node, statemachine.Command{Kind: statemachine.CmdCreateContent, CreateContent: &statemachine.CreateContentCmd{
		ID: "c1", Content: statemachine.ContentMetadata{ID: "c1", Repository: "r1"},
	}})
	mustWrite(t, node, statemachine.Command{Kind: statemachine.CmdRegisterExecutor, RegisterExecutor: &statemachine.RegisterExecutorCmd{
		ExecutorID: "ex1", Addr: "host:1", Extractor: "E1", TSSecs: time.Now().Unix() - 120,
	}})
	mustWrite(t, node, statemachine.Command{Kind: statemachine.CmdCreateTasks, CreateTasks: &statemachine.CreateTasksCmd{
		Tasks: []statemachine.Task{{ID: "t1", BindingRepository: "r1", BindingName: "b1", ContentID: "c1", Extractor: "E1"}},
	}})
	mustWrite(t, node, statemachine.Command{Kind: statemachine.CmdAssignTask, AssignTask: &statemachine.AssignTaskCmd{
		Assignments: map[string]string{"t1": "ex1"},
	}})

	var r = NewExecutorReaper(node, 60*time.Second)
	r.reapOnce(context.Background())

	var unassigned []string
	var ok bool
	node.Machine.State().Read(func(s *statemachine.State) {
		unassigned = s.UnassignedTasks()
		_, ok = s.Executor("ex1")
	})
	require.False(t, ok)
	require.Equal(t, []string{"t1"}, unassigned)
}
