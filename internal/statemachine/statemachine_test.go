package statemachine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateRepositoryThenList(t *testing.T) {
	var m = NewMachine()
	require.Nil(t, m.Apply(1, Command{Kind: CmdCreateRepository, CreateRepository: &CreateRepositoryCmd{Name: "r1"}}).Err)

	var names []string
	m.State().Read(func(s *State) { names = s.RepositoryNames() })
	require.Equal(t, []string{"r1"}, names)
}

func TestRegisterExecutorIsIdempotent(t *testing.T) {
	var m = NewMachine()
	require.Nil(t, m.Apply(1, Command{
		Kind: CmdRegisterExecutor,
		RegisterExecutor: &RegisterExecutorCmd{
			ExecutorID: "ex1", Addr: "host:1", Extractor: "E1", TSSecs: 100,
		},
	}).Err)
	require.Nil(t, m.Apply(2, Command{
		Kind: CmdRegisterExecutor,
		RegisterExecutor: &RegisterExecutorCmd{
			ExecutorID: "ex1", Addr: "host:2", Extractor: "E1", TSSecs: 200,
		},
	}).Err)

	var ids []string
	var addr string
	m.State().Read(func(s *State) {
		ids = s.ExecutorsByExtractor("E1")
		addr = s.executors["ex1"].Addr
	})
	require.Equal(t, []string{"ex1"}, ids)
	require.Equal(t, "host:2", addr)
}

func TestCreateContentRejectsDuplicateID(t *testing.T) {
	var m = NewMachine()
	var cmd = Command{Kind: CmdCreateContent, CreateContent: &CreateContentCmd{
		ID:      "c1",
		Content: ContentMetadata{ID: "c1", Repository: "r1"},
	}}
	require.Nil(t, m.Apply(1, cmd).Err)

	var resp = m.Apply(2, cmd)
	require.NotNil(t, resp.Err)
	require.Equal(t, ErrDuplicateID, resp.Err.Code)
}

func TestAssignTaskRejectsAlreadyAssigned(t *testing.T) {
	var m = NewMachine()
	seedBindingAndContent(t, m)

	require.Nil(t, m.Apply(10, Command{Kind: CmdCreateTasks, CreateTasks: &CreateTasksCmd{
		Tasks: []Task{{ID: "t1", BindingRepository: "r1", BindingName: "b1", ContentID: "c1", Extractor: "E1"}},
	}}).Err)
	require.Nil(t, m.Apply(11, Command{
		Kind: CmdRegisterExecutor,
		RegisterExecutor: &RegisterExecutorCmd{ExecutorID: "ex1", Addr: "host:1", Extractor: "E1", TSSecs: 1},
	}).Err)
	require.Nil(t, m.Apply(12, Command{Kind: CmdAssignTask, AssignTask: &AssignTaskCmd{
		Assignments: map[string]string{"t1": "ex1"},
	}}).Err)

	var resp = m.Apply(13, Command{Kind: CmdAssignTask, AssignTask: &AssignTaskCmd{
		Assignments: map[string]string{"t1": "ex1"},
	}})
	require.NotNil(t, resp.Err)
	require.Equal(t, ErrNotUnassigned, resp.Err.Code)
}

func TestUpdateTaskOutcomeDoesNotRequeue(t *testing.T) {
	var m = NewMachine()
	seedBindingAndContent(t, m)
	require.Nil(t, m.Apply(10, Command{Kind: CmdCreateTasks, CreateTasks: &CreateTasksCmd{
		Tasks: []Task{{ID: "t1", BindingRepository: "r1", BindingName: "b1", ContentID: "c1", Extractor: "E1"}},
	}}).Err)
	require.Nil(t, m.Apply(11, Command{
		Kind: CmdRegisterExecutor,
		RegisterExecutor: &RegisterExecutorCmd{ExecutorID: "ex1", Addr: "host:1", Extractor: "E1", TSSecs: 1},
	}).Err)
	require.Nil(t, m.Apply(12, Command{Kind: CmdAssignTask, AssignTask: &AssignTaskCmd{
		Assignments: map[string]string{"t1": "ex1"},
	}}).Err)
	require.Nil(t, m.Apply(13, Command{Kind: CmdUpdateTaskOutcome, UpdateTaskOutcome: &UpdateTaskOutcomeCmd{
		TaskID: "t1", Outcome: OutcomeFailed, ExecutorID: "ex1", TSSecs: 2,
	}}).Err)

	var unassigned []string
	var assigned int
	var attempts int
	m.State().Read(func(s *State) {
		unassigned = s.UnassignedTasks()
		assigned = s.AssignmentCount("ex1")
		attempts = s.tasks["t1"].Attempts
	})
	require.Empty(t, unassigned)
	require.Equal(t, 0, assigned)
	require.Equal(t, 1, attempts)
}

func TestReaperRequeuesOpenAssignments(t *testing.T) {
	var m = NewMachine()
	seedBindingAndContent(t, m)
	require.Nil(t, m.Apply(10, Command{Kind: CmdCreateTasks, CreateTasks: &CreateTasksCmd{
		Tasks: []Task{{ID: "t1", BindingRepository: "r1", BindingName: "b1", ContentID: "c1", Extractor: "E1"}},
	}}).Err)
	require.Nil(t, m.Apply(11, Command{
		Kind: CmdRegisterExecutor,
		RegisterExecutor: &RegisterExecutorCmd{ExecutorID: "ex1", Addr: "host:1", Extractor: "E1", TSSecs: 1},
	}).Err)
	require.Nil(t, m.Apply(12, Command{Kind: CmdAssignTask, AssignTask: &AssignTaskCmd{
		Assignments: map[string]string{"t1": "ex1"},
	}}).Err)

	require.Nil(t, m.Apply(13, Command{Kind: CmdReapExecutor, ReapExecutor: &ReapExecutorCmd{ExecutorID: "ex1"}}).Err)

	var unassigned []string
	var ok bool
	m.State().Read(func(s *State) {
		unassigned = s.UnassignedTasks()
		_, ok = s.Executor("ex1")
	})
	require.False(t, ok)
	require.Equal(t, []string{"t1"}, unassigned)
}

func TestReaperRequeuesMultipleOpenAssignmentsInCreationOrder(t *testing.T) {
	var m = NewMachine()
	seedBindingAndThreeContents(t, m)

	require.Nil(t, m.Apply(10, Command{Kind: CmdCreateTasks, CreateTasks: &CreateTasksCmd{
		Tasks: []Task{
			{ID: "t1", BindingRepository: "r1", BindingName: "b1", ContentID: "c1", Extractor: "E1"},
			{ID: "t2", BindingRepository: "r1", BindingName: "b1", ContentID: "c2", Extractor: "E1"},
			{ID: "t3", BindingRepository: "r1", BindingName: "b1", ContentID: "c3", Extractor: "E1"},
		},
	}}).Err)
	require.Nil(t, m.Apply(11, Command{
		Kind: CmdRegisterExecutor,
		RegisterExecutor: &RegisterExecutorCmd{ExecutorID: "ex1", Addr: "host:1", Extractor: "E1", TSSecs: 1},
	}).Err)
	// t1 and t2 go to ex1, t3 stays unassigned.
	require.Nil(t, m.Apply(12, Command{Kind: CmdAssignTask, AssignTask: &AssignTaskCmd{
		Assignments: map[string]string{"t1": "ex1", "t2": "ex1"},
	}}).Err)

	require.Nil(t, m.Apply(13, Command{Kind: CmdReapExecutor, ReapExecutor: &ReapExecutorCmd{ExecutorID: "ex1"}}).Err)

	var unassigned []string
	m.State().Read(func(s *State) { unassigned = s.UnassignedTasks() })
	// t3 was already unassigned and keeps its original position ahead of
	// the reaped tasks; t1 and t2 requeue in the order they were
	// originally created, not map-iteration order.
	require.Equal(t, []string{"t3", "t1", "t2"}, unassigned)
}

func TestSnapshotRoundTripAfterReapMatchesIncrementalOrder(t *testing.T) {
	var m = NewMachine()
	seedBindingAndThreeContents(t, m)

	require.Nil(t, m.Apply(10, Command{Kind: CmdCreateTasks, CreateTasks: &CreateTasksCmd{
		Tasks: []Task{
			{ID: "t1", BindingRepository: "r1", BindingName: "b1", ContentID: "c1", Extractor: "E1"},
			{ID: "t2", BindingRepository: "r1", BindingName: "b1", ContentID: "c2", Extractor: "E1"},
			{ID: "t3", BindingRepository: "r1", BindingName: "b1", ContentID: "c3", Extractor: "E1"},
		},
	}}).Err)
	require.Nil(t, m.Apply(11, Command{
		Kind: CmdRegisterExecutor,
		RegisterExecutor: &RegisterExecutorCmd{ExecutorID: "ex1", Addr: "host:1", Extractor: "E1", TSSecs: 1},
	}).Err)
	require.Nil(t, m.Apply(12, Command{Kind: CmdAssignTask, AssignTask: &AssignTaskCmd{
		Assignments: map[string]string{"t1": "ex1", "t2": "ex1"},
	}}).Err)
	require.Nil(t, m.Apply(13, Command{Kind: CmdReapExecutor, ReapExecutor: &ReapExecutorCmd{ExecutorID: "ex1"}}).Err)

	var snap = m.Snapshot()
	encoded, err := Encode(snap)
	require.NoError(t, err)
	decoded, err := Decode(encoded)
	require.NoError(t, err)

	var m2 = NewMachine()
	m2.Install(decoded)

	var unassigned1, unassigned2 []string
	m.State().Read(func(s *State) { unassigned1 = s.UnassignedTasks() })
	m2.State().Read(func(s *State) { unassigned2 = s.UnassignedTasks() })
	require.Equal(t, unassigned1, unassigned2)
}

func TestSnapshotRoundTripRebuildsDerivedTables(t *testing.T) {
	var m = NewMachine()
	seedBindingAndContent(t, m)
	require.Nil(t, m.Apply(10, Command{Kind: CmdCreateTasks, CreateTasks: &CreateTasksCmd{
		Tasks: []Task{{ID: "t1", BindingRepository: "r1", BindingName: "b1", ContentID: "c1", Extractor: "E1"}},
	}}).Err)

	var snap = m.Snapshot()
	encoded, err := Encode(snap)
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)

	var m2 = NewMachine()
	m2.Install(decoded)

	var unassigned1, unassigned2 []string
	m.State().Read(func(s *State) { unassigned1 = s.UnassignedTasks() })
	m2.State().Read(func(s *State) { unassigned2 = s.UnassignedTasks() })
	require.Equal(t, unassigned1, unassigned2)
}

func TestDecodeRejectsUnknownVersion(t *testing.T) {
	var m = NewMachine()
	var encoded, err = Encode(m.Snapshot())
	require.NoError(t, err)
	encoded[8] = 2 // corrupt version byte (little-endian low byte)

	_, err = Decode(encoded)
	require.Error(t, err)
}

func seedBindingAndContent(t *testing.T, m *Machine) {
	t.Helper()
	require.Nil(t, m.Apply(1, Command{Kind: CmdCreateRepository, CreateRepository: &CreateRepositoryCmd{Name: "r1"}}).Err)
	require.Nil(t, m.Apply(2, Command{Kind: CmdCreateBinding, CreateBinding: &CreateBindingCmd{
		Binding: ExtractorBinding{Repository: "r1", Name: "b1", Extractor: "E1"},
	}}).Err)
	require.Nil(t, m.Apply(3, Command{Kind: CmdCreateContent, CreateContent: &CreateContentCmd{
		ID:      "c1",
		Content: ContentMetadata{ID: "c1", Repository: "r1"},
	}}).Err)
}

func seedBindingAndThreeContents(t *testing.T, m *Machine) {
	t.Helper()
	require.Nil(t, m.Apply(1, Command{Kind: CmdCreateRepository, CreateRepository: &CreateRepositoryCmd{Name: "r1"}}).Err)
	require.Nil(t, m.Apply(2, Command{Kind: CmdCreateBinding, CreateBinding: &CreateBindingCmd{
		Binding: ExtractorBinding{Repository: "r1", Name: "b1", Extractor: "E1"},
	}}).Err)
	for i, id := range []string{"c1", "c2", "c3"} {
		require.Nil(t, m.Apply(int64(3+i), Command{Kind: CmdCreateContent, CreateContent: &CreateContentCmd{
			ID:      id,
			Content: ContentMetadata{ID: id, Repository: "r1"},
		}}).Err)
	}
}
