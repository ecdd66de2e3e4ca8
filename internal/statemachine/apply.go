package statemachine

import (
	"fmt"
	"sort"
	"sync"
)

// Machine is the single-writer entry point onto a State: it serializes
// Apply calls (the Raft FSM in internal/raftnode calls Apply once per
// committed log entry, strictly in log order) and fans out a coalesced
// change notification after every apply, successful or rejected.
//
// Rejected commands still advance the log index and still wake watchers
// (a rejection can be something a watcher cares about, e.g. a scheduler
// loop retrying a race), but they never mutate State.
type Machine struct {
	state *State

	notifyMu sync.Mutex
	notifyCh chan struct{}
}

// NewMachine returns a Machine around a fresh, empty State.
func NewMachine() *Machine {
	return &Machine{
		state:    New(),
		notifyCh: make(chan struct{}, 1),
	}
}

// State returns the underlying State for use with Read. Apply is the only
// permitted mutator; everything else must go through Read.
func (m *Machine) State() *State { return m.state }

// Notify returns a channel that receives a value after every Apply. It is
// a single-slot, last-write-wins channel: multiple applies between two
// receives coalesce into one wakeup, so watchers must always reload a
// fresh Read() snapshot rather than trust the number of wakeups
// received.
func (m *Machine) Notify() <-chan struct{} { return m.notifyCh }

func (m *Machine) wake() {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()
	select {
	case m.notifyCh <- struct{}{}:
	default:
	}
}

// Apply executes cmd against the state machine at the given log index.
// It is deterministic and synchronous: two Machines fed the same
// sequence of (index, cmd) pairs end up byte-identical. Apply never
// suspends.
func (m *Machine) Apply(index int64, cmd Command) Response {
	m.state.mu.Lock()
	var applyErr = m.dispatch(cmd)
	m.state.mu.Unlock()

	m.wake()
	return Response{Index: index, Err: applyErr}
}

// dispatch must be called with the write lock held. It is the single
// exhaustive switch over CommandKind; every case either mutates s in
// place or returns a non-nil *ApplyError and leaves s untouched.
func (m *Machine) dispatch(cmd Command) *ApplyError {
	var s = m.state
	switch cmd.Kind {
	case CmdRegisterExecutor:
		return s.applyRegisterExecutor(cmd.RegisterExecutor)
	case CmdExecutorHeartbeat:
		return s.applyExecutorHeartbeat(cmd.ExecutorHeartbeat)
	case CmdCreateRepository:
		return s.applyCreateRepository(cmd.CreateRepository)
	case CmdCreateContent:
		return s.applyCreateContent(cmd.CreateContent)
	case CmdCreateBinding:
		return s.applyCreateBinding(cmd.CreateBinding)
	case CmdMarkExtractionEventProcessed:
		return s.applyMarkExtractionEventProcessed(cmd.MarkExtractionEventProcessed)
	case CmdCreateTasks:
		return s.applyCreateTasks(cmd.CreateTasks)
	case CmdAssignTask:
		return s.applyAssignTask(cmd.AssignTask)
	case CmdUpdateTaskOutcome:
		return s.applyUpdateTaskOutcome(cmd.UpdateTaskOutcome)
	case CmdCreateIndex:
		return s.applyCreateIndex(cmd.CreateIndex)
	case CmdReapExecutor:
		return s.applyReapExecutor(cmd.ReapExecutor)
	default:
		return newApplyError(ErrUnknownCommand, fmt.Sprintf("unknown command kind %d", cmd.Kind))
	}
}

func (s *State) applyRegisterExecutor(c *RegisterExecutorCmd) *ApplyError {
	if _, isNewExtractor := s.extractors[c.Extractor]; !isNewExtractor {
		s.extractors[c.Extractor] = ExtractorDescription{Name: c.Extractor}
	}

	var prior, existed = s.executors[c.ExecutorID]
	var seq = prior.Seq
	if !existed {
		seq = s.takeSeq()
	}
	s.executors[c.ExecutorID] = ExecutorMetadata{
		ExecutorID:   c.ExecutorID,
		Addr:         c.Addr,
		Extractor:    c.Extractor,
		LastSeenSecs: c.TSSecs,
		Seq:          seq,
	}

	if !existed {
		s.executorsByExtractor[c.Extractor] = append(s.executorsByExtractor[c.Extractor], c.ExecutorID)
	} else if prior.Extractor != c.Extractor {
		// Re-registration changing the advertised extractor moves the
		// executor's derived membership accordingly.
		s.removeExecutorFromExtractor(prior.Extractor, c.ExecutorID)
		s.executorsByExtractor[c.Extractor] = append(s.executorsByExtractor[c.Extractor], c.ExecutorID)
	}
	return nil
}

func (s *State) removeExecutorFromExtractor(extractor, executorID string) {
	var ids = s.executorsByExtractor[extractor]
	for i, id := range ids {
		if id == executorID {
			s.executorsByExtractor[extractor] = append(ids[:i], ids[i+1:]...)
			return
		}
	}
}

func (s *State) applyExecutorHeartbeat(c *ExecutorHeartbeatCmd) *ApplyError {
	var e, ok = s.executors[c.ExecutorID]
	if !ok {
		return newApplyError(ErrMissingReference, fmt.Sprintf("executor %q not registered", c.ExecutorID))
	}
	e.LastSeenSecs = c.TSSecs
	s.executors[c.ExecutorID] = e
	return nil
}

func (s *State) applyCreateRepository(c *CreateRepositoryCmd) *ApplyError {
	if _, ok := s.repositories[c.Name]; ok {
		return nil // idempotent insert-if-absent
	}
	s.repositories[c.Name] = Repository{Name: c.Name}
	return nil
}

func (s *State) applyCreateContent(c *CreateContentCmd) *ApplyError {
	if _, ok := s.content[c.ID]; ok {
		return newApplyError(ErrDuplicateID, fmt.Sprintf("content %q already exists", c.ID))
	}
	c.Content.Seq = s.takeSeq()
	s.content[c.ID] = c.Content
	s.contentByRepo[c.Content.Repository] = append(s.contentByRepo[c.Content.Repository], c.ID)

	if c.ExtractionEvent != nil {
		s.insertExtractionEvent(*c.ExtractionEvent)
	}
	return nil
}

func (s *State) applyCreateBinding(c *CreateBindingCmd) *ApplyError {
	var id = c.Binding.ID()
	if _, ok := s.bindings[id]; ok {
		return newApplyError(ErrDuplicateID, fmt.Sprintf("binding %q already exists", id))
	}
	s.bindings[id] = c.Binding
	if s.bindingsByRepo[c.Binding.Repository] == nil {
		s.bindingsByRepo[c.Binding.Repository] = make(map[string]struct{})
	}
	s.bindingsByRepo[c.Binding.Repository][id] = struct{}{}

	if c.ExtractionEvent != nil {
		s.insertExtractionEvent(*c.ExtractionEvent)
	}
	return nil
}

func (s *State) insertExtractionEvent(e ExtractionEvent) {
	e.Seq = s.takeSeq()
	s.events[e.EventID] = e
	s.unprocessedExtractionEvents = append(s.unprocessedExtractionEvents, e.EventID)
}

func (s *State) applyMarkExtractionEventProcessed(c *MarkExtractionEventProcessedCmd) *ApplyError {
	var e, ok = s.events[c.EventID]
	if !ok {
		return newApplyError(ErrMissingReference, fmt.Sprintf("extraction event %q does not exist", c.EventID))
	}
	if e.Processed {
		return nil // already processed; never re-inserted into the unprocessed set
	}
	e.Processed = true
	e.ProcessedAt = c.TSSecs
	s.events[c.EventID] = e

	for i, id := range s.unprocessedExtractionEvents {
		if id == c.EventID {
			s.unprocessedExtractionEvents = append(
				s.unprocessedExtractionEvents[:i],
				s.unprocessedExtractionEvents[i+1:]...,
			)
			break
		}
	}
	return nil
}

func (s *State) applyCreateTasks(c *CreateTasksCmd) *ApplyError {
	// Validate the whole batch before mutating anything, so a rejection
	// leaves s untouched (apply is all-or-nothing per command).
	for _, t := range c.Tasks {
		if _, ok := s.tasks[t.ID]; ok {
			return newApplyError(ErrDuplicateID, fmt.Sprintf("task %q already exists", t.ID))
		}
		if _, ok := s.bindings[t.BindingRepository+"/"+t.BindingName]; !ok {
			return newApplyError(ErrMissingReference, fmt.Sprintf("binding %q/%q does not exist", t.BindingRepository, t.BindingName))
		}
		var content, ok = s.content[t.ContentID]
		if !ok {
			return newApplyError(ErrMissingReference, fmt.Sprintf("content %q does not exist", t.ContentID))
		}
		if content.Repository != t.BindingRepository {
			return newApplyError(ErrMissingReference, fmt.Sprintf("content %q does not belong to repository %q", t.ContentID, t.BindingRepository))
		}
	}
	for _, t := range c.Tasks {
		t.Seq = s.takeSeq()
		s.tasks[t.ID] = t
		s.unassignedTasks = append(s.unassignedTasks, t.ID)
	}
	return nil
}

func (s *State) applyAssignTask(c *AssignTaskCmd) *ApplyError {
	for taskID, executorID := range c.Assignments {
		if !s.isUnassigned(taskID) {
			return newApplyError(ErrNotUnassigned, fmt.Sprintf("task %q is not unassigned", taskID))
		}
		if _, ok := s.executors[executorID]; !ok {
			return newApplyError(ErrMissingReference, fmt.Sprintf("executor %q does not exist", executorID))
		}
	}
	for taskID, executorID := range c.Assignments {
		s.removeUnassigned(taskID)
		if s.taskAssignments[executorID] == nil {
			s.taskAssignments[executorID] = make(map[string]struct{})
		}
		s.taskAssignments[executorID][taskID] = struct{}{}

		var t = s.tasks[taskID]
		t.AssignedExecutorID = executorID
		s.tasks[taskID] = t
	}
	return nil
}

func (s *State) isUnassigned(taskID string) bool {
	for _, id := range s.unassignedTasks {
		if id == taskID {
			return true
		}
	}
	return false
}

func (s *State) removeUnassigned(taskID string) {
	for i, id := range s.unassignedTasks {
		if id == taskID {
			s.unassignedTasks = append(s.unassignedTasks[:i], s.unassignedTasks[i+1:]...)
			return
		}
	}
}

func (s *State) applyUpdateTaskOutcome(c *UpdateTaskOutcomeCmd) *ApplyError {
	var t, ok = s.tasks[c.TaskID]
	if !ok {
		return newApplyError(ErrMissingReference, fmt.Sprintf("task %q does not exist", c.TaskID))
	}
	t.Outcome = c.Outcome
	if c.Outcome == OutcomeFailed {
		t.Attempts++
	}
	t.AssignedExecutorID = ""
	s.tasks[c.TaskID] = t

	if set := s.taskAssignments[c.ExecutorID]; set != nil {
		delete(set, c.TaskID)
	}
	// Does NOT requeue on Failed; a failed task stays failed rather than
	// being silently retried.
	return nil
}

func (s *State) applyCreateIndex(c *CreateIndexCmd) *ApplyError {
	if _, ok := s.indexes[c.ID]; ok {
		return newApplyError(ErrDuplicateID, fmt.Sprintf("index %q already exists", c.ID))
	}
	s.indexes[c.ID] = c.Index
	if s.repositoryIndexes[c.Repository] == nil {
		s.repositoryIndexes[c.Repository] = make(map[string]struct{})
	}
	s.repositoryIndexes[c.Repository][c.ID] = struct{}{}
	return nil
}

func (s *State) applyReapExecutor(c *ReapExecutorCmd) *ApplyError {
	var _, ok = s.executors[c.ExecutorID]
	if !ok {
		return nil // already gone; reaping is idempotent
	}
	s.removeExecutorFromExtractor(s.executors[c.ExecutorID].Extractor, c.ExecutorID)
	delete(s.executors, c.ExecutorID)

	var open = s.taskAssignments[c.ExecutorID]
	delete(s.taskAssignments, c.ExecutorID)

	// Map iteration order is randomized, so every replica must impose its
	// own deterministic order before mutating shared state; sort by Seq
	// to requeue in the order the tasks were originally created.
	var taskIDs = make([]string, 0, len(open))
	for taskID := range open {
		taskIDs = append(taskIDs, taskID)
	}
	sort.Slice(taskIDs, func(i, j int) bool {
		return s.tasks[taskIDs[i]].Seq < s.tasks[taskIDs[j]].Seq
	})

	for _, taskID := range taskIDs {
		var t = s.tasks[taskID]
		t.AssignedExecutorID = ""
		// A fresh Seq keeps the incremental unassignedTasks ordering
		// consistent with rebuildDerived, which always sorts unassigned
		// tasks by Seq: a requeued task must sort after tasks that were
		// already unassigned, not at its original creation position.
		t.Seq = s.takeSeq()
		s.tasks[taskID] = t
		s.unassignedTasks = append(s.unassignedTasks, taskID)
	}
	return nil
}
