package statemachine

import (
	"sort"
	"sync"
)

// State is the authoritative, in-memory view of the cluster. Base tables
// are the source of truth; derived tables (see derived.go) are rebuilt
// from them on snapshot install and kept incrementally in sync on apply,
// so derived tables always remain a pure function of base entities.
//
// The single applier holds the write lock; readers take the read lock
// via Read(). Apply never blocks on I/O, so lock hold times are bounded
// by in-memory work only.
type State struct {
	mu sync.RWMutex

	// nextSeq hands out the monotonically increasing Seq stamped on
	// Tasks and ExtractionEvents as they're inserted, so FIFO order
	// survives a snapshot round-trip (see derived.go rebuildDerived).
	nextSeq int64

	repositories map[string]Repository
	extractors   map[string]ExtractorDescription
	bindings     map[string]ExtractorBinding // keyed by ExtractorBinding.ID()
	content      map[string]ContentMetadata
	executors    map[string]ExecutorMetadata
	events       map[string]ExtractionEvent
	tasks        map[string]Task
	// taskAssignments[executorID] = set of task ids assigned to it.
	taskAssignments map[string]map[string]struct{}
	indexes         map[string]Index

	// Derived tables, rebuilt from the above on snapshot install and
	// maintained incrementally by apply. Never written to directly from
	// outside this package.
	bindingsByRepo            map[string]map[string]struct{} // repo -> set<bindingID>
	contentByRepo             map[string][]string            // repo -> ordered content ids
	executorsByExtractor      map[string][]string            // extractor -> ordered executor ids
	unprocessedExtractionEvents []string                      // FIFO of event ids
	unassignedTasks           []string                        // FIFO of task ids
	repositoryIndexes         map[string]map[string]struct{}  // repo -> set<index id>
}

// New returns an empty State, as it would look freshly booted before any
// command has ever been applied.
func New() *State {
	return &State{
		repositories:    make(map[string]Repository),
		extractors:      make(map[string]ExtractorDescription),
		bindings:        make(map[string]ExtractorBinding),
		content:         make(map[string]ContentMetadata),
		executors:       make(map[string]ExecutorMetadata),
		events:          make(map[string]ExtractionEvent),
		tasks:           make(map[string]Task),
		taskAssignments: make(map[string]map[string]struct{}),
		indexes:         make(map[string]Index),

		bindingsByRepo:              make(map[string]map[string]struct{}),
		contentByRepo:                make(map[string][]string),
		executorsByExtractor:         make(map[string][]string),
		unprocessedExtractionEvents: nil,
		unassignedTasks:             nil,
		repositoryIndexes:           make(map[string]map[string]struct{}),
	}
}

// takeSeq must be called with the write lock held.
func (s *State) takeSeq() int64 {
	s.nextSeq++
	return s.nextSeq
}

// ReadFn runs under a shared-read lock over the state. It must not retain
// references into State after returning and must not mutate anything it
// reaches through s.
type ReadFn func(s *State)

// Read executes fn holding the shared-read lock. Callers capture their
// result via a closure variable, e.g.:
//
//	var names []string
//	state.Read(func(s *State) { names = s.RepositoryNames() })
func (s *State) Read(fn ReadFn) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s)
}

// RepositoryNames returns repository names in no particular order (map
// iteration order, which can differ between calls); callers that need a
// deterministic order should sort the result themselves.
func (s *State) RepositoryNames() []string {
	var out = make([]string, 0, len(s.repositories))
	for name := range s.repositories {
		out = append(out, name)
	}
	return out
}

// Repository looks up a repository by name.
func (s *State) Repository(name string) (Repository, bool) {
	r, ok := s.repositories[name]
	return r, ok
}

// BindingsByRepo returns the bindings declared against repo.
func (s *State) BindingsByRepo(repo string) []ExtractorBinding {
	var ids = s.bindingsByRepo[repo]
	var out = make([]ExtractorBinding, 0, len(ids))
	for id := range ids {
		out = append(out, s.bindings[id])
	}
	return out
}

// Binding looks up a binding by its (repository, name) key.
func (s *State) Binding(repo, name string) (ExtractorBinding, bool) {
	b, ok := s.bindings[repo+"/"+name]
	return b, ok
}

// ContentByRepo returns content ids for repo in insertion order.
func (s *State) ContentByRepo(repo string) []string {
	return append([]string(nil), s.contentByRepo[repo]...)
}

// Content looks up content metadata by id.
func (s *State) Content(id string) (ContentMetadata, bool) {
	c, ok := s.content[id]
	return c, ok
}

// Executor looks up an executor by id.
func (s *State) Executor(id string) (ExecutorMetadata, bool) {
	e, ok := s.executors[id]
	return e, ok
}

// Executors returns all registered executors.
func (s *State) Executors() []ExecutorMetadata {
	var out = make([]ExecutorMetadata, 0, len(s.executors))
	for _, e := range s.executors {
		out = append(out, e)
	}
	return out
}

// ExecutorsByExtractor returns executor ids advertising extractor, in
// registration order.
func (s *State) ExecutorsByExtractor(extractor string) []string {
	return append([]string(nil), s.executorsByExtractor[extractor]...)
}

// UnprocessedExtractionEvents returns pending event ids in FIFO order.
func (s *State) UnprocessedExtractionEvents() []string {
	return append([]string(nil), s.unprocessedExtractionEvents...)
}

// ExtractionEvent looks up an event by id.
func (s *State) ExtractionEvent(id string) (ExtractionEvent, bool) {
	e, ok := s.events[id]
	return e, ok
}

// UnassignedTasks returns unassigned task ids in FIFO order.
func (s *State) UnassignedTasks() []string {
	return append([]string(nil), s.unassignedTasks...)
}

// Task looks up a task by id.
func (s *State) Task(id string) (Task, bool) {
	t, ok := s.tasks[id]
	return t, ok
}

// Tasks returns every task, for listing RPCs.
func (s *State) Tasks() []Task {
	var out = make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	return out
}

// AssignmentCount returns how many tasks are currently assigned to
// executorID, used by the task assigner's least-loaded selection.
func (s *State) AssignmentCount(executorID string) int {
	return len(s.taskAssignments[executorID])
}

// AssignedTasks returns the task ids currently assigned to executorID,
// ordered by Task.Seq: creation order, or requeue order for a task that
// ReapExecutor returned to unassigned_tasks. The order in which tasks were
// assigned is not recorded and does not affect the result.
func (s *State) AssignedTasks(executorID string) []string {
	var set = s.taskAssignments[executorID]
	var out = make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		return s.tasks[out[i]].Seq < s.tasks[out[j]].Seq
	})
	return out
}

// RepositoryIndexes returns indexes declared against repo.
func (s *State) RepositoryIndexes(repo string) []Index {
	var ids = s.repositoryIndexes[repo]
	var out = make([]Index, 0, len(ids))
	for id := range ids {
		out = append(out, s.indexes[id])
	}
	return out
}

// Index looks up an index by id.
func (s *State) Index(id string) (Index, bool) {
	idx, ok := s.indexes[id]
	return idx, ok
}
