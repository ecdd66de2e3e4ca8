// Package statemachine implements the coordinator's replicated state
// machine: the in-memory, authoritative view of repositories, bindings,
// content, extractors, executors, tasks, extraction events, and indexes.
package statemachine

import "fmt"

// Repository is a logical namespace for content within the coordinator.
type Repository struct {
	Name string
}

// ExtractorDescription is upserted the first time an executor reporting
// it registers.
type ExtractorDescription struct {
	Name         string
	InputSchema  string
	OutputSchema string
	Capabilities []string
}

// ExtractorBinding pairs a repository with an extractor and a set of
// metadata filters. Immutable after creation.
type ExtractorBinding struct {
	Repository string
	Name        string
	Extractor   string
	Filters     map[string]string
	InputParams map[string]string
	OutputParams map[string]string
}

// ID is the binding's key within bindings_by_repo.
func (b ExtractorBinding) ID() string {
	return b.Repository + "/" + b.Name
}

// ContentMetadata is immutable once created.
type ContentMetadata struct {
	ID         string
	Repository string
	ParentID   string
	Source     string
	Labels     map[string]string
	CreatedAt  int64
	// Seq is assigned on insertion and is the only reliable way to
	// reconstruct content_by_repo's insertion order on snapshot rebuild;
	// it is base state, not derived.
	Seq int64
}

// ExecutorMetadata describes a registered executor worker.
type ExecutorMetadata struct {
	ExecutorID   string
	Addr         string
	Extractor    string
	LastSeenSecs int64
	// Seq is assigned on first registration and is the only reliable way
	// to reconstruct executors_by_extractor's insertion order on
	// snapshot rebuild; it is base state, not derived.
	Seq int64
}

// ExtractionEventKind enumerates the kinds of extraction event.
type ExtractionEventKind int

const (
	EventNewContent ExtractionEventKind = iota
	EventNewBinding
)

func (k ExtractionEventKind) String() string {
	switch k {
	case EventNewContent:
		return "NewContent"
	case EventNewBinding:
		return "NewBinding"
	default:
		return fmt.Sprintf("ExtractionEventKind(%d)", int(k))
	}
}

// ExtractionEvent is an async signal that may generate tasks.
type ExtractionEvent struct {
	EventID     string
	Kind        ExtractionEventKind
	Repository  string
	ContentID   string // set when Kind == EventNewContent
	BindingRepo string // set when Kind == EventNewBinding
	BindingName string // set when Kind == EventNewBinding
	TSSecs      int64
	Processed   bool
	ProcessedAt int64
	// Seq is assigned on insertion and is the only reliable way to
	// reconstruct unprocessed_extraction_events' FIFO order on snapshot
	// rebuild; it is base state, not derived.
	Seq int64
}

// TaskOutcome is the terminal (or not-yet-terminal) state of a Task.
type TaskOutcome int

const (
	OutcomeUnknown TaskOutcome = iota
	OutcomeSuccess
	OutcomeFailed
)

func (o TaskOutcome) String() string {
	switch o {
	case OutcomeUnknown:
		return "Unknown"
	case OutcomeSuccess:
		return "Success"
	case OutcomeFailed:
		return "Failed"
	default:
		return fmt.Sprintf("TaskOutcome(%d)", int(o))
	}
}

// Task is a unit of extraction work: a (binding, content) pair.
type Task struct {
	ID                string
	BindingRepository string
	BindingName        string
	ContentID          string
	Extractor          string
	InputParams        map[string]string
	Outcome            TaskOutcome
	// AssignedExecutorID mirrors task_assignments so a listing can show
	// ownership without a second lookup. On snapshot install it is the
	// source rebuildDerived reconstructs task_assignments and
	// unassigned_tasks from.
	AssignedExecutorID string
	// Attempts supplements the base spec: incremented on every Failed
	// outcome, read-only counter for external retry policy.
	Attempts int
	// Seq is assigned by CreateTasks in apply order, and reassigned by
	// ReapExecutor on requeue so a reaped task sorts after tasks that
	// were already unassigned. It is the only reliable way to
	// reconstruct unassigned_tasks' FIFO order on snapshot rebuild; it
	// is base state, not derived.
	Seq int64
}

// Index is immutable after creation.
type Index struct {
	ID         string
	Repository string
	ExtractorRef string
	Name       string
	Schema     string
}
