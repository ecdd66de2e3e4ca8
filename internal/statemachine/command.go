package statemachine

// CommandKind tags the variant held by a Command. Apply switches over every
// kind; a kind added here without a matching case in apply.go is not caught
// at compile time and is rejected at apply time with ErrUnknownCommand.
type CommandKind int

const (
	CmdRegisterExecutor CommandKind = iota
	CmdExecutorHeartbeat
	CmdCreateRepository
	CmdCreateContent
	CmdCreateBinding
	CmdMarkExtractionEventProcessed
	CmdCreateTasks
	CmdAssignTask
	CmdUpdateTaskOutcome
	CmdCreateIndex
	CmdReapExecutor
)

// String names a CommandKind for metric labels and log fields.
func (k CommandKind) String() string {
	switch k {
	case CmdRegisterExecutor:
		return "register_executor"
	case CmdExecutorHeartbeat:
		return "executor_heartbeat"
	case CmdCreateRepository:
		return "create_repository"
	case CmdCreateContent:
		return "create_content"
	case CmdCreateBinding:
		return "create_binding"
	case CmdMarkExtractionEventProcessed:
		return "mark_extraction_event_processed"
	case CmdCreateTasks:
		return "create_tasks"
	case CmdAssignTask:
		return "assign_task"
	case CmdUpdateTaskOutcome:
		return "update_task_outcome"
	case CmdCreateIndex:
		return "create_index"
	case CmdReapExecutor:
		return "reap_executor"
	default:
		return "unknown"
	}
}

// Command is a tagged union of every replicated mutation the state machine
// accepts. Only one of the payload fields is populated, selected by Kind.
// Commands carry only serializable values and their own ids, so a command
// replayed at a different log index still applies deterministically.
type Command struct {
	Kind CommandKind

	RegisterExecutor            *RegisterExecutorCmd
	ExecutorHeartbeat           *ExecutorHeartbeatCmd
	CreateRepository             *CreateRepositoryCmd
	CreateContent                *CreateContentCmd
	CreateBinding                *CreateBindingCmd
	MarkExtractionEventProcessed *MarkExtractionEventProcessedCmd
	CreateTasks                  *CreateTasksCmd
	AssignTask                   *AssignTaskCmd
	UpdateTaskOutcome            *UpdateTaskOutcomeCmd
	CreateIndex                  *CreateIndexCmd
	ReapExecutor                 *ReapExecutorCmd
}

type RegisterExecutorCmd struct {
	ExecutorID string
	Addr       string
	Extractor  string
	TSSecs     int64
}

type ExecutorHeartbeatCmd struct {
	ExecutorID string
	TSSecs     int64
}

type CreateRepositoryCmd struct {
	Name string
}

type CreateContentCmd struct {
	ID              string
	Content         ContentMetadata
	ExtractionEvent *ExtractionEvent // optional
}

type CreateBindingCmd struct {
	Binding         ExtractorBinding
	ExtractionEvent *ExtractionEvent // optional
}

type MarkExtractionEventProcessedCmd struct {
	EventID string
	TSSecs  int64
}

type CreateTasksCmd struct {
	Tasks []Task
}

// AssignTaskCmd assigns a batch of tasks to executors in one proposal,
// the unit the task assigner loop proposes per wake.
type AssignTaskCmd struct {
	Assignments map[string]string // task_id -> executor_id
}

type UpdateTaskOutcomeCmd struct {
	TaskID     string
	Outcome    TaskOutcome
	ExecutorID string
	TSSecs     int64
}

type CreateIndexCmd struct {
	ID         string
	Repository string
	Index      Index
}

// ReapExecutorCmd removes a stale executor and returns its open
// assignments to unassigned_tasks in one compound step.
type ReapExecutorCmd struct {
	ExecutorID string
}

// ApplyErrorCode distinguishes apply-level rejections from one another so
// callers can decide whether/how to react, without string-matching errors.
type ApplyErrorCode int

const (
	ErrDuplicateID ApplyErrorCode = iota
	ErrMissingReference
	ErrNotUnassigned
	ErrUnknownCommand
)

// ApplyError is a typed, never-retried-silently rejection of a Command at
// apply time. The log index still advances; no state changes.
type ApplyError struct {
	Code ApplyErrorCode
	Msg  string
}

func (e *ApplyError) Error() string { return e.Msg }

func newApplyError(code ApplyErrorCode, msg string) *ApplyError {
	return &ApplyError{Code: code, Msg: msg}
}

// Response is returned by Apply for a single committed Command.
type Response struct {
	Index int64
	Err   *ApplyError
}
