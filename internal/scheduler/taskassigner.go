package scheduler

import (
	"context"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/indexify/coordinator/internal/raftnode"
	"github.com/indexify/coordinator/internal/statemachine"
)

// TaskAssigner assigns unassigned tasks to the least-loaded eligible
// executor, proposing one AssignTask batch per wake.
type TaskAssigner struct {
	node         *raftnode.Node
	executorTTL  time.Duration
	writeTimeout time.Duration
}

// NewTaskAssigner returns a TaskAssigner using executorTTL as the
// liveness window (default 60s).
func NewTaskAssigner(node *raftnode.Node, executorTTL time.Duration) *TaskAssigner {
	if executorTTL <= 0 {
		executorTTL = 60 * time.Second
	}
	return &TaskAssigner{node: node, executorTTL: executorTTL, writeTimeout: 5 * time.Second}
}

// Run blocks until ctx is cancelled, assigning tasks on every wake.
func (a *TaskAssigner) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-a.node.Machine.Notify():
		}

		assignments := a.planOnce()
		if len(assignments) == 0 {
			continue
		}
		if _, err := a.node.ClientWrite(statemachine.Command{
			Kind:       statemachine.CmdAssignTask,
			AssignTask: &statemachine.AssignTaskCmd{Assignments: assignments},
		}, a.writeTimeout); err != nil {
			// A task may have raced onto another executor between our
			// read and this proposal; the next wake re-plans from fresh
			// state.
			log.WithError(err).Debug("task assigner: proposal rejected, will retry next wake")
		}
	}
}

// planOnce computes one batch of task->executor assignments from a single
// read snapshot, implementing the least-loaded-with-lexicographic-
// tiebreak rule.
func (a *TaskAssigner) planOnce() map[string]string {
	var assignments = make(map[string]string)
	var now = time.Now().Unix()
	var ttlSecs = int64(a.executorTTL.Seconds())

	a.node.Machine.State().Read(func(s *statemachine.State) {
		var load = make(map[string]int)

		for _, taskID := range s.UnassignedTasks() {
			task, ok := s.Task(taskID)
			if !ok {
				continue
			}

			var candidates []string
			for _, execID := range s.ExecutorsByExtractor(task.Extractor) {
				e, ok := s.Executor(execID)
				if !ok || now-e.LastSeenSecs > ttlSecs {
					continue
				}
				candidates = append(candidates, execID)
			}
			if len(candidates) == 0 {
				continue
			}

			for _, execID := range candidates {
				if _, seen := load[execID]; !seen {
					load[execID] = s.AssignmentCount(execID)
				}
			}
			sort.Slice(candidates, func(i, j int) bool {
				if load[candidates[i]] != load[candidates[j]] {
					return load[candidates[i]] < load[candidates[j]]
				}
				return candidates[i] < candidates[j]
			})

			var chosen = candidates[0]
			assignments[taskID] = chosen
			load[chosen]++
		}
	})

	return assignments
}
