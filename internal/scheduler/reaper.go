package scheduler

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/indexify/coordinator/internal/raftnode"
	"github.com/indexify/coordinator/internal/statemachine"
)

// ExecutorReaper periodically removes executors that have gone quiet past
// their TTL, returning their open assignments to unassigned_tasks in the
// same proposal.
type ExecutorReaper struct {
	node         *raftnode.Node
	executorTTL  time.Duration
	tick         time.Duration
	writeTimeout time.Duration
}

// NewExecutorReaper returns a reaper that scans every 15s for executors
// stale past executorTTL.
func NewExecutorReaper(node *raftnode.Node, executorTTL time.Duration) *ExecutorReaper {
	if executorTTL <= 0 {
		executorTTL = 60 * time.Second
	}
	return &ExecutorReaper{node: node, executorTTL: executorTTL, tick: 15 * time.Second, writeTimeout: 5 * time.Second}
}

// Run blocks until ctx is cancelled, reaping stale executors on every tick.
func (r *ExecutorReaper) Run(ctx context.Context) error {
	var ticker = time.NewTicker(r.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.reapOnce(ctx)
		}
	}
}

func (r *ExecutorReaper) reapOnce(ctx context.Context) {
	var now = time.Now().Unix()
	var ttlSecs = int64(r.executorTTL.Seconds())

	var stale []string
	r.node.Machine.State().Read(func(s *statemachine.State) {
		for _, e := range s.Executors() {
			if now-e.LastSeenSecs > ttlSecs {
				stale = append(stale, e.ExecutorID)
			}
		}
	})

	for _, executorID := range stale {
		_, err := r.node.ClientWrite(statemachine.Command{
			Kind:         statemachine.CmdReapExecutor,
			ReapExecutor: &statemachine.ReapExecutorCmd{ExecutorID: executorID},
		}, r.writeTimeout)
		if err != nil {
			log.WithError(err).WithField("executor_id", executorID).Warn("reaper: proposal failed")
			continue
		}
		log.WithField("executor_id", executorID).Info("reaped stale executor")
	}
}
