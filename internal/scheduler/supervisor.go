package scheduler

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/indexify/coordinator/internal/lifecycle"
	"github.com/indexify/coordinator/internal/raftnode"
)

// Supervisor subscribes to the raft node's leadership-transition stream
// and starts/stops the three scheduler loops accordingly: starting a loop
// on a follower would double-assign tasks, so loops run only for as long
// as this node holds leadership.
type Supervisor struct {
	node        *raftnode.Node
	executorTTL time.Duration
}

// NewSupervisor returns a Supervisor driving loops against node.
func NewSupervisor(node *raftnode.Node, executorTTL time.Duration) *Supervisor {
	return &Supervisor{node: node, executorTTL: executorTTL}
}

// Run blocks until ctx is cancelled, starting a fresh lifecycle.Group of
// loops each time this node becomes leader and tearing it down the
// instant leadership is lost.
func (sup *Supervisor) Run(ctx context.Context) error {
	var term *lifecycle.Group

	stopTerm := func() {
		if term == nil {
			return
		}
		term.Shutdown()
		term.Wait()
		term = nil
	}
	defer stopTerm()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case isLeader := <-sup.node.LeaderCh():
			if !isLeader {
				log.Info("lost leadership, stopping scheduler loops")
				stopTerm()
				continue
			}

			log.Info("acquired leadership, starting scheduler loops")
			stopTerm()
			term = lifecycle.New(ctx)

			var processor = NewEventProcessor(sup.node)
			var assigner = NewTaskAssigner(sup.node, sup.executorTTL)
			var reaper = NewExecutorReaper(sup.node, sup.executorTTL)

			term.Run("event-processor", processor.Run)
			term.Run("task-assigner", assigner.Run)
			term.Run("executor-reaper", reaper.Run)
		}
	}
}
