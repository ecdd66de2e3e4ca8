// Package scheduler runs the coordinator's leader-only background loops:
// turning extraction events into tasks, assigning unassigned tasks to
// executors, and reaping stale executors. The event processor and the task
// assigner are driven by the replicated state machine's change-notification
// channel; the reaper runs on a fixed 15s tick. All three only ever propose
// through the raft node that currently holds leadership.
package scheduler

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/indexify/coordinator/internal/raftnode"
	"github.com/indexify/coordinator/internal/statemachine"
)

// EventProcessor converts extraction events into tasks. It wakes on the
// state machine's notification channel, drains the unprocessed-event
// FIFO one event per proposal, and stops as soon as ctx is cancelled or
// the node loses leadership.
type EventProcessor struct {
	node         *raftnode.Node
	writeTimeout time.Duration
}

// NewEventProcessor returns an EventProcessor over node.
func NewEventProcessor(node *raftnode.Node) *EventProcessor {
	return &EventProcessor{node: node, writeTimeout: 5 * time.Second}
}

// Run blocks until ctx is cancelled, processing events while this node is
// leader. Callers are expected to invoke Run only while holding
// leadership (see Supervisor for the leader-gating loop).
func (p *EventProcessor) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.node.Machine.Notify():
		}

		for {
			processed, err := p.processOne(ctx)
			if err != nil {
				log.WithError(err).Warn("event processor: proposal rejected, will retry")
				break
			}
			if !processed {
				break
			}
		}
	}
}

// processOne handles at most one unprocessed extraction event, returning
// whether an event was found to process.
func (p *EventProcessor) processOne(ctx context.Context) (bool, error) {
	var eventID string
	var event statemachine.ExtractionEvent
	var tasks []statemachine.Task

	p.node.Machine.State().Read(func(s *statemachine.State) {
		var pending = s.UnprocessedExtractionEvents()
		if len(pending) == 0 {
			return
		}
		eventID = pending[0]
		event, _ = s.ExtractionEvent(eventID)
		tasks = synthesizeTasks(s, event)
	})
	if eventID == "" {
		return false, nil
	}

	if len(tasks) > 0 {
		if _, err := p.node.ClientWrite(statemachine.Command{
			Kind:        statemachine.CmdCreateTasks,
			CreateTasks: &statemachine.CreateTasksCmd{Tasks: tasks},
		}, p.writeTimeout); err != nil {
			return false, err
		}
	}

	_, err := p.node.ClientWrite(statemachine.Command{
		Kind: statemachine.CmdMarkExtractionEventProcessed,
		MarkExtractionEventProcessed: &statemachine.MarkExtractionEventProcessedCmd{
			EventID: eventID,
			TSSecs:  time.Now().Unix(),
		},
	}, p.writeTimeout)
	if err != nil {
		return false, err
	}
	return true, nil
}

// synthesizeTasks implements the NewBinding/NewContent fan-out and the
// filter-matching rule: a task is created for every (binding, content)
// pair whose repositories match and whose content labels satisfy every
// key/value pair in the binding's filters.
func synthesizeTasks(s *statemachine.State, event statemachine.ExtractionEvent) []statemachine.Task {
	switch event.Kind {
	case statemachine.EventNewBinding:
		binding, ok := s.Binding(event.BindingRepo, event.BindingName)
		if !ok {
			return nil
		}
		var out []statemachine.Task
		for _, contentID := range s.ContentByRepo(binding.Repository) {
			content, ok := s.Content(contentID)
			if !ok || !filtersMatch(binding.Filters, content.Labels) {
				continue
			}
			out = append(out, newTask(binding, content))
		}
		return out

	case statemachine.EventNewContent:
		content, ok := s.Content(event.ContentID)
		if !ok {
			return nil
		}
		var out []statemachine.Task
		for _, binding := range s.BindingsByRepo(content.Repository) {
			if !filtersMatch(binding.Filters, content.Labels) {
				continue
			}
			out = append(out, newTask(binding, content))
		}
		return out

	default:
		return nil
	}
}

func filtersMatch(filters, labels map[string]string) bool {
	for k, v := range filters {
		if labels[k] != v {
			return false
		}
	}
	return true
}

func newTask(binding statemachine.ExtractorBinding, content statemachine.ContentMetadata) statemachine.Task {
	return statemachine.Task{
		ID:                 taskID(binding.ID(), content.ID),
		BindingRepository:  binding.Repository,
		BindingName:        binding.Name,
		ContentID:          content.ID,
		Extractor:          binding.Extractor,
		InputParams:        binding.InputParams,
	}
}

// taskID is deterministic in (binding.id, content.id) so that a replayed
// event processor tick proposing the same task twice is rejected as a
// duplicate rather than double-creating work.
func taskID(bindingID, contentID string) string {
	var h = sha256.Sum256([]byte(bindingID + "\x00" + contentID))
	return hex.EncodeToString(h[:16])
}
