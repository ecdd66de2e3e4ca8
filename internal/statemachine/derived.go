package statemachine

import "sort"

// rebuildDerived recomputes every derived table from base entities only.
// It is called once after a snapshot installs new base tables; incremental
// apply must leave derived tables equal to what it would produce.
func (s *State) rebuildDerived() {
	s.bindingsByRepo = make(map[string]map[string]struct{})
	s.contentByRepo = make(map[string][]string)
	s.executorsByExtractor = make(map[string][]string)
	s.unprocessedExtractionEvents = nil
	s.unassignedTasks = nil
	s.repositoryIndexes = make(map[string]map[string]struct{})

	for id, b := range s.bindings {
		if s.bindingsByRepo[b.Repository] == nil {
			s.bindingsByRepo[b.Repository] = make(map[string]struct{})
		}
		s.bindingsByRepo[b.Repository][id] = struct{}{}
	}

	// content_by_repo and unassigned_tasks must preserve insertion order,
	// which base-entity maps don't carry on their own; the insertion
	// sequence number Seq stands in for it on rebuild (see the Seq fields
	// of ContentMetadata and Task in types.go).
	var contentIDs = make([]string, 0, len(s.content))
	for id := range s.content {
		contentIDs = append(contentIDs, id)
	}
	sort.Slice(contentIDs, func(i, j int) bool {
		return s.content[contentIDs[i]].Seq < s.content[contentIDs[j]].Seq
	})
	for _, id := range contentIDs {
		var c = s.content[id]
		s.contentByRepo[c.Repository] = append(s.contentByRepo[c.Repository], id)
	}

	var executorIDs = make([]string, 0, len(s.executors))
	for id := range s.executors {
		executorIDs = append(executorIDs, id)
	}
	sort.Slice(executorIDs, func(i, j int) bool {
		return s.executors[executorIDs[i]].Seq < s.executors[executorIDs[j]].Seq
	})
	for _, id := range executorIDs {
		var e = s.executors[id]
		s.executorsByExtractor[e.Extractor] = append(s.executorsByExtractor[e.Extractor], id)
	}

	var eventIDs = make([]string, 0, len(s.events))
	for id, e := range s.events {
		if !e.Processed {
			eventIDs = append(eventIDs, id)
		}
	}
	sort.Slice(eventIDs, func(i, j int) bool {
		return s.events[eventIDs[i]].Seq < s.events[eventIDs[j]].Seq
	})
	s.unprocessedExtractionEvents = eventIDs

	var taskIDs = make([]string, 0, len(s.tasks))
	for id, t := range s.tasks {
		if t.AssignedExecutorID == "" && t.Outcome == OutcomeUnknown {
			taskIDs = append(taskIDs, id)
		}
	}
	sort.Slice(taskIDs, func(i, j int) bool {
		return s.tasks[taskIDs[i]].Seq < s.tasks[taskIDs[j]].Seq
	})
	s.unassignedTasks = taskIDs

	s.taskAssignments = make(map[string]map[string]struct{})
	for id, t := range s.tasks {
		if t.AssignedExecutorID != "" {
			if s.taskAssignments[t.AssignedExecutorID] == nil {
				s.taskAssignments[t.AssignedExecutorID] = make(map[string]struct{})
			}
			s.taskAssignments[t.AssignedExecutorID][id] = struct{}{}
		}
	}

	for id, idx := range s.indexes {
		if s.repositoryIndexes[idx.Repository] == nil {
			s.repositoryIndexes[idx.Repository] = make(map[string]struct{})
		}
		s.repositoryIndexes[idx.Repository][id] = struct{}{}
	}
}
