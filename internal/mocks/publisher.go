package mocks

import (
	"sync"

	"github.com/google/uuid"

	"github.com/taskline/taskline-api/internal/domain"
)

// PublishedEvent records one call into the RecordingPublisher.
type PublishedEvent struct {
	Kind               string // created, updated, deleted
	Task               *domain.Task
	TaskID             uuid.UUID
	PreviousAssigneeID *uuid.UUID
}

// RecordingPublisher implements service.EventPublisher and records every
// published event in order.
type RecordingPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

func (p *RecordingPublisher) TaskCreated(task *domain.Task) {
	p.record(PublishedEvent{Kind: "created", Task: task, TaskID: task.ID})
}

func (p *RecordingPublisher) TaskUpdated(task *domain.Task, previousAssigneeID *uuid.UUID) {
	p.record(PublishedEvent{
		Kind:               "updated",
		Task:               task,
		TaskID:             task.ID,
		PreviousAssigneeID: previousAssigneeID,
	})
}

func (p *RecordingPublisher) TaskDeleted(taskID uuid.UUID) {
	p.record(PublishedEvent{Kind: "deleted", TaskID: taskID})
}

func (p *RecordingPublisher) record(e PublishedEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, e)
}

// Last returns the most recent event, or nil when nothing was published.
func (p *RecordingPublisher) Last() *PublishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.Events) == 0 {
		return nil
	}
	return &p.Events[len(p.Events)-1]
}
