package realtime

import (
	"github.com/google/uuid"
	"github.com/taskline/taskline-api/internal/domain"
)

// Event names emitted to subscribed clients.
const (
	EventTaskCreated    = "taskCreated"
	EventTaskUpdated    = "taskUpdated"
	EventTaskDeleted    = "taskDeleted"
	EventTaskAssigned   = "taskAssigned"
	EventTaskUnassigned = "taskUnassigned"
)

// RoomTasks is the shared room every authenticated connection joins.
const RoomTasks = "tasks"

// UserRoom returns the name of a user's private notification room.
func UserRoom(userID uuid.UUID) string {
	return "user:" + userID.String()
}

// Envelope is the wire format of every broadcast frame.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// TaskDeletedPayload carries the ID of a deleted task.
type TaskDeletedPayload struct {
	TaskID uuid.UUID `json:"taskId"`
}

// AssignmentPayload notifies a user of an assignment change on a task.
type AssignmentPayload struct {
	Task    *domain.Task `json:"task"`
	Message string       `json:"message"`
}
