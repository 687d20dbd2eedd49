package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/taskline/taskline-api/internal/domain"
)

// Hub maintains per-connection identity and room membership and fans task
// lifecycle events out to subscribers. Registration, removal, and publishes
// flow through channels consumed by a single Run loop.
type Hub struct {
	logger *slog.Logger

	mu      sync.RWMutex
	clients map[uuid.UUID]*client
	rooms   map[string]map[uuid.UUID]*client

	register   chan *client
	unregister chan *client
	publish    chan roomMessage
	done       chan struct{}
}

// roomMessage is a serialized frame addressed to one room.
type roomMessage struct {
	room string
	data []byte
}

// NewHub creates a Hub. Call Run before registering connections.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger:     logger.With(slog.String("component", "realtime_hub")),
		clients:    make(map[uuid.UUID]*client),
		rooms:      make(map[string]map[uuid.UUID]*client),
		register:   make(chan *client),
		unregister: make(chan *client),
		publish:    make(chan roomMessage, 256),
		done:       make(chan struct{}),
	}
}

// Run consumes hub events until the context is canceled, then closes all
// client connections. Intended to run on its own goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return
		case c := <-h.register:
			h.handleRegister(c)
		case c := <-h.unregister:
			h.handleUnregister(c)
		case msg := <-h.publish:
			h.deliver(msg)
		}
	}
}

// Wait blocks until the hub has stopped.
func (h *Hub) Wait() {
	<-h.done
}

// handleRegister stores the connection and auto-subscribes it to its two
// rooms: the shared tasks room and the user's private room.
func (h *Hub) handleRegister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c.id] = c
	h.joinLocked(c, RoomTasks)
	h.joinLocked(c, UserRoom(c.userID))

	h.logger.Info("client joined",
		"client_id", c.id,
		"user_id", c.userID)
}

// handleUnregister removes the connection from all rooms and releases its
// send channel.
func (h *Hub) handleUnregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c.id]; !ok {
		return
	}
	delete(h.clients, c.id)
	h.leaveLocked(c, RoomTasks)
	h.leaveLocked(c, UserRoom(c.userID))
	close(c.send)

	h.logger.Info("client disconnected",
		"client_id", c.id,
		"user_id", c.userID)
}

func (h *Hub) joinLocked(c *client, room string) {
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[uuid.UUID]*client)
	}
	h.rooms[room][c.id] = c
}

func (h *Hub) leaveLocked(c *client, room string) {
	if members := h.rooms[room]; members != nil {
		delete(members, c.id)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// deliver fans one frame out to the members of a room. A member whose send
// buffer is full misses the frame; delivery is best-effort.
func (h *Hub) deliver(msg roomMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.rooms[msg.room] {
		select {
		case c.send <- msg.data:
		default:
			h.logger.Warn("dropping event for slow client",
				"client_id", c.id,
				"user_id", c.userID,
				"room", msg.room)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, c := range h.clients {
		close(c.send)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	}
	h.clients = make(map[uuid.UUID]*client)
	h.rooms = make(map[string]map[uuid.UUID]*client)
}

// add hands a connection to the Run loop. A no-op once the hub has
// stopped, so a handshake racing shutdown cannot block its handler.
func (h *Hub) add(c *client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// remove withdraws a connection from the Run loop. A no-op once the hub
// has stopped; closeAll has already released every registered client.
func (h *Hub) remove(c *client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// publishTo serializes an envelope and queues it for room delivery.
// Publishing is fire-and-forget; there is no acknowledgement.
func (h *Hub) publishTo(room, event string, data any) {
	payload, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		h.logger.Error("failed to marshal broadcast event",
			"event", event,
			"room", room,
			"error", err)
		return
	}

	select {
	case h.publish <- roomMessage{room: room, data: payload}:
	case <-h.done:
	}
}

// TaskCreated broadcasts a created task to the shared tasks room.
func (h *Hub) TaskCreated(task *domain.Task) {
	h.publishTo(RoomTasks, EventTaskCreated, task)
}

// TaskUpdated broadcasts an updated task to the shared tasks room, and
// notifies the affected user's private room on assignment changes. The
// assignment and unassignment branches are mutually exclusive: reassignment
// to a different user emits only taskAssigned to the new assignee.
func (h *Hub) TaskUpdated(task *domain.Task, previousAssigneeID *uuid.UUID) {
	h.publishTo(RoomTasks, EventTaskUpdated, task)

	switch {
	case task.AssignedToID != nil &&
		(previousAssigneeID == nil || *previousAssigneeID != *task.AssignedToID):
		h.publishTo(UserRoom(*task.AssignedToID), EventTaskAssigned, AssignmentPayload{
			Task:    task,
			Message: fmt.Sprintf("You have been assigned to task: %s", task.Title),
		})
	case task.AssignedToID == nil && previousAssigneeID != nil:
		h.publishTo(UserRoom(*previousAssigneeID), EventTaskUnassigned, AssignmentPayload{
			Task:    task,
			Message: fmt.Sprintf("You have been unassigned from task: %s", task.Title),
		})
	}
}

// TaskDeleted broadcasts a deleted task's ID to the shared tasks room.
func (h *Hub) TaskDeleted(taskID uuid.UUID) {
	h.publishTo(RoomTasks, EventTaskDeleted, TaskDeletedPayload{TaskID: taskID})
}
