package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskline/taskline-api/internal/domain"
)

// startHub runs a hub for the duration of the test.
func startHub(t *testing.T) *Hub {
	t.Helper()

	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(func() {
		cancel()
		hub.Wait()
	})
	return hub
}

// join registers a connectionless client for the given user and returns it.
func join(t *testing.T, hub *Hub, userID uuid.UUID) *client {
	t.Helper()

	c := newClient(userID, nil)
	hub.register <- c
	return c
}

// nextFrame waits for one frame on the client's send channel and decodes
// its envelope.
func nextFrame(t *testing.T, c *client) Envelope {
	t.Helper()

	select {
	case data, ok := <-c.send:
		require.True(t, ok, "send channel closed")
		var env Envelope
		require.NoError(t, json.Unmarshal(data, &env))
		return env
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")
		return Envelope{}
	}
}

// assertNoFrame asserts the client receives nothing for a short window.
func assertNoFrame(t *testing.T, c *client) {
	t.Helper()

	select {
	case data := <-c.send:
		t.Fatalf("unexpected frame: %s", data)
	case <-time.After(100 * time.Millisecond):
	}
}

func makeTask(t *testing.T, title string, assignedToID *uuid.UUID) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(title, nil, nil, domain.PriorityMedium, uuid.New(), assignedToID)
	require.NoError(t, err)
	return task
}

func TestHubBroadcastsToTasksRoom(t *testing.T) {
	t.Parallel()

	hub := startHub(t)
	alice := join(t, hub, uuid.New())
	bob := join(t, hub, uuid.New())

	task := makeTask(t, "Broadcast me", nil)
	hub.TaskCreated(task)

	for _, c := range []*client{alice, bob} {
		env := nextFrame(t, c)
		assert.Equal(t, EventTaskCreated, env.Event)
	}
}

func TestHubTaskDeletedPayload(t *testing.T) {
	t.Parallel()

	hub := startHub(t)
	c := join(t, hub, uuid.New())

	taskID := uuid.New()
	hub.TaskDeleted(taskID)

	env := nextFrame(t, c)
	assert.Equal(t, EventTaskDeleted, env.Event)

	data, err := json.Marshal(env.Data)
	require.NoError(t, err)
	var payload TaskDeletedPayload
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, taskID, payload.TaskID)
}

func TestHubAssignmentTargetsUserRoom(t *testing.T) {
	t.Parallel()

	hub := startHub(t)
	assigneeID := uuid.New()
	assignee := join(t, hub, assigneeID)
	bystander := join(t, hub, uuid.New())

	task := makeTask(t, "Take this", &assigneeID)
	hub.TaskUpdated(task, nil)

	// Everyone sees the update; only the assignee gets the notification.
	assert.Equal(t, EventTaskUpdated, nextFrame(t, assignee).Event)
	assert.Equal(t, EventTaskUpdated, nextFrame(t, bystander).Event)

	env := nextFrame(t, assignee)
	assert.Equal(t, EventTaskAssigned, env.Event)

	data, err := json.Marshal(env.Data)
	require.NoError(t, err)
	var payload struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, "You have been assigned to task: Take this", payload.Message)

	assertNoFrame(t, bystander)
}

func TestHubUnassignmentNotifiesPreviousAssignee(t *testing.T) {
	t.Parallel()

	hub := startHub(t)
	previousID := uuid.New()
	previous := join(t, hub, previousID)

	task := makeTask(t, "Let it go", nil)
	hub.TaskUpdated(task, &previousID)

	assert.Equal(t, EventTaskUpdated, nextFrame(t, previous).Event)

	env := nextFrame(t, previous)
	assert.Equal(t, EventTaskUnassigned, env.Event)

	data, err := json.Marshal(env.Data)
	require.NoError(t, err)
	var payload struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, "You have been unassigned from task: Let it go", payload.Message)
}

func TestHubReassignmentEmitsOnlyAssigned(t *testing.T) {
	t.Parallel()

	hub := startHub(t)
	oldID := uuid.New()
	newID := uuid.New()
	oldAssignee := join(t, hub, oldID)
	newAssignee := join(t, hub, newID)

	task := makeTask(t, "Handover", &newID)
	hub.TaskUpdated(task, &oldID)

	assert.Equal(t, EventTaskUpdated, nextFrame(t, oldAssignee).Event)
	assert.Equal(t, EventTaskUpdated, nextFrame(t, newAssignee).Event)

	// The new assignee is notified; the old one gets no unassignment.
	assert.Equal(t, EventTaskAssigned, nextFrame(t, newAssignee).Event)
	assertNoFrame(t, oldAssignee)
}

func TestHubUnchangedAssigneeGetsNoNotification(t *testing.T) {
	t.Parallel()

	hub := startHub(t)
	assigneeID := uuid.New()
	assignee := join(t, hub, assigneeID)

	task := makeTask(t, "Still mine", &assigneeID)
	hub.TaskUpdated(task, &assigneeID)

	assert.Equal(t, EventTaskUpdated, nextFrame(t, assignee).Event)
	assertNoFrame(t, assignee)
}

func TestHubUnregisterLeavesRooms(t *testing.T) {
	t.Parallel()

	hub := startHub(t)
	gone := join(t, hub, uuid.New())
	staying := join(t, hub, uuid.New())

	hub.unregister <- gone

	// The closed send channel signals removal.
	select {
	case _, ok := <-gone.send:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("send channel was not closed")
	}

	hub.TaskCreated(makeTask(t, "After departure", nil))
	assert.Equal(t, EventTaskCreated, nextFrame(t, staying).Event)
}

func TestHubStoppedHubDoesNotBlockConnectionLifecycle(t *testing.T) {
	t.Parallel()

	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	cancel()
	hub.Wait()

	done := make(chan struct{})
	go func() {
		c := newClient(uuid.New(), nil)
		hub.add(c)
		hub.remove(c)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("add/remove blocked after hub stop")
	}
}
