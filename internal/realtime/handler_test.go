package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskline/taskline-api/internal/domain"
	"github.com/taskline/taskline-api/internal/service/auth"
)

// stubVerifier accepts a single known token and maps it to a fixed user.
type stubVerifier struct {
	token string
	user  *domain.User
}

func (v *stubVerifier) Verify(_ context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, auth.ErrMissingToken
	}
	if token != v.token {
		return nil, auth.ErrInvalidToken
	}
	return v.user, nil
}

func newHandlerTestServer(t *testing.T) (*httptest.Server, *Hub, *domain.User) {
	t.Helper()

	user, err := domain.NewUser("ws@example.com", "Socket User", "hashed-secret")
	require.NoError(t, err)

	hub := startHub(t)
	handler := NewHandler(hub, &stubVerifier{token: "good-token", user: user}, nil)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, hub, user
}

func wsURL(srv *httptest.Server, token string) string {
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	if token != "" {
		url += "?token=" + token
	}
	return url
}

func TestHandlerRejectsBadToken(t *testing.T) {
	t.Parallel()

	srv, _, _ := newHandlerTestServer(t)

	tests := []struct {
		name  string
		token string
	}{
		{name: "missing token", token: ""},
		{name: "wrong token", token: "forged"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, tt.token), nil)
			require.Error(t, err)
			if conn != nil {
				_ = conn.Close()
			}
			require.NotNil(t, resp)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestHandlerConnectsAndReceivesEvents(t *testing.T) {
	t.Parallel()

	srv, hub, _ := newHandlerTestServer(t)

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "good-token"), nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	task := makeTask(t, "Live update", nil)
	// The upgrade response races the hub registration; retry briefly so
	// the broadcast lands after the client joined.
	deadline := time.Now().Add(2 * time.Second)
	for {
		hub.mu.RLock()
		joined := len(hub.rooms[RoomTasks]) > 0
		hub.mu.RUnlock()
		if joined || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	hub.TaskCreated(task)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, frame, err := conn.ReadMessage()
	require.NoError(t, err)

	var env struct {
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(frame, &env))
	assert.Equal(t, EventTaskCreated, env.Event)

	var got domain.Task
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, task.ID, got.ID)
	assert.Equal(t, "Live update", got.Title)
}

func TestHandlerNotifiesPrivateRoom(t *testing.T) {
	t.Parallel()

	srv, hub, user := newHandlerTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "good-token"), nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	deadline := time.Now().Add(2 * time.Second)
	for {
		hub.mu.RLock()
		joined := len(hub.rooms[UserRoom(user.ID)]) > 0
		hub.mu.RUnlock()
		if joined || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	task := makeTask(t, "For you", &user.ID)
	hub.TaskUpdated(task, nil)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var events []string
	for range 2 {
		_, frame, err := conn.ReadMessage()
		require.NoError(t, err)
		var env Envelope
		require.NoError(t, json.Unmarshal(frame, &env))
		events = append(events, env.Event)
	}
	assert.Equal(t, []string{EventTaskUpdated, EventTaskAssigned}, events)
}
