package realtime

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/taskline/taskline-api/internal/service/auth"
)

// Handler upgrades HTTP requests to websocket connections after
// authenticating the handshake credential.
type Handler struct {
	hub      *Hub
	verifier auth.CredentialVerifier
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a websocket connection handler bound to the hub.
func NewHandler(hub *Hub, verifier auth.CredentialVerifier, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		hub:      hub,
		verifier: verifier,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The credential in the handshake is the authentication
			// boundary; origin policy is delegated to the deployment.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger.With(slog.String("component", "realtime_handler")),
	}
}

// ServeHTTP handles GET /ws. The credential token travels in the `token`
// query parameter of the handshake. Verification failures reject the
// request before the upgrade, so an unauthenticated connection never joins
// a room.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	user, err := h.verifier.Verify(r.Context(), token)
	if err != nil {
		h.logger.Debug("realtime authentication failed", "error", err)
		http.Error(w, "Authentication error", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		h.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	c := newClient(user.ID, conn)
	h.hub.add(c)

	go c.writePump(h.logger)
	c.readPump()

	h.hub.remove(c)
	_ = conn.Close()
}
