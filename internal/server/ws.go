package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/handgame/internal/game"
)

const (
	broadcastInterval = 100 * time.Millisecond
	writeTimeout      = time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// StateHandler pushes game snapshots to WebSocket clients whenever they change.
type StateHandler struct {
	game    Game
	logger  *slog.Logger
	clients map[*websocket.Conn]bool
	mu      sync.Mutex
}

// NewStateHandler creates a StateHandler. Snapshots are only pushed while Run is active.
func NewStateHandler(g Game, logger *slog.Logger) *StateHandler {
	return &StateHandler{
		game:    g,
		logger:  logger,
		clients: make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP upgrades the request, sends the current snapshot and then keeps
// the client registered until it disconnects.
func (h *StateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade", "error", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	err = writeSnapshot(conn, h.game.Snapshot())
	if err == nil {
		h.clients[conn] = true
	}
	h.mu.Unlock()
	if err != nil {
		return
	}

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Run polls the game and broadcasts each new snapshot until ctx is done.
func (h *StateHandler) Run(ctx context.Context) {
	ticker := time.NewTicker(broadcastInterval)
	defer ticker.Stop()

	last := h.game.Snapshot()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		snap := h.game.Snapshot()
		if snap == last {
			continue
		}
		last = snap
		h.broadcast(snap)
	}
}

func (h *StateHandler) broadcast(snap game.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := writeSnapshot(conn, snap); err != nil {
			h.logger.Debug("drop websocket client", "error", err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

func writeSnapshot(conn *websocket.Conn, snap game.Snapshot) error {
	msg, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, msg)
}
