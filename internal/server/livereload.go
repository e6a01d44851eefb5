package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// reloadEndpoint is where the injected script connects back, on the
// same host and port as the file server.
const reloadEndpoint = "/__lantern"

// reloadMessage is the single opaque signal clients act on.
const reloadMessage = "reload"

// hub tracks connected live-reload clients and fans reload signals out
// to them. Client messages are drained and discarded; the connection is
// write-only from the server's point of view.
type hub struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	// Pending-signal channel. Capacity 1: a signal arriving while one
	// is already pending collapses into it.
	reload chan struct{}

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func newHub(logger *slog.Logger) *hub {
	return &hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			// Local dev tool: pages served from any bound host may connect.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		reload:  make(chan struct{}, 1),
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// notify queues a reload broadcast. Safe to call from the watcher
// goroutine; never blocks.
func (h *hub) notify() {
	select {
	case h.reload <- struct{}{}:
	default:
	}
}

// run delivers queued reload signals until the context is cancelled.
func (h *hub) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case <-h.reload:
			h.broadcast()
		}
	}
}

// broadcast sends one reload message to every client registered at this
// moment. A failed send closes and removes that client only.
func (h *hub) broadcast() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		if err := c.WriteMessage(websocket.TextMessage, []byte(reloadMessage)); err != nil {
			h.logger.Warn("Live-reload delivery failed", "client", c.RemoteAddr(), "error", err)
			h.remove(c)
		}
	}
}

// handleUpgrade upgrades the connection and registers the client. A
// reader goroutine drains inbound frames and deregisters the client
// when the connection dies; a reconnect is a new client.
func (h *hub) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.logger.Warn("Live-reload upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	go func() {
		defer h.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

func (h *hub) closeAll() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.clients = make(map[*websocket.Conn]struct{})
	h.mu.Unlock()

	for _, c := range conns {
		_ = c.Close()
	}
}

func (h *hub) clientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
