package ws

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pairup-dev/pairup/internal/match"
	"github.com/pairup-dev/pairup/internal/model"
)

// Hub tracks open websocket connections by ConnID and implements the
// engine's Sender interface on top of them.
type Hub struct {
	mu     sync.RWMutex
	conns  map[model.ConnID]*Conn
	logger *slog.Logger
}

// Ensure Hub satisfies the engine's transport interface
var _ match.Sender = (*Hub)(nil)

// NewHub creates a new Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		conns:  make(map[model.ConnID]*Conn),
		logger: logger.With(slog.String("component", "ws")),
	}
}

// Send marshals and queues a message for a connection. Unknown connections
// are silently ignored (best-effort send to a closed peer); a full send
// buffer means the peer has stalled and is reported as an error so the
// engine tears the connection down.
func (h *Hub) Send(id model.ConnID, msg model.Outbound) error {
	h.mu.RLock()
	c := h.conns[id]
	h.mu.RUnlock()
	if c == nil {
		return nil
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal outbound message: %w", err)
	}

	select {
	case c.send <- data:
		return nil
	default:
		return fmt.Errorf("send buffer full for connection %s", id)
	}
}

// Terminate forces a connection closed. The read pump notices and reports
// the closure back to the engine.
func (h *Hub) Terminate(id model.ConnID) {
	h.mu.RLock()
	c := h.conns[id]
	h.mu.RUnlock()
	if c != nil {
		c.close()
	}
}

// Count returns the number of open connections
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// CloseAll force-closes every connection, used during shutdown
func (h *Hub) CloseAll() {
	h.mu.Lock()
	conns := make([]*Conn, 0, len(h.conns))
	for _, c := range h.conns {
		conns = append(conns, c)
	}
	h.conns = make(map[model.ConnID]*Conn)
	h.mu.Unlock()

	for _, c := range conns {
		c.close()
	}
}

func (h *Hub) add(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c.id] = c
}

func (h *Hub) remove(id model.ConnID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, id)
}
