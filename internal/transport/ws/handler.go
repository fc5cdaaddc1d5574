package ws

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/pairup-dev/pairup/internal/match"
	"github.com/pairup-dev/pairup/internal/model"
)

// Handler upgrades HTTP requests to websocket connections and runs their
// read/write pumps. Clients are anonymous, so all origins are accepted.
type Handler struct {
	hub      *Hub
	engine   *match.Engine
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a websocket handler backed by the given hub and engine
func NewHandler(hub *Hub, engine *match.Engine, logger *slog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		engine: engine,
		logger: logger.With(slog.String("component", "ws")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sock, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	id := model.ConnID(uuid.NewString())
	c := newConn(id, sock)
	h.hub.add(c)
	h.engine.HandleOpened(id)
	h.logger.Info("connection opened",
		slog.String("conn", string(id)),
		slog.String("remote", r.RemoteAddr))

	go c.writePump()
	c.readPump(h.engine)

	h.hub.remove(id)
	c.close()
	h.engine.HandleClosed(id)
	h.logger.Info("connection closed", slog.String("conn", string(id)))
}
