package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pairup-dev/pairup/internal/match"
	"github.com/pairup-dev/pairup/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Maximum inbound frame size; relay payloads are small
	maxMessageSize = 32 * 1024

	// Buffer size for outgoing messages
	sendBufferSize = 64
)

// Conn wraps one websocket connection with a buffered write pump. The
// engine only ever sees the ConnID; the socket stays owned by this package.
type Conn struct {
	id   model.ConnID
	sock *websocket.Conn
	send chan []byte

	done      chan struct{}
	closeOnce sync.Once
}

func newConn(id model.ConnID, sock *websocket.Conn) *Conn {
	return &Conn{
		id:   id,
		sock: sock,
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
	}
}

// close shuts the socket down exactly once. The read pump unblocks with an
// error, which drives the engine's closed path.
func (c *Conn) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.sock.Close()
	})
}

// readPump feeds inbound frames to the engine until the socket closes
func (c *Conn) readPump(engine *match.Engine) {
	c.sock.SetReadLimit(maxMessageSize)
	for {
		_, data, err := c.sock.ReadMessage()
		if err != nil {
			return
		}
		engine.HandleMessage(c.id, data)
	}
}

// writePump drains the send buffer onto the socket
func (c *Conn) writePump() {
	for {
		select {
		case data := <-c.send:
			_ = c.sock.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.sock.WriteMessage(websocket.TextMessage, data); err != nil {
				c.close()
				return
			}
		case <-c.done:
			return
		}
	}
}
