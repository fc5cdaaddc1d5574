package ws_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"github.com/pairup-dev/pairup/internal/dependencies/clock"
	"github.com/pairup-dev/pairup/internal/match"
	"github.com/pairup-dev/pairup/internal/model"
	"github.com/pairup-dev/pairup/internal/testutil"
	"github.com/pairup-dev/pairup/internal/transport/ws"
)

const readTimeout = 5 * time.Second

// WSSuite exercises the full transport path: real websockets feeding a real
// engine through the hub.
type WSSuite struct {
	suite.Suite
	hub    *ws.Hub
	engine *match.Engine
	server *httptest.Server
}

func TestWSSuite(t *testing.T) {
	suite.Run(t, new(WSSuite))
}

func (s *WSSuite) SetupTest() {
	logger := testutil.NopLogger()
	s.hub = ws.NewHub(logger)
	s.engine = match.NewEngine(match.DefaultConfig(), s.hub, nil, clock.New(), logger)
	s.server = httptest.NewServer(ws.NewHandler(s.hub, s.engine, logger))
}

func (s *WSSuite) TearDownTest() {
	s.hub.CloseAll()
	s.server.Close()
}

func (s *WSSuite) dial() *websocket.Conn {
	url := "ws" + strings.TrimPrefix(s.server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	return conn
}

func (s *WSSuite) read(conn *websocket.Conn) model.Outbound {
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(readTimeout)))
	var msg model.Outbound
	s.Require().NoError(conn.ReadJSON(&msg))
	return msg
}

func (s *WSSuite) join(conn *websocket.Conn, id string, rating float64) {
	s.Require().NoError(conn.WriteJSON(map[string]any{
		"kind":   "join_queue",
		"id":     id,
		"rating": rating,
	}))
}

func (s *WSSuite) TestMatchAndRelayOverWebsocket() {
	c1 := s.dial()
	defer c1.Close()
	c2 := s.dial()
	defer c2.Close()

	s.join(c1, "alice", 1000)
	s.join(c2, "bob", 1100)

	start1 := s.read(c1)
	s.Equal(model.KindMatchStart, start1.Kind)
	s.Equal(model.RoleHost, start1.Role)
	s.Equal("bob", start1.Opponent)

	start2 := s.read(c2)
	s.Equal(model.KindMatchStart, start2.Kind)
	s.Equal(model.RoleClient, start2.Role)
	s.Equal("alice", start2.Opponent)

	s.Require().NoError(c1.WriteJSON(map[string]any{"kind": "chat", "text": "gl hf"}))
	chat := s.read(c2)
	s.Equal(model.KindChat, chat.Kind)
	s.Equal("alice", chat.From)
	s.Equal("gl hf", chat.Text)
}

func (s *WSSuite) TestDisconnectNotifiesOpponent() {
	c1 := s.dial()
	defer c1.Close()
	c2 := s.dial()

	s.join(c1, "alice", 1000)
	s.join(c2, "bob", 1100)
	s.read(c1)
	s.read(c2)

	s.Require().NoError(c2.Close())

	gone := s.read(c1)
	s.Equal(model.KindOpponentDisconnected, gone.Kind)
	s.Equal("bob", gone.Opponent)
}

func (s *WSSuite) TestValidationErrorKeepsConnectionOpen() {
	c1 := s.dial()
	defer c1.Close()

	s.Require().NoError(c1.WriteMessage(websocket.TextMessage, []byte(`{{{`)))
	errMsg := s.read(c1)
	s.Equal(model.KindError, errMsg.Kind)
	s.Equal("INVALID_MESSAGE", errMsg.Code)

	// The connection is still usable afterwards
	s.join(c1, "alice", 1000)
	s.Require().NoError(c1.WriteJSON(map[string]any{"kind": "ping", "t": 42}))
	pong := s.read(c1)
	s.Equal(model.KindPong, pong.Kind)
	s.Equal(int64(42), pong.T)
}

func (s *WSSuite) TestTerminateClosesClient() {
	c1 := s.dial()
	defer c1.Close()

	s.join(c1, "alice", 1000)

	// Give the handler a moment to register, then find and terminate the
	// connection via the engine's eviction path.
	s.Require().Eventually(func() bool {
		return s.engine.Stats().Waiting == 1
	}, readTimeout, 10*time.Millisecond)

	s.engine.HandleTick()
	ping := s.read(c1)
	s.Equal(model.KindPing, ping.Kind)

	s.engine.HandleTick() // no pong: evicted

	s.Require().NoError(c1.SetReadDeadline(time.Now().Add(readTimeout)))
	var msg model.Outbound
	err := c1.ReadJSON(&msg)
	s.Error(err)

	s.Require().Eventually(func() bool {
		return s.engine.Stats().Waiting == 0
	}, readTimeout, 10*time.Millisecond)
}
