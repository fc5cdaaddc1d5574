package match

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pairup-dev/pairup/internal/dependencies/clock"
	"github.com/pairup-dev/pairup/internal/model"
)

// Sender is the engine's only view of the transport layer. Send is
// best-effort and must never block; a Send error means the connection is
// dead and the engine tears it down. Terminate forces the transport to
// close a connection; the transport reports the closure back through
// HandleClosed, which is idempotent.
type Sender interface {
	Send(conn model.ConnID, msg model.Outbound) error
	Terminate(conn model.ConnID)
}

// Reporter receives match lifecycle notifications. Implementations must not
// block; the engine calls these from its serialized event path.
type Reporter interface {
	MatchStarted(rec model.MatchRecord)
	MatchEnded(id model.MatchID, endedAt time.Time, reason string)
}

// Engine is the matchmaking core: the waiting queue, the session registry
// and the liveness monitor. All state is guarded by a single mutex so that
// admission, pairing, relay and teardown are each atomic with respect to
// each other; no handler blocks while holding it.
type Engine struct {
	cfg      Config
	sender   Sender
	reporter Reporter // optional
	clock    clock.Clock
	logger   *slog.Logger

	mu      sync.Mutex
	players map[model.ConnID]*model.Player
	queue   []model.ConnID
	probes  map[model.ConnID]probeState
}

// NewEngine creates a matchmaking engine. reporter may be nil if match
// history is not being recorded.
func NewEngine(cfg Config, sender Sender, reporter Reporter, clk clock.Clock, logger *slog.Logger) *Engine {
	return &Engine{
		cfg:      cfg,
		sender:   sender,
		reporter: reporter,
		clock:    clk,
		logger:   logger.With(slog.String("component", "match")),
		players:  make(map[model.ConnID]*model.Player),
		queue:    make([]model.ConnID, 0),
		probes:   make(map[model.ConnID]probeState),
	}
}

// Run drives the liveness monitor until ctx is cancelled. Ticks acquire the
// same lock as message handling, so probing never interleaves with pairing
// or relay.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.cfg.ProbeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.HandleTick()
		}
	}
}

// HandleOpened registers a new connection with the liveness monitor. The
// connection has no Player until it joins the queue.
func (e *Engine) HandleOpened(conn model.ConnID) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.probes[conn] = stateAlive
	e.logger.Debug("connection opened", slog.String("conn", string(conn)))
}

// HandleClosed tears down all state for a closed connection: removal from
// the waiting queue if unmatched, or session teardown if paired. Safe to
// call for unknown connections.
func (e *Engine) HandleClosed(conn model.ConnID) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.closeLocked(conn, model.EndReasonDisconnect)
}

// Shutdown ends every active session, recording shutdown as the end reason.
// Called once during graceful process shutdown.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	seen := make(map[model.MatchID]bool)
	for _, p := range e.players {
		if p.Paired() && !seen[p.Match] {
			seen[p.Match] = true
			if e.reporter != nil {
				e.reporter.MatchEnded(p.Match, now, model.EndReasonShutdown)
			}
		}
	}
	e.players = make(map[model.ConnID]*model.Player)
	e.queue = e.queue[:0]
	e.probes = make(map[model.ConnID]probeState)
}

// Stats is a point-in-time snapshot of engine state
type Stats struct {
	Connections    int `json:"connections"`
	Waiting        int `json:"waiting"`
	ActiveSessions int `json:"active_sessions"`
}

// Stats returns a snapshot of current engine state
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	paired := 0
	for _, p := range e.players {
		if p.Paired() {
			paired++
		}
	}
	return Stats{
		Connections:    len(e.probes),
		Waiting:        len(e.queue),
		ActiveSessions: paired / 2,
	}
}

// closeLocked removes all state for conn. The opponent's back-reference is
// cleared and it is notified, but it is not re-queued; it must issue a fresh
// join request.
func (e *Engine) closeLocked(conn model.ConnID, reason string) {
	delete(e.probes, conn)

	p, ok := e.players[conn]
	if !ok {
		return
	}
	delete(e.players, conn)
	e.removeFromQueue(conn)

	if !p.Paired() {
		e.logger.Info("player removed",
			slog.String("player", p.ID),
			slog.Int("waiting", len(e.queue)))
		return
	}

	match := p.Match
	if opp, live := e.players[p.Opponent]; live && opp.Opponent == conn {
		// Clear before notifying so a failed send cannot re-enter this
		// session's teardown.
		opp.Opponent = ""
		opp.Match = ""
		e.send(opp.Conn, model.OpponentDisconnected(p.ID))
	}
	if e.reporter != nil {
		e.reporter.MatchEnded(match, e.clock.Now(), reason)
	}
	e.logger.Info("session ended",
		slog.String("match", string(match)),
		slog.String("player", p.ID),
		slog.String("reason", reason))
}

// send delivers a message best-effort. A failed send means the transport
// considers the connection dead, so it is torn down as if it had closed.
func (e *Engine) send(conn model.ConnID, msg model.Outbound) {
	if err := e.sender.Send(conn, msg); err != nil {
		e.logger.Warn("send failed, dropping connection",
			slog.String("conn", string(conn)),
			slog.String("error", err.Error()))
		e.sender.Terminate(conn)
		e.closeLocked(conn, model.EndReasonDisconnect)
	}
}

// reject reports a failed operation back to the sender as an error
// notification. The wire code is derived from the sentinel in err's chain.
func (e *Engine) reject(conn model.ConnID, err error) {
	e.send(conn, model.ErrorNotification(errorCode(err), err.Error()))
}
