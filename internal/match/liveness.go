package match

import (
	"log/slog"

	"github.com/pairup-dev/pairup/internal/model"
)

// probeState tracks the two-phase liveness cycle for a connection
type probeState int

const (
	stateAlive probeState = iota
	stateAwaitingPong
)

// HandleTick runs one liveness pass. Connections that never answered the
// previous tick's probe are terminated; everything else is probed and marked
// awaiting. A connection therefore survives one missed response and is
// evicted within two intervals at most.
func (e *Engine) HandleTick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	conns := make([]model.ConnID, 0, len(e.probes))
	for conn := range e.probes {
		conns = append(conns, conn)
	}

	now := e.clock.Now()
	for _, conn := range conns {
		state, ok := e.probes[conn]
		if !ok {
			// Torn down earlier in this same pass by a failed send.
			continue
		}
		if state == stateAwaitingPong {
			e.logger.Info("probe timeout, terminating connection",
				slog.String("conn", string(conn)))
			e.sender.Terminate(conn)
			e.closeLocked(conn, model.EndReasonDisconnect)
			continue
		}
		e.probes[conn] = stateAwaitingPong
		e.send(conn, model.Outbound{Kind: model.KindPing, T: now.UnixMilli()})
	}
}

// handlePong marks a probed connection alive again
func (e *Engine) handlePong(conn model.ConnID) {
	if _, ok := e.probes[conn]; ok {
		e.probes[conn] = stateAlive
	}
}
