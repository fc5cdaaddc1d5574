package match

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pairup-dev/pairup/internal/model"
)

// Error codes carried on error notifications
const (
	CodeDuplicateJoin  = "DUPLICATE_JOIN"
	CodeMissingID      = "MISSING_ID"
	CodeInvalidRating  = "INVALID_RATING"
	CodeInvalidMessage = "INVALID_MESSAGE"
	CodeUnknownKind    = "UNKNOWN_KIND"
	CodeNoOpponent     = "NO_OPPONENT"
)

// errorCode maps a model sentinel anywhere in err's chain to its wire code.
// Anything unrecognized is reported as a malformed message.
func errorCode(err error) string {
	switch {
	case errors.Is(err, model.ErrDuplicateJoin):
		return CodeDuplicateJoin
	case errors.Is(err, model.ErrMissingID):
		return CodeMissingID
	case errors.Is(err, model.ErrInvalidRating):
		return CodeInvalidRating
	case errors.Is(err, model.ErrUnknownKind):
		return CodeUnknownKind
	case errors.Is(err, model.ErrNoOpponent):
		return CodeNoOpponent
	default:
		return CodeInvalidMessage
	}
}

// HandleMessage dispatches one inbound message. Malformed input yields an
// error notification to the sender, never a crash; relayed payloads are
// opaque to the engine.
func (e *Engine) HandleMessage(conn model.ConnID, raw []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var env model.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		e.reject(conn, fmt.Errorf("%w: not a JSON object with a kind field", model.ErrInvalidMessage))
		return
	}

	switch env.Kind {
	case model.KindJoinQueue:
		e.admit(conn, env)
	case model.KindPong:
		e.handlePong(conn)
	case model.KindPing:
		// Direct latency probe: echo back with the original timestamp.
		e.send(conn, model.Outbound{Kind: model.KindPong, T: env.T})
	case model.KindOffer, model.KindAnswer, model.KindICE:
		e.relaySignal(conn, env)
	case model.KindChat:
		e.relayChat(conn, env)
	case model.KindGameUpdate:
		e.relayGameUpdate(conn, env)
	case model.KindPingOpponent:
		e.relayPing(conn, env)
	default:
		e.reject(conn, fmt.Errorf("%w %q", model.ErrUnknownKind, env.Kind))
	}
}

// pair resolves the sender and its live opponent for a relay-class message.
// Returns nils after notifying the sender if it has no opponent to forward to.
func (e *Engine) pair(conn model.ConnID, kind model.Kind) (sender, opponent *model.Player) {
	p, ok := e.players[conn]
	if !ok || !p.Paired() {
		e.reject(conn, fmt.Errorf("cannot forward %s: %w", kind, model.ErrNoOpponent))
		return nil, nil
	}
	opp, ok := e.players[p.Opponent]
	if !ok {
		e.reject(conn, fmt.Errorf("cannot forward %s: %w", kind, model.ErrNoOpponent))
		return nil, nil
	}
	return p, opp
}

// relaySignal forwards a signaling message (offer/answer/ice), passing only
// the allow-listed fields through.
func (e *Engine) relaySignal(conn model.ConnID, env model.Envelope) {
	p, opp := e.pair(conn, env.Kind)
	if p == nil {
		return
	}
	e.send(opp.Conn, model.Outbound{
		Kind:      env.Kind,
		From:      p.ID,
		SDP:       env.SDP,
		Candidate: env.Candidate,
	})
}

func (e *Engine) relayChat(conn model.ConnID, env model.Envelope) {
	if env.Text == nil || *env.Text == "" {
		e.reject(conn, fmt.Errorf("%w: chat requires a non-empty text field", model.ErrInvalidMessage))
		return
	}
	p, opp := e.pair(conn, model.KindChat)
	if p == nil {
		return
	}
	e.send(opp.Conn, model.Outbound{
		Kind: model.KindChat,
		From: p.ID,
		Text: *env.Text,
	})
}

// relayGameUpdate forwards an opaque game-state payload to the opponent
func (e *Engine) relayGameUpdate(conn model.ConnID, env model.Envelope) {
	p, opp := e.pair(conn, model.KindGameUpdate)
	if p == nil {
		return
	}
	e.send(opp.Conn, model.Outbound{
		Kind:    model.KindGameUpdate,
		From:    p.ID,
		Payload: env.Payload,
	})
}

// relayPing forwards a latency probe to the opponent tagged with the sender
func (e *Engine) relayPing(conn model.ConnID, env model.Envelope) {
	p, opp := e.pair(conn, model.KindPingOpponent)
	if p == nil {
		return
	}
	e.send(opp.Conn, model.Outbound{
		Kind: model.KindPingOpponent,
		From: p.ID,
		T:    env.T,
	})
}
