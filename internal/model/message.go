package model

import "encoding/json"

// Kind discriminates message types on the wire
type Kind string

// Inbound message kinds
const (
	KindJoinQueue    Kind = "join_queue"
	KindOffer        Kind = "offer"
	KindAnswer       Kind = "answer"
	KindICE          Kind = "ice"
	KindChat         Kind = "chat"
	KindGameUpdate   Kind = "game_update"
	KindPing         Kind = "ping"
	KindPingOpponent Kind = "ping_opponent"
	KindPong         Kind = "pong"
)

// Outbound message kinds
const (
	KindMatchStart           Kind = "match_start"
	KindOpponentDisconnected Kind = "opponent_disconnected"
	KindError                Kind = "error"
)

// Envelope is the parsed form of an inbound client message. Fields beyond
// Kind are populated depending on the kind; relayed payloads stay raw so the
// engine never interprets them.
type Envelope struct {
	Kind Kind `json:"kind"`

	// join_queue
	ID     string   `json:"id,omitempty"`
	Rating *float64 `json:"rating,omitempty"`

	// signaling (offer/answer/ice)
	SDP       string          `json:"sdp,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`

	// chat
	Text *string `json:"text,omitempty"`

	// game_update
	Payload json.RawMessage `json:"payload,omitempty"`

	// latency probes
	T int64 `json:"t,omitempty"`
}

// Outbound is a message sent from the server to a client. A single struct
// with omitempty keeps the wire format flat; constructors below populate the
// fields each kind carries.
type Outbound struct {
	Kind Kind `json:"kind"`

	// match_start
	Role           Role    `json:"role,omitempty"`
	Opponent       string  `json:"opponent,omitempty"`
	OpponentRating float64 `json:"opponent_rating,omitempty"`
	Match          MatchID `json:"match,omitempty"`

	// relayed messages
	From      string          `json:"from,omitempty"`
	Text      string          `json:"text,omitempty"`
	SDP       string          `json:"sdp,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	T         int64           `json:"t,omitempty"`

	// error notifications
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// MatchStart builds the match_start notification for one side of a new pair
func MatchStart(role Role, opponent string, opponentRating float64, match MatchID) Outbound {
	return Outbound{
		Kind:           KindMatchStart,
		Role:           role,
		Opponent:       opponent,
		OpponentRating: opponentRating,
		Match:          match,
	}
}

// OpponentDisconnected notifies the surviving side that its session ended
func OpponentDisconnected(opponent string) Outbound {
	return Outbound{
		Kind:     KindOpponentDisconnected,
		Opponent: opponent,
	}
}

// ErrorNotification builds an error message for the offending sender
func ErrorNotification(code, message string) Outbound {
	return Outbound{
		Kind:    KindError,
		Code:    code,
		Message: message,
	}
}
