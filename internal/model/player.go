package model

import "time"

// ConnID identifies a transport connection. The matchmaking engine never
// touches sockets directly; it addresses peers by ConnID through the
// transport's send callback.
type ConnID string

// MatchID uniquely identifies a matched session
type MatchID string

// Role is the role assigned to each side of a match
type Role string

const (
	RoleHost   Role = "host"
	RoleClient Role = "client"
)

// Player represents one participant tracked by the engine, either waiting
// in the queue or paired into a session.
type Player struct {
	Conn     ConnID
	ID       string
	Rating   float64
	JoinedAt time.Time

	// Opponent is the ConnID of the paired peer, or empty while waiting.
	// Both sides of a pair always reference each other; the engine's player
	// map is the single owner of both records.
	Opponent ConnID

	// Match is the session identifier, set only while paired
	Match MatchID
}

// Paired reports whether the player is currently in a session
func (p *Player) Paired() bool {
	return p.Opponent != ""
}
