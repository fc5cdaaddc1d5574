package model

import "time"

// MatchRecord is the persisted summary of one matched session. It is written
// when a pair is formed and completed when the session ends; queue and live
// session state are never persisted.
type MatchRecord struct {
	ID           MatchID   `json:"id"`
	Host         string    `json:"host"`
	Client       string    `json:"client"`
	HostRating   float64   `json:"host_rating"`
	ClientRating float64   `json:"client_rating"`
	RatingGap    float64   `json:"rating_gap"`
	StartedAt    time.Time `json:"started_at"`
	EndedAt      time.Time `json:"ended_at,omitzero"`
	EndReason    string    `json:"end_reason,omitempty"`
}

// Match end reasons
const (
	EndReasonDisconnect = "disconnect"
	EndReasonShutdown   = "shutdown"
)
