package match

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/pairup-dev/pairup/internal/model"
)

// admit validates a join_queue request and, on success, appends the player
// to the waiting queue and runs a pairing pass. Validation failures are
// reported to the sender and leave the queue untouched.
func (e *Engine) admit(conn model.ConnID, env model.Envelope) {
	if old, exists := e.players[conn]; exists {
		// One join per connection while queued or paired. A survivor whose
		// session ended keeps a stale unpaired record; a fresh join
		// replaces it.
		if old.Paired() || e.queued(conn) {
			e.reject(conn, model.ErrDuplicateJoin)
			return
		}
	}
	if env.ID == "" {
		e.reject(conn, fmt.Errorf("join_queue: %w", model.ErrMissingID))
		return
	}
	if env.Rating == nil || math.IsNaN(*env.Rating) || math.IsInf(*env.Rating, 0) {
		e.reject(conn, fmt.Errorf("join_queue: %w", model.ErrInvalidRating))
		return
	}

	p := &model.Player{
		Conn:     conn,
		ID:       env.ID,
		Rating:   *env.Rating,
		JoinedAt: e.clock.Now(),
	}
	e.players[conn] = p
	e.queue = append(e.queue, conn)

	e.logger.Info("player queued",
		slog.String("player", p.ID),
		slog.Float64("rating", p.Rating),
		slog.Int("waiting", len(e.queue)))

	e.pairPass()
}

// pairPass attempts to match exactly one pair. The queue is stable-sorted
// by rating (ties keep arrival order) and adjacent pairs are scanned in
// order; the first pair within the current tolerance is matched. Greedy
// rather than globally optimal, which is fine at queue sizes of tens.
func (e *Engine) pairPass() {
	if len(e.queue) < 2 {
		return
	}

	sorted := make([]*model.Player, 0, len(e.queue))
	for _, conn := range e.queue {
		sorted = append(sorted, e.players[conn])
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rating < sorted[j].Rating
	})

	now := e.clock.Now()
	for i := 0; i+1 < len(sorted); i++ {
		a, b := sorted[i], sorted[i+1]

		combinedWait := now.Sub(a.JoinedAt).Seconds() + now.Sub(b.JoinedAt).Seconds()
		tolerance := combinedWait * e.cfg.ToleranceGrowthPerSecond
		if tolerance > e.cfg.ToleranceCap {
			tolerance = e.cfg.ToleranceCap
		}
		allowed := e.cfg.BaseToleranceDiff + tolerance

		if b.Rating-a.Rating <= allowed {
			// One pair per pass; the rest wait for the next admission.
			e.startMatch(a, b)
			return
		}
	}
}

// startMatch pairs two players. The lower-sorted member becomes the host;
// the convention is fixed and consumed by downstream session logic.
func (e *Engine) startMatch(host, client *model.Player) {
	e.removeFromQueue(host.Conn)
	e.removeFromQueue(client.Conn)

	id := model.MatchID(uuid.NewString())
	host.Opponent, client.Opponent = client.Conn, host.Conn
	host.Match, client.Match = id, id

	if e.reporter != nil {
		e.reporter.MatchStarted(model.MatchRecord{
			ID:           id,
			Host:         host.ID,
			Client:       client.ID,
			HostRating:   host.Rating,
			ClientRating: client.Rating,
			RatingGap:    math.Abs(host.Rating - client.Rating),
			StartedAt:    e.clock.Now(),
		})
	}

	e.logger.Info("match started",
		slog.String("match", string(id)),
		slog.String("host", host.ID),
		slog.String("client", client.ID),
		slog.Float64("rating_gap", math.Abs(host.Rating-client.Rating)))

	// Either send can fail and tear the whole session down, which notifies
	// the other side with opponent_disconnected. Re-check the pairing before
	// the second send so the client is never told a dead session started.
	e.send(host.Conn, model.MatchStart(model.RoleHost, client.ID, client.Rating, id))
	if !host.Paired() || !client.Paired() {
		return
	}
	e.send(client.Conn, model.MatchStart(model.RoleClient, host.ID, host.Rating, id))
}

func (e *Engine) queued(conn model.ConnID) bool {
	for _, c := range e.queue {
		if c == conn {
			return true
		}
	}
	return false
}

func (e *Engine) removeFromQueue(conn model.ConnID) {
	for i, c := range e.queue {
		if c == conn {
			e.queue = append(e.queue[:i], e.queue[i+1:]...)
			return
		}
	}
}
