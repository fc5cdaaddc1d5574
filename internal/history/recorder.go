package history

import (
	"context"
	"log/slog"
	"time"

	"github.com/pairup-dev/pairup/internal/match"
	"github.com/pairup-dev/pairup/internal/model"
)

const (
	opBufferSize = 256
	opTimeout    = 5 * time.Second
)

// Recorder asynchronously persists match lifecycle events. The engine calls
// MatchStarted/MatchEnded from its serialized event path, so writes are
// queued to a buffered channel and applied by a single goroutine; a full
// buffer drops the record rather than stalling matchmaking.
type Recorder struct {
	storage Storage
	logger  *slog.Logger
	ops     chan func(ctx context.Context)
	done    chan struct{}
}

// Ensure Recorder satisfies the engine's reporting interface
var _ match.Reporter = (*Recorder)(nil)

// NewRecorder creates a Recorder and starts its worker goroutine
func NewRecorder(storage Storage, logger *slog.Logger) *Recorder {
	r := &Recorder{
		storage: storage,
		logger:  logger.With(slog.String("component", "history")),
		ops:     make(chan func(ctx context.Context), opBufferSize),
		done:    make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *Recorder) run() {
	defer close(r.done)
	for op := range r.ops {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		op(ctx)
		cancel()
	}
}

func (r *Recorder) enqueue(op func(ctx context.Context)) {
	select {
	case r.ops <- op:
	default:
		r.logger.Warn("history buffer full, dropping record")
	}
}

// MatchStarted records a newly formed pair
func (r *Recorder) MatchStarted(rec model.MatchRecord) {
	r.enqueue(func(ctx context.Context) {
		if err := r.storage.SaveMatch(ctx, &rec); err != nil {
			r.logger.Error("failed to save match record",
				slog.String("match", string(rec.ID)),
				slog.String("error", err.Error()))
		}
	})
}

// MatchEnded completes a previously recorded match
func (r *Recorder) MatchEnded(id model.MatchID, endedAt time.Time, reason string) {
	r.enqueue(func(ctx context.Context) {
		rec, err := r.storage.GetMatch(ctx, id)
		if err != nil {
			r.logger.Error("failed to load match record for completion",
				slog.String("match", string(id)),
				slog.String("error", err.Error()))
			return
		}
		rec.EndedAt = endedAt
		rec.EndReason = reason
		if err := r.storage.SaveMatch(ctx, rec); err != nil {
			r.logger.Error("failed to complete match record",
				slog.String("match", string(id)),
				slog.String("error", err.Error()))
		}
	})
}

// Recent returns up to limit match records, most recent first
func (r *Recorder) Recent(ctx context.Context, limit int) ([]*model.MatchRecord, error) {
	return r.storage.RecentMatches(ctx, limit)
}

// Close flushes pending writes and stops the worker
func (r *Recorder) Close() {
	close(r.ops)
	<-r.done
}
