package history

import (
	"context"

	"github.com/pairup-dev/pairup/internal/model"
)

// Storage defines the interface for persisting completed-match history.
// Only match summaries are stored; queue and live session state never are.
type Storage interface {
	SaveMatch(ctx context.Context, rec *model.MatchRecord) error
	GetMatch(ctx context.Context, id model.MatchID) (*model.MatchRecord, error)
	// RecentMatches returns up to limit records, most recently started first
	RecentMatches(ctx context.Context, limit int) ([]*model.MatchRecord, error)
}
