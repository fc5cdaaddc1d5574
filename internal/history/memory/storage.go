package memory

import (
	"context"
	"sync"

	"github.com/pairup-dev/pairup/internal/history"
	"github.com/pairup-dev/pairup/internal/model"
)

// recentLimit caps how many completed matches are retained, mirroring the
// LTRIM bound on the redis backend.
const recentLimit = 100

// Storage is an in-memory implementation of the history storage interface
type Storage struct {
	mu sync.RWMutex

	matches map[model.MatchID]*model.MatchRecord
	// recent holds match IDs, most recently started first
	recent []model.MatchID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		matches: make(map[model.MatchID]*model.MatchRecord),
	}
}

// Ensure Storage implements the interface
var _ history.Storage = (*Storage)(nil)

func (s *Storage) SaveMatch(ctx context.Context, rec *model.MatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *rec
	if _, exists := s.matches[rec.ID]; !exists {
		s.recent = append([]model.MatchID{rec.ID}, s.recent...)
	}
	s.matches[rec.ID] = &copied

	// Evict the oldest records past the retention cap
	for len(s.recent) > recentLimit {
		last := len(s.recent) - 1
		delete(s.matches, s.recent[last])
		s.recent = s.recent[:last]
	}
	return nil
}

func (s *Storage) GetMatch(ctx context.Context, id model.MatchID) (*model.MatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.matches[id]
	if !ok {
		return nil, model.ErrMatchNotFound
	}
	copied := *rec
	return &copied, nil
}

func (s *Storage) RecentMatches(ctx context.Context, limit int) ([]*model.MatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit < 0 {
		limit = 0
	}
	if limit > len(s.recent) {
		limit = len(s.recent)
	}
	records := make([]*model.MatchRecord, 0, limit)
	for _, id := range s.recent[:limit] {
		copied := *s.matches[id]
		records = append(records, &copied)
	}
	return records, nil
}
