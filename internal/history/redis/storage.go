package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pairup-dev/pairup/internal/history"
	"github.com/pairup-dev/pairup/internal/model"
)

// Storage is a Redis-backed implementation of the history storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ history.Storage = (*Storage)(nil)

func (s *Storage) SaveMatch(ctx context.Context, rec *model.MatchRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	key := matchKey(rec.ID)

	// Index only on first save so completion updates don't duplicate the entry
	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, key, data, s.cfg.MatchTTL)
	if exists == 0 {
		pipe.LPush(ctx, recentIndexKey(), string(rec.ID))
		pipe.LTrim(ctx, recentIndexKey(), 0, int64(s.cfg.RecentLimit-1))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetMatch(ctx context.Context, id model.MatchID) (*model.MatchRecord, error) {
	data, err := s.client.Get(ctx, matchKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, model.ErrMatchNotFound
	}
	if err != nil {
		return nil, err
	}

	var rec model.MatchRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Storage) RecentMatches(ctx context.Context, limit int) ([]*model.MatchRecord, error) {
	ids, err := s.client.LRange(ctx, recentIndexKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	records := make([]*model.MatchRecord, 0, len(ids))
	for _, id := range ids {
		rec, err := s.GetMatch(ctx, model.MatchID(id))
		if errors.Is(err, model.ErrMatchNotFound) {
			// Record expired out from under the index
			continue
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
