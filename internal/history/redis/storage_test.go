package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/pairup-dev/pairup/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.MatchTTL = time.Hour
	cfg.RecentLimit = 3

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) record(id string) *model.MatchRecord {
	return &model.MatchRecord{
		ID:           model.MatchID(id),
		Host:         "alice",
		Client:       "bob",
		HostRating:   1000,
		ClientRating: 1100,
		RatingGap:    100,
		StartedAt:    time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *StorageSuite) TestSaveAndGetMatch() {
	rec := s.record("m1")
	s.Require().NoError(s.storage.SaveMatch(s.ctx, rec))

	got, err := s.storage.GetMatch(s.ctx, "m1")
	s.Require().NoError(err)
	s.Equal(rec, got)
}

func (s *StorageSuite) TestSaveAppliesTTL() {
	s.Require().NoError(s.storage.SaveMatch(s.ctx, s.record("m1")))

	ttl := s.mini.TTL(matchKey("m1"))
	s.Equal(time.Hour, ttl)
}

func (s *StorageSuite) TestGetMissingMatch() {
	_, err := s.storage.GetMatch(s.ctx, "nope")
	s.ErrorIs(err, model.ErrMatchNotFound)
}

func (s *StorageSuite) TestCompletionUpdateKeepsSingleIndexEntry() {
	rec := s.record("m1")
	s.Require().NoError(s.storage.SaveMatch(s.ctx, rec))

	rec.EndedAt = rec.StartedAt.Add(time.Minute)
	rec.EndReason = model.EndReasonDisconnect
	s.Require().NoError(s.storage.SaveMatch(s.ctx, rec))

	recent, err := s.storage.RecentMatches(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(recent, 1)
	s.Equal(model.EndReasonDisconnect, recent[0].EndReason)
}

func (s *StorageSuite) TestRecentIndexIsTrimmed() {
	for _, id := range []string{"m1", "m2", "m3", "m4", "m5"} {
		s.Require().NoError(s.storage.SaveMatch(s.ctx, s.record(id)))
	}

	recent, err := s.storage.RecentMatches(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(recent, 3)
	s.Equal(model.MatchID("m5"), recent[0].ID)
	s.Equal(model.MatchID("m4"), recent[1].ID)
	s.Equal(model.MatchID("m3"), recent[2].ID)
}

func (s *StorageSuite) TestExpiredRecordSkippedInRecent() {
	s.Require().NoError(s.storage.SaveMatch(s.ctx, s.record("m1")))
	s.Require().NoError(s.storage.SaveMatch(s.ctx, s.record("m2")))

	s.mini.FastForward(2 * time.Hour)

	recent, err := s.storage.RecentMatches(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(recent)
}
