package history_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/pairup-dev/pairup/internal/history"
	"github.com/pairup-dev/pairup/internal/history/memory"
	"github.com/pairup-dev/pairup/internal/model"
	"github.com/pairup-dev/pairup/internal/testutil"
)

type RecorderSuite struct {
	suite.Suite
	storage  *memory.Storage
	recorder *history.Recorder
	ctx      context.Context
}

func TestRecorderSuite(t *testing.T) {
	suite.Run(t, new(RecorderSuite))
}

func (s *RecorderSuite) SetupTest() {
	s.storage = memory.New()
	s.recorder = history.NewRecorder(s.storage, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *RecorderSuite) record(id string) model.MatchRecord {
	return model.MatchRecord{
		ID:           model.MatchID(id),
		Host:         "alice",
		Client:       "bob",
		HostRating:   1000,
		ClientRating: 1100,
		RatingGap:    100,
		StartedAt:    time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *RecorderSuite) TestMatchStartedPersisted() {
	s.recorder.MatchStarted(s.record("m1"))
	s.recorder.Close()

	got, err := s.storage.GetMatch(s.ctx, "m1")
	s.Require().NoError(err)
	s.Equal("alice", got.Host)
	s.True(got.EndedAt.IsZero())
}

func (s *RecorderSuite) TestMatchEndedCompletesRecord() {
	rec := s.record("m1")
	endedAt := rec.StartedAt.Add(2 * time.Minute)

	s.recorder.MatchStarted(rec)
	s.recorder.MatchEnded("m1", endedAt, model.EndReasonDisconnect)
	s.recorder.Close()

	got, err := s.storage.GetMatch(s.ctx, "m1")
	s.Require().NoError(err)
	s.Equal(endedAt, got.EndedAt)
	s.Equal(model.EndReasonDisconnect, got.EndReason)
}

func (s *RecorderSuite) TestMatchEndedForUnknownMatchIsNonFatal() {
	s.recorder.MatchEnded("ghost", time.Now(), model.EndReasonDisconnect)
	s.recorder.MatchStarted(s.record("m1"))
	s.recorder.Close()

	_, err := s.storage.GetMatch(s.ctx, "m1")
	s.NoError(err)
}

func (s *RecorderSuite) TestRecentReadsThrough() {
	s.recorder.MatchStarted(s.record("m1"))
	s.recorder.MatchStarted(s.record("m2"))
	s.recorder.Close()

	recent, err := s.recorder.Recent(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(recent, 2)
	s.Equal(model.MatchID("m2"), recent[0].ID)
}
