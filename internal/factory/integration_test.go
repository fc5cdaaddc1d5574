package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pairup-dev/pairup/internal/match"
	"github.com/pairup-dev/pairup/internal/model"
)

func TestWiredEngineRecordsMatches(t *testing.T) {
	app, err := New(Config{Match: match.DefaultConfig()})
	require.NoError(t, err)

	// No websocket clients are attached, so sends are silently dropped;
	// the pairing and history paths still run end to end.
	app.Engine.HandleOpened("c1")
	app.Engine.HandleMessage("c1", []byte(`{"kind":"join_queue","id":"alice","rating":1000}`))
	app.Engine.HandleOpened("c2")
	app.Engine.HandleMessage("c2", []byte(`{"kind":"join_queue","id":"bob","rating":1100}`))

	assert.Equal(t, 1, app.Engine.Stats().ActiveSessions)

	app.Engine.HandleClosed("c2")
	app.Recorder.Close()

	recent, err := app.Storage.RecentMatches(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "alice", recent[0].Host)
	assert.Equal(t, "bob", recent[0].Client)
	assert.Equal(t, model.EndReasonDisconnect, recent[0].EndReason)
	assert.False(t, recent[0].EndedAt.IsZero())
}

func TestRedisStorageRequiresConfig(t *testing.T) {
	_, err := New(Config{StorageType: "redis"})
	require.Error(t, err)
}

func TestUnknownStorageTypeRejected(t *testing.T) {
	_, err := New(Config{StorageType: "postgres"})
	require.Error(t, err)
}
