package cli

import (
	"bytes"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pairup-dev/pairup/internal/api"
	"github.com/pairup-dev/pairup/internal/factory"
	"github.com/pairup-dev/pairup/internal/match"
	"github.com/pairup-dev/pairup/internal/testutil"
)

func TestPingCommandRoundTrips(t *testing.T) {
	app, err := factory.New(factory.Config{Match: match.DefaultConfig()})
	require.NoError(t, err)
	defer app.Close()

	router := api.NewRouter(api.RouterConfig{
		Logger:    testutil.NopLogger(),
		Engine:    app.Engine,
		WSHandler: app.Handler,
		StartedAt: time.Now(),
	})
	server := httptest.NewServer(router)
	defer server.Close()

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"ping", "--count", "2", "--server", server.URL})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "probe 1: rtt=")
	assert.Contains(t, out.String(), "probe 2: rtt=")
}

func TestPingCommandRejectsBadServerURL(t *testing.T) {
	root := NewRootCmd()
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"ping", "--count", "1", "--server", "ftp://nowhere"})

	require.Error(t, root.Execute())
}
