package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebsocketURL(t *testing.T) {
	tests := []struct {
		name      string
		serverURL string
		want      string
		wantErr   bool
	}{
		{name: "http", serverURL: "http://localhost:8080", want: "ws://localhost:8080/ws"},
		{name: "https", serverURL: "https://match.example.com", want: "wss://match.example.com/ws"},
		{name: "trailing slash", serverURL: "http://localhost:8080/", want: "ws://localhost:8080/ws"},
		{name: "already ws", serverURL: "ws://localhost:8080", want: "ws://localhost:8080/ws"},
		{name: "bad scheme", serverURL: "ftp://localhost", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{ServerURL: tt.serverURL}
			got, err := cfg.WebsocketURL()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
