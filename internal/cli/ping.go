package cli

import (
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/pairup-dev/pairup/internal/model"
)

func newPingCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Measure round-trip latency to the server",
		Long: `Connect to the server and measure websocket round-trip latency.

Sends direct latency probes (answered by the server itself, not relayed
to any opponent) and prints the round-trip time for each.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPing(cmd, count)
		},
	}

	cmd.Flags().IntVarP(&count, "count", "c", 3, "Number of probes to send")

	return cmd
}

func runPing(cmd *cobra.Command, count int) error {
	wsURL, err := cfg.WebsocketURL()
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", wsURL, err)
	}
	defer conn.Close()

	for i := 0; i < count; i++ {
		sent := time.Now()
		ts := sent.UnixMilli()
		if err := conn.WriteJSON(map[string]any{"kind": model.KindPing, "t": ts}); err != nil {
			return fmt.Errorf("send probe: %w", err)
		}

		// The server may interleave its own liveness probes; answer those
		// and keep reading until our echo comes back.
		for {
			var msg model.Outbound
			if err := conn.ReadJSON(&msg); err != nil {
				return fmt.Errorf("read echo: %w", err)
			}
			if msg.Kind == model.KindPing {
				_ = conn.WriteJSON(map[string]any{"kind": model.KindPong, "t": msg.T})
				continue
			}
			if msg.Kind == model.KindPong && msg.T == ts {
				cmd.Printf("probe %d: rtt=%s\n", i+1, time.Since(sent).Round(time.Millisecond))
				break
			}
		}
	}
	return nil
}
