package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/pairup-dev/pairup/internal/model"
)

func newJoinCmd() *cobra.Command {
	var (
		id     string
		rating float64
	)

	cmd := &cobra.Command{
		Use:   "join",
		Short: "Join the matchmaking queue and hold the session",
		Long: `Connect to the server, join the matchmaking queue and stay connected.

Once matched, lines typed on stdin are relayed to the opponent as chat.
Liveness probes from the server are answered automatically.

Press Ctrl+C to disconnect.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJoin(id, rating)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Player identifier (required)")
	cmd.Flags().Float64Var(&rating, "rating", 1000, "Skill rating")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func runJoin(id string, rating float64) error {
	wsURL, err := cfg.WebsocketURL()
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", wsURL, err)
	}
	defer conn.Close()

	join := map[string]any{"kind": model.KindJoinQueue, "id": id, "rating": rating}
	if err := conn.WriteJSON(join); err != nil {
		return fmt.Errorf("send join request: %w", err)
	}
	fmt.Printf("queued as %s (rating %.0f), waiting for a match...\n", id, rating)

	// Reader goroutine: print events and answer liveness probes
	done := make(chan error, 1)
	go func() {
		for {
			var msg model.Outbound
			if err := conn.ReadJSON(&msg); err != nil {
				done <- err
				return
			}
			if msg.Kind == model.KindPing {
				_ = conn.WriteJSON(map[string]any{"kind": model.KindPong, "t": msg.T})
				continue
			}
			printEvent(msg)
		}
	}()

	// Stdin goroutine: relay typed lines as chat
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			text := strings.TrimSpace(scanner.Text())
			if text == "" {
				continue
			}
			if text == "/ping" {
				_ = conn.WriteJSON(map[string]any{
					"kind": model.KindPingOpponent,
					"t":    time.Now().UnixMilli(),
				})
				continue
			}
			_ = conn.WriteJSON(map[string]any{"kind": model.KindChat, "text": text})
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		fmt.Println("\ndisconnecting")
		return nil
	case err := <-done:
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return nil
		}
		return fmt.Errorf("connection lost: %w", err)
	}
}

func printEvent(msg model.Outbound) {
	switch msg.Kind {
	case model.KindMatchStart:
		fmt.Printf("matched! opponent=%s (rating %.0f) role=%s match=%s\n",
			msg.Opponent, msg.OpponentRating, msg.Role, msg.Match)
	case model.KindChat:
		fmt.Printf("[%s] %s\n", msg.From, msg.Text)
	case model.KindOpponentDisconnected:
		fmt.Printf("opponent %s disconnected; rejoin to find a new match\n", msg.Opponent)
	case model.KindPingOpponent:
		latency := time.Since(time.UnixMilli(msg.T))
		fmt.Printf("ping from %s (%s one-way)\n", msg.From, latency.Round(time.Millisecond))
	case model.KindError:
		fmt.Printf("error [%s]: %s\n", msg.Code, msg.Message)
	default:
		// Unknown or opaque kinds (signaling, game updates) dump as JSON
		data, _ := json.Marshal(msg)
		fmt.Println(string(data))
	}
}
