package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show server status",
		RunE: func(cmd *cobra.Command, args []string) error {
			url := strings.TrimSuffix(cfg.ServerURL, "/") + "/status"

			client := &http.Client{Timeout: 10 * time.Second}
			resp, err := client.Get(url)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("server returned %s", resp.Status)
			}

			var status struct {
				Status string `json:"status"`
				Uptime string `json:"uptime"`
				Stats  struct {
					Connections    int `json:"connections"`
					Waiting        int `json:"waiting"`
					ActiveSessions int `json:"active_sessions"`
				} `json:"stats"`
				RecentMatches []struct {
					ID        string  `json:"id"`
					Host      string  `json:"host"`
					Client    string  `json:"client"`
					RatingGap float64 `json:"rating_gap"`
					EndReason string  `json:"end_reason"`
				} `json:"recent_matches"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
				return fmt.Errorf("decode status response: %w", err)
			}

			if cfg.Output == "json" {
				data, _ := json.MarshalIndent(status, "", "  ")
				fmt.Println(string(data))
				return nil
			}

			fmt.Printf("status:          %s\n", status.Status)
			fmt.Printf("uptime:          %s\n", status.Uptime)
			fmt.Printf("connections:     %d\n", status.Stats.Connections)
			fmt.Printf("waiting:         %d\n", status.Stats.Waiting)
			fmt.Printf("active sessions: %d\n", status.Stats.ActiveSessions)
			if len(status.RecentMatches) > 0 {
				fmt.Println("recent matches:")
				for _, m := range status.RecentMatches {
					state := "active"
					if m.EndReason != "" {
						state = m.EndReason
					}
					fmt.Printf("  %s vs %s (gap %.0f, %s)\n", m.Host, m.Client, m.RatingGap, state)
				}
			}
			return nil
		},
	}
}
