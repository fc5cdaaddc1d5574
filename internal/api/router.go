package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/pairup-dev/pairup/internal/match"
	"github.com/pairup-dev/pairup/internal/middleware"
	"github.com/pairup-dev/pairup/internal/model"
)

const recentMatchLimit = 20

// StatsProvider exposes a point-in-time engine snapshot
type StatsProvider interface {
	Stats() match.Stats
}

// HistoryReader exposes recent completed matches
type HistoryReader interface {
	Recent(ctx context.Context, limit int) ([]*model.MatchRecord, error)
}

// RouterConfig holds configuration for the router
type RouterConfig struct {
	Logger *slog.Logger
	Engine StatsProvider
	// History may be nil when match history is disabled
	History HistoryReader
	// WSHandler serves the websocket endpoint; it is mounted outside the
	// logging middleware so upgrades can hijack the connection.
	WSHandler http.Handler
	StartedAt time.Time
}

// NewRouter creates the HTTP router: websocket endpoint plus health/status
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	recovery := middleware.Recovery(cfg.Logger)
	logging := middleware.Logging(cfg.Logger)

	if cfg.WSHandler != nil {
		r.Handle("/ws", cfg.WSHandler)
	}

	status := &statusHandler{
		engine:    cfg.Engine,
		history:   cfg.History,
		startedAt: cfg.StartedAt,
	}

	ops := r.NewRoute().Subrouter()
	ops.Use(recovery)
	ops.Use(logging)
	ops.HandleFunc("/healthz", healthHandler).Methods(http.MethodGet)
	ops.HandleFunc("/status", status.ServeStatus).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

type statusHandler struct {
	engine    StatsProvider
	history   HistoryReader
	startedAt time.Time
}

type statusResponse struct {
	Status        string               `json:"status"`
	Uptime        string               `json:"uptime"`
	Stats         match.Stats          `json:"stats"`
	RecentMatches []*model.MatchRecord `json:"recent_matches,omitempty"`
}

func (h *statusHandler) ServeStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Status: "ok",
		Uptime: time.Since(h.startedAt).Round(time.Second).String(),
		Stats:  h.engine.Stats(),
	}

	if h.history != nil {
		recent, err := h.history.Recent(r.Context(), recentMatchLimit)
		if err != nil {
			http.Error(w, "failed to load match history", http.StatusInternalServerError)
			return
		}
		resp.RecentMatches = recent
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}
