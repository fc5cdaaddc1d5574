package factory

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/pairup-dev/pairup/internal/config"
	"github.com/pairup-dev/pairup/internal/dependencies/clock"
	"github.com/pairup-dev/pairup/internal/history"
	"github.com/pairup-dev/pairup/internal/history/memory"
	redishistory "github.com/pairup-dev/pairup/internal/history/redis"
	"github.com/pairup-dev/pairup/internal/match"
	"github.com/pairup-dev/pairup/internal/testutil"
	"github.com/pairup-dev/pairup/internal/transport/ws"
)

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional; no-op if nil)
	Logger *slog.Logger
	// StorageType selects the history backend ("memory" or "redis");
	// defaults to memory
	StorageType string
	// RedisConfig is required when StorageType is redis
	RedisConfig *redishistory.Config
	// Match holds the matchmaking tunables
	Match match.Config
}

// App contains all wired application components
type App struct {
	Clock    clock.Clock
	Storage  history.Storage
	Recorder *history.Recorder
	Hub      *ws.Hub
	Engine   *match.Engine
	Handler  *ws.Handler
}

// New wires the application from configuration
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = testutil.NopLogger()
	}

	var storage history.Storage
	switch cfg.StorageType {
	case "", config.StorageTypeMemory:
		storage = memory.New()
	case config.StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, fmt.Errorf("redis storage requires a redis config")
		}
		s, err := redishistory.New(*cfg.RedisConfig)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		storage = s
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.StorageType)
	}

	clk := clock.New()
	recorder := history.NewRecorder(storage, logger)
	hub := ws.NewHub(logger)
	engine := match.NewEngine(cfg.Match, hub, recorder, clk, logger)
	handler := ws.NewHandler(hub, engine, logger)

	return &App{
		Clock:    clk,
		Storage:  storage,
		Recorder: recorder,
		Hub:      hub,
		Engine:   engine,
		Handler:  handler,
	}, nil
}

// Close releases application resources: active sessions are ended, pending
// history writes flushed, and the storage backend closed.
func (a *App) Close() error {
	a.Engine.Shutdown()
	a.Hub.CloseAll()
	a.Recorder.Close()
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
