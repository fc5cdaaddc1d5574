package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// Config holds all process configuration, read from the environment
type Config struct {
	Addr     string `env:"PAIRUP_ADDR"      envDefault:":8080"`
	LogLevel string `env:"PAIRUP_LOG_LEVEL" envDefault:"info"`

	// Match history storage: memory or redis
	StorageType string `env:"PAIRUP_STORAGE"   envDefault:"memory"`
	RedisURL    string `env:"PAIRUP_REDIS_URL" envDefault:"redis://localhost:6379"`

	// Matchmaking tunables
	BaseToleranceDiff        float64       `env:"PAIRUP_BASE_TOLERANCE"    envDefault:"200"`
	ToleranceGrowthPerSecond float64       `env:"PAIRUP_TOLERANCE_GROWTH"  envDefault:"10"`
	ToleranceCap             float64       `env:"PAIRUP_TOLERANCE_CAP"     envDefault:"600"`
	ProbeInterval            time.Duration `env:"PAIRUP_PROBE_INTERVAL"    envDefault:"30s"`
}

// Load parses configuration from the environment
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.StorageType != StorageTypeMemory && cfg.StorageType != StorageTypeRedis {
		return Config{}, fmt.Errorf("invalid PAIRUP_STORAGE %q: must be %q or %q",
			cfg.StorageType, StorageTypeMemory, StorageTypeRedis)
	}
	return cfg, nil
}
