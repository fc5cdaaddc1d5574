package match

import "time"

// Config holds the tunable matchmaking parameters
type Config struct {
	// BaseToleranceDiff is the rating difference allowed with zero wait time
	BaseToleranceDiff float64

	// ToleranceGrowthPerSecond widens the allowed difference by this much
	// per second of combined wait time across both candidates
	ToleranceGrowthPerSecond float64

	// ToleranceCap bounds the wait-time widening (the base is added on top)
	ToleranceCap float64

	// ProbeInterval is how often the liveness monitor probes connections.
	// A connection that misses one full interval is terminated on the next,
	// so detection latency is at most two intervals.
	ProbeInterval time.Duration
}

// DefaultConfig returns sensible defaults for matchmaking configuration
func DefaultConfig() Config {
	return Config{
		BaseToleranceDiff:        200,
		ToleranceGrowthPerSecond: 10,
		ToleranceCap:             600,
		ProbeInterval:            30 * time.Second,
	}
}
