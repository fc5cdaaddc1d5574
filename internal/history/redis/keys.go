package redis

import (
	"fmt"

	"github.com/pairup-dev/pairup/internal/model"
)

// Key prefix for all match history data
const keyPrefix = "pairup"

// matchKey returns the Redis key for a MatchRecord
func matchKey(id model.MatchID) string {
	return fmt.Sprintf("%s:match:%s", keyPrefix, id)
}

// recentIndexKey returns the Redis key for the recent-match LIST
func recentIndexKey() string {
	return fmt.Sprintf("%s:idx:recent_matches", keyPrefix)
}
