package cache

import "strings"

const (
	GlobalKeyPrefix = "quizzer"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// LeaderboardKey is the cache key for a grade/subject leaderboard.
func LeaderboardKey(grade, subject string) string {
	return GenerateCacheKey("quiz", "leaderboard", grade, subject)
}
