package shared

import (
	"context"
	"hostel/shared/cache"
	"math"
	"strings"

	"github.com/rs/zerolog/log"
)

const cacheKeySeparator = ":"

func CalculateTotalPage(total, limit int) (res int) {
	if total == 0 || limit <= 0 {
		res = 1
	} else {
		res = int(math.Ceil(float64(total) / float64(limit)))
	}

	return res
}

// BuildCacheKey joins a prefix and its non-empty parts into a redis key.
func BuildCacheKey(prefix string, parts ...string) string {
	key := []string{prefix}

	for _, part := range parts {
		if part == "" {
			continue
		}

		key = append(key, part)
	}

	return strings.Join(key, cacheKeySeparator)
}

// InvalidateCaches removes the key prefix itself and every key under it.
// Failures are logged only.
func InvalidateCaches(ctx context.Context, c cache.RedisCache, prefix string) {
	if err := c.Delete(ctx, prefix); err != nil {
		log.Error().Err(err).Str("key", prefix).Msg("failed to invalidate cache")
	}

	if err := c.Clear(ctx, prefix+cacheKeySeparator+"*"); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}

// OptionalString returns nil for blank input and a pointer to the trimmed value otherwise.
func OptionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}

	return &trimmed
}
