package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"instaclone/internal/middleware"

	"github.com/redis/go-redis/v9"
)

const (
	UserKeyPrefix = "user:%d"
)

const (
	UserTTL = 5 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

// Invalidate deletes key. Errors are logged, not returned: a stale entry
// expires on its own TTL.
func Invalidate(ctx context.Context, rdb *redis.Client, key string) {
	if rdb == nil {
		return
	}
	if err := rdb.Del(ctx, key).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "cache invalidation failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

func InvalidateUser(ctx context.Context, rdb *redis.Client, userID uint) {
	Invalidate(ctx, rdb, UserKey(userID))
}
