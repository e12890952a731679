// Package bootstrap wires the process-wide runtime: database, cache, upload
// storage and startup seeding.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"instaclone/internal/cache"
	"instaclone/internal/config"
	"instaclone/internal/database"
	"instaclone/internal/featureflags"
	"instaclone/internal/middleware"
	"instaclone/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// InitRuntime connects to the database and Redis, prepares the upload
// directory and loads demo data when the demo_seed flag is on. The Redis
// client is nil when Redis is unreachable.
func InitRuntime(ctx context.Context, cfg *config.Config) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create upload dir %s: %w", cfg.UploadDir, err)
	}

	// Init Redis (may result in nil client if unreachable)
	rdb := cache.InitRedis(cfg.RedisURL)

	flags := featureflags.NewManager(cfg.FeatureFlags)
	middleware.Logger.Info("feature flags loaded",
		slog.Any("names", flags.Names()),
		slog.Any("server_wide", flags.Snapshot(0)),
	)

	if flags.Enabled(featureflags.DemoSeed, 0) {
		if err := seed.Demo(ctx, db, cfg.UploadDir); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return db, rdb, nil
}
