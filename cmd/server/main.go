package main

import (
	"log"

	"github.com/gatherhq/gatherspace/internal/config"
	"github.com/gatherhq/gatherspace/internal/database"
	"github.com/gatherhq/gatherspace/internal/middleware"
	"github.com/gatherhq/gatherspace/internal/router"
	"github.com/gatherhq/gatherspace/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(!cfg.IsProduction()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to connect database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Log.Fatal("Migration failed", zap.Error(err))
	}
	logger.Log.Info("Database connected and migrated")

	// Rate limiting is skipped when no redis is configured.
	var limiter *middleware.RateLimiter
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Log.Fatal("Invalid REDIS_URL", zap.Error(err))
		}
		limiter = middleware.NewRateLimiter(redis.NewClient(opts), middleware.RateLimiterConfig{
			MaxRequests: cfg.RateLimitMaxRequests,
			Window:      cfg.RateLimitWindow,
			BlockTime:   cfg.RateLimitBlockTime,
		})
	}

	r := router.Setup(router.Deps{
		DB:      db,
		Config:  cfg,
		Limiter: limiter,
	})

	logger.Log.Info("Server starting",
		zap.String("port", cfg.ServerPort),
		zap.String("environment", cfg.Environment),
	)
	if err := r.Run(cfg.ServerPort); err != nil {
		logger.Log.Fatal("Failed to start server", zap.Error(err))
	}
}
