package config

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisClient متغیر برای دسترسی به Redis؛ وقتی REDIS_ADDR خالی است nil می‌ماند
var RedisClient *redis.Client

// InitRedis اتصال به Redis را راه‌اندازی می‌کند
func InitRedis(ctx context.Context, cfg *Config) error {
	if cfg.RedisAddr == "" {
		Logger.Info("REDIS_ADDR not set, using in-process notification queue")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	s, err := client.Ping(pingCtx).Result()
	if err != nil {
		_ = client.Close()
		return fmt.Errorf("connect to redis %s: %w", cfg.RedisAddr, err)
	}
	RedisClient = client
	Logger.Info("✅ Connected to Redis", zap.String("addr", cfg.RedisAddr), zap.String("ping", s))
	return nil
}

func CloseRedis() {
	if RedisClient == nil {
		return
	}
	if err := RedisClient.Close(); err != nil {
		Logger.Error("Error closing Redis connection:", zap.Error(err))
	}
}
