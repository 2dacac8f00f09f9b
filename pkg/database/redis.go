package database

import (
	"context"
	"fmt"
	"log"
	"skillswap/internal/config"

	"github.com/go-redis/redis/v8"
)

// InitRedis returns a nil client when no Redis host is configured; callers
// treat a nil client as "single instance, no shared cache".
func InitRedis(cfg *config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled() {
		log.Println("Redis not configured, running without shared cache")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     50,
		MinIdleConns: 5,
	})

	ctx := context.Background()
	_, err := rdb.Ping(ctx).Result()
	if err != nil {
		return nil, err
	}

	log.Println("Redis connection established")
	return rdb, nil
}
