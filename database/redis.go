package database

import (
	"context"
	"log"

	"household-backend/config"

	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client

func ConnectRedis() {
	opts, err := redis.ParseURL(config.AppConfig.RedisURL)
	if err != nil {
		log.Println("⚠️  Invalid Redis URL, running without change feed:", err)
		return
	}

	Redis = redis.NewClient(opts)

	if _, err := Redis.Ping(context.Background()).Result(); err != nil {
		log.Println("⚠️  Redis not available, running without change feed:", err)
		Redis = nil
		return
	}

	log.Println("✅ Redis connected successfully")
}
