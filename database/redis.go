package database

import (
	"context"
	"fmt"

	"backend_trainerhub/config"
	"backend_trainerhub/logging"

	"github.com/go-redis/redis/v8"
)

var Redis *redis.Client

// InitRedis инициализирует подключение к Redis, если оно включено
func InitRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.MaxConns,
		MinIdleConns: 2,
		DialTimeout:  cfg.Redis.Timeout,
		ReadTimeout:  cfg.Redis.Timeout,
		WriteTimeout: cfg.Redis.Timeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("не удалось подключиться к Redis: %w", err)
	}

	logger := logging.Component("redis")
	logger.Info().Str("addr", cfg.GetRedisAddr()).Msg("connected to redis")
	Redis = client
	return client, nil
}

// GetRedis возвращает экземпляр Redis клиента
func GetRedis() *redis.Client {
	return Redis
}
