package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"backend_trainerhub/config"

	"github.com/gin-gonic/gin"
	redis "github.com/go-redis/redis/v8"
)

// RateLimitConfig конфигурация rate limiting
type RateLimitConfig struct {
	Requests     int                       // Количество запросов
	Window       time.Duration             // Временное окно
	KeyGenerator func(*gin.Context) string // Генератор ключей
}

// DefaultKeyGenerator генерирует ключ на основе IP адреса
func DefaultKeyGenerator(c *gin.Context) string {
	return c.ClientIP()
}

// TrainerKeyGenerator генерирует ключ на основе тренера из токена
func TrainerKeyGenerator(c *gin.Context) string {
	trainerID, ok := GetTrainerID(c)
	if !ok {
		return c.ClientIP()
	}
	return "trainer:" + strconv.FormatUint(uint64(trainerID), 10)
}

// RateLimit создает middleware для ограничения частоты запросов.
// Без Redis ограничение не применяется.
func RateLimit(redisClient *redis.Client, config RateLimitConfig) gin.HandlerFunc {
	if config.KeyGenerator == nil {
		config.KeyGenerator = DefaultKeyGenerator
	}
	return func(c *gin.Context) {
		if redisClient == nil || config.Requests <= 0 {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := "rate_limit:" + config.KeyGenerator(c)

		current, err := redisClient.Get(ctx, key).Int()
		if err != nil && err != redis.Nil {
			// В случае ошибки Redis пропускаем запрос
			c.Next()
			return
		}

		reset := strconv.FormatInt(time.Now().Add(config.Window).Unix(), 10)
		if current >= config.Requests {
			c.Header("X-RateLimit-Limit", strconv.Itoa(config.Requests))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("X-RateLimit-Reset", reset)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status": "error",
				"error": fmt.Sprintf("Too many requests. Limit: %d requests per %v",
					config.Requests, config.Window),
			})
			return
		}

		pipe := redisClient.Pipeline()
		pipe.Incr(ctx, key)
		if current == 0 {
			// TTL ставится только первому запросу окна
			pipe.Expire(ctx, key, config.Window)
		}
		if _, err := pipe.Exec(ctx); err != nil {
			c.Next()
			return
		}

		remaining := config.Requests - current - 1
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", reset)

		c.Next()
	}
}

// TrainerRateLimit ограничение API по тренеру
func TrainerRateLimit(redisClient *redis.Client, cfg config.RateLimitConfig) gin.HandlerFunc {
	return RateLimit(redisClient, RateLimitConfig{
		Requests:     cfg.Requests,
		Window:       cfg.Window,
		KeyGenerator: TrainerKeyGenerator,
	})
}
