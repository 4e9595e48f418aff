package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config содержит всю конфигурацию приложения
type Config struct {
	// Основные настройки приложения
	App AppConfigStruct `json:"app"`

	// База данных
	Database DatabaseConfig `json:"database"`

	// Redis (распределенные блокировки)
	Redis RedisConfig `json:"redis"`

	// JWT
	JWT JWTConfig `json:"jwt"`

	// CORS
	CORS CORSConfig `json:"cors"`

	// Ограничение частоты запросов (через Redis)
	RateLimit RateLimitConfig `json:"rate_limit"`

	// Логирование
	Logging LoggingConfig `json:"logging"`

	// Планировщик автоматических задач и сверки
	Scheduler SchedulerConfig `json:"scheduler"`

	// Биллинг и расчет цен
	Billing BillingConfig `json:"billing"`

	// Telegram-уведомления тренеров
	Telegram TelegramConfig `json:"telegram"`
}

type AppConfigStruct struct {
	Env     string `json:"env"`
	Port    string `json:"port"`
	Host    string `json:"host"`
	Version string `json:"version"`
	Debug   bool   `json:"debug"`
}

type DatabaseConfig struct {
	Driver          string        `json:"driver"` // postgres, sqlite
	Host            string        `json:"host"`
	Port            string        `json:"port"`
	User            string        `json:"user"`
	Password        string        `json:"password"`
	Name            string        `json:"name"`
	SSLMode         string        `json:"ssl_mode"`
	SQLitePath      string        `json:"sqlite_path"`
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`
	LogSQL          bool          `json:"log_sql"`
}

type RedisConfig struct {
	Enabled  bool          `json:"enabled"`
	Host     string        `json:"host"`
	Port     string        `json:"port"`
	Password string        `json:"password"`
	DB       int           `json:"db"`
	URL      string        `json:"url"`
	Timeout  time.Duration `json:"timeout"`
	MaxConns int           `json:"max_connections"`
	LockTTL  time.Duration `json:"lock_ttl"`
}

type JWTConfig struct {
	Secret string `json:"secret"`
	Issuer string `json:"issuer"`
}

type CORSConfig struct {
	AllowedOrigins   []string `json:"allowed_origins"`
	AllowedMethods   []string `json:"allowed_methods"`
	AllowedHeaders   []string `json:"allowed_headers"`
	AllowCredentials bool     `json:"allow_credentials"`
	MaxAge           int      `json:"max_age"`
}

type RateLimitConfig struct {
	Requests int           `json:"requests"`
	Window   time.Duration `json:"window"`
}

type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"` // json, console
	File   string `json:"file"`
}

type SchedulerConfig struct {
	Enabled        bool   `json:"enabled"`
	RegenerateCron string `json:"regenerate_cron"`
	ReconcileCron  string `json:"reconcile_cron"`
}

type BillingConfig struct {
	// RequireDiscountKind отключает эвристику определения типа скидки
	RequireDiscountKind bool     `json:"require_discount_kind"`
	CurrencyCodes       []string `json:"currency_codes"`
}

type TelegramConfig struct {
	BotToken string `json:"bot_token"`
	ChatID   string `json:"chat_id"`
}

var GlobalConfig *Config

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() (*Config, error) {
	// Загружаем .env файл если он существует
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg(".env file not loaded")
	}

	config := &Config{
		App: AppConfigStruct{
			Env:     getEnv("APP_ENV", "development"),
			Port:    getEnv("APP_PORT", "8080"),
			Host:    getEnv("APP_HOST", "0.0.0.0"),
			Version: getEnv("API_VERSION", "v1"),
			Debug:   getEnvBool("DEBUG_MODE", false),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "postgres"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Name:            getEnv("DB_NAME", "trainerhub_db"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			SQLitePath:      getEnv("DB_SQLITE_PATH", "trainerhub.db"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 300*time.Second),
			LogSQL:          getEnvBool("DB_LOG_SQL", false),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			URL:      getEnv("REDIS_URL", ""),
			Timeout:  getEnvDuration("REDIS_TIMEOUT", 5*time.Second),
			MaxConns: getEnvInt("REDIS_MAX_CONNECTIONS", 10),
			LockTTL:  getEnvDuration("REDIS_LOCK_TTL", 30*time.Second),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
			Issuer: getEnv("JWT_ISSUER", "trainerhub"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods:   getEnvSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
			AllowedHeaders:   getEnvSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin", "X-Request-ID"}),
			AllowCredentials: getEnvBool("CORS_ALLOW_CREDENTIALS", true),
			MaxAge:           getEnvInt("CORS_MAX_AGE", 86400),
		},
		RateLimit: RateLimitConfig{
			Requests: getEnvInt("RATE_LIMIT_REQUESTS", 120),
			Window:   getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			File:   getEnv("LOG_FILE", ""),
		},
		Scheduler: SchedulerConfig{
			Enabled:        getEnvBool("SCHEDULER_ENABLED", true),
			RegenerateCron: getEnv("SCHEDULER_REGENERATE_CRON", "0 */15 * * * *"),
			ReconcileCron:  getEnv("SCHEDULER_RECONCILE_CRON", "0 5 * * * *"),
		},
		Billing: BillingConfig{
			RequireDiscountKind: getEnvBool("DISCOUNT_REQUIRE_KIND", false),
			CurrencyCodes:       getEnvSlice("CURRENCY_CODES", []string{"KZT", "USD", "EUR", "RUB", "GBP", "AED", "SAR", "EGP"}),
		},
		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
			ChatID:   getEnv("TELEGRAM_CHAT_ID", ""),
		},
	}

	// Валидация критически важных настроек
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	GlobalConfig = config
	return config, nil
}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	// Проверяем обязательные поля для продакшена
	if c.IsProduction() {
		if c.JWT.Secret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
		}
		if c.Database.Driver == "postgres" && c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required in production")
		}
	}

	switch c.Database.Driver {
	case "postgres":
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME cannot be empty")
		}
		if c.Database.User == "" {
			return fmt.Errorf("DB_USER cannot be empty")
		}
	case "sqlite":
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("DB_SQLITE_PATH cannot be empty")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.Database.Driver)
	}

	if c.Telegram.BotToken != "" && c.Telegram.ChatID == "" {
		return fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set")
	}

	return nil
}

// GetConfig возвращает текущую конфигурацию
func GetConfig() *Config {
	if GlobalConfig == nil {
		log.Fatal().Msg("config not loaded, call LoadConfig first")
	}
	return GlobalConfig
}

// Вспомогательные функции для получения переменных окружения

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		log.Warn().Str("key", key).Str("value", value).Int("default", defaultValue).Msg("invalid integer env value")
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
		log.Warn().Str("key", key).Str("value", value).Bool("default", defaultValue).Msg("invalid boolean env value")
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Warn().Str("key", key).Str("value", value).Dur("default", defaultValue).Msg("invalid duration env value")
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}

// IsProduction проверяет, запущено ли приложение в продакшене
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// GetDatabaseDSN возвращает строку подключения к БД
func (c *Config) GetDatabaseDSN() string {
	if c.Database.Driver == "sqlite" {
		return c.Database.SQLitePath
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User,
		c.Database.Password, c.Database.Name, c.Database.SSLMode)
}

// GetAdminDatabaseDSN возвращает строку подключения к служебной БД postgres
func (c *Config) GetAdminDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=postgres sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User,
		c.Database.Password, c.Database.SSLMode)
}

// GetRedisAddr возвращает адрес Redis
func (c *Config) GetRedisAddr() string {
	if c.Redis.URL != "" {
		return c.Redis.URL
	}
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// LogConfig выводит конфигурацию в лог (без секретных данных)
func (c *Config) LogConfig() {
	event := log.Info().
		Str("env", c.App.Env).
		Str("version", c.App.Version).
		Str("port", c.App.Port).
		Str("db_driver", c.Database.Driver)
	if c.Database.Driver == "postgres" {
		event = event.
			Str("db_host", c.Database.Host+":"+c.Database.Port).
			Str("db_name", c.Database.Name)
	}
	event.
		Bool("redis", c.Redis.Enabled).
		Bool("scheduler", c.Scheduler.Enabled).
		Bool("discount_kind_required", c.Billing.RequireDiscountKind).
		Bool("telegram", c.Telegram.BotToken != "").
		Int("rate_limit_requests", c.RateLimit.Requests).
		Dur("rate_limit_window", c.RateLimit.Window).
		Str("log_level", c.Logging.Level).
		Bool("debug", c.App.Debug).
		Msg("application configuration")
}
