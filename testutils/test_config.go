package testutils

import (
	"testing"

	"backend_trainerhub/config"
)

// SetupTestConfig настраивает тестовую конфигурацию через переменные окружения
func SetupTestConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_SQLITE_PATH", ":memory:")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("SCHEDULER_ENABLED", "false")
	t.Setenv("JWT_SECRET", "test-secret-key-for-testing-only-0123456789")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("Failed to load test config: %v", err)
	}
	return cfg
}
