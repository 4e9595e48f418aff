package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"backend_trainerhub/config"
)

// RequestIDHeader заголовок, через который передается идентификатор запроса
const RequestIDHeader = "X-Request-ID"

var (
	mu         sync.Mutex
	fileCloser io.Closer
)

// Init настраивает глобальный zerolog логгер по конфигурации
func Init(cfg config.LoggingConfig) error {
	mu.Lock()
	defer mu.Unlock()

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	var writer io.Writer = os.Stdout
	if cfg.Format == "console" {
		writer = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	}

	if cfg.File != "" {
		file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("не удалось открыть файл логов %s: %w", cfg.File, err)
		}
		if fileCloser != nil {
			fileCloser.Close()
		}
		fileCloser = file
		writer = zerolog.MultiLevelWriter(writer, file)
	}

	log.Logger = zerolog.New(writer).With().Timestamp().Logger()
	return nil
}

// Close закрывает файл логов, если он был открыт
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if fileCloser != nil {
		fileCloser.Close()
		fileCloser = nil
	}
}

// Component возвращает логгер с полем component
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// GinLogger логирует HTTP запросы и проставляет идентификатор запроса
func GinLogger() gin.HandlerFunc {
	logger := Component("http")

	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		status := c.Writer.Status()
		event := logger.Info()
		switch {
		case status >= 500:
			event = logger.Error()
		case status >= 400:
			event = logger.Warn()
		}

		event.
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request completed")
	}
}
