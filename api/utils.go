package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"backend_trainerhub/logging"
	"backend_trainerhub/middleware"
	"backend_trainerhub/services"

	"github.com/gin-gonic/gin"
)

// APIResponse представляет стандартную структуру ответа API
type APIResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// SuccessResponse возвращает успешный ответ
func SuccessResponse(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, APIResponse{
		Status: "success",
		Data:   data,
	})
}

// ErrorResponse возвращает ошибку
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, APIResponse{
		Status: "error",
		Error:  message,
	})
}

// respondError переводит ошибку сервиса в HTTP статус
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		ErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		ErrorResponse(c, http.StatusNotFound, err.Error())
	default:
		logger := logging.Component("api")
		logger.Error().
			Err(err).
			Str("path", c.FullPath()).
			Str("request_id", c.GetString("request_id")).
			Msg("request failed")
		ErrorResponse(c, http.StatusInternalServerError, "Внутренняя ошибка сервера")
	}
}

// GetTrainerID извлекает ID тренера из контекста Gin
func GetTrainerID(c *gin.Context) uint {
	trainerID, _ := middleware.GetTrainerID(c)
	return trainerID
}

// parseIDParam разбирает числовой параметр пути
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || id == 0 {
		ErrorResponse(c, http.StatusBadRequest, "Некорректный ID")
		return 0, false
	}
	return uint(id), true
}

// parseOptionalUint разбирает необязательный числовой query-параметр
func parseOptionalUint(raw string) (*uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	id := uint(value)
	return &id, nil
}
