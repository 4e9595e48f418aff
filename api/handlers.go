package api

import (
	"net/http"

	"backend_trainerhub/services"

	"github.com/gin-gonic/gin"
)

// Handlers HTTP обработчики движка подписок и задач
type Handlers struct {
	subscriptions *services.SubscriptionService
	tasks         *services.TaskService
	generator     *services.TaskGeneratorService
	ledger        *services.LedgerService
	exporter      *services.LedgerExportService
}

// NewHandlers создает новый экземпляр Handlers
func NewHandlers(
	subscriptions *services.SubscriptionService,
	tasks *services.TaskService,
	generator *services.TaskGeneratorService,
	ledger *services.LedgerService,
	exporter *services.LedgerExportService,
) *Handlers {
	return &Handlers{
		subscriptions: subscriptions,
		tasks:         tasks,
		generator:     generator,
		ledger:        ledger,
		exporter:      exporter,
	}
}

// RegisterRoutes регистрирует маршруты API в группе, защищенной аутентификацией
func (h *Handlers) RegisterRoutes(api *gin.RouterGroup) {
	subscriptions := api.Group("/subscriptions")
	{
		subscriptions.POST("", h.CreateSubscription)
		subscriptions.GET("/:id", h.GetSubscription)
		subscriptions.POST("/:id/hold", h.HoldSubscription)
		subscriptions.POST("/:id/cancel", h.CancelSubscription)
	}

	api.GET("/clients/:id/subscriptions", h.ListClientSubscriptions)
	api.POST("/installments/:id/pay", h.PayInstallment)

	tasks := api.Group("/tasks")
	{
		tasks.GET("", h.ListTasks)
		tasks.POST("", h.CreateTask)
		tasks.POST("/regenerate", h.RegenerateTasks)
		tasks.GET("/:id", h.GetTask)
		tasks.PATCH("/:id/status", h.UpdateTaskStatus)
		tasks.POST("/:id/comments", h.AddTaskComment)
		tasks.DELETE("/:id", h.DeleteTask)
	}

	ledger := api.Group("/ledger")
	{
		ledger.GET("", h.ListLedger)
		ledger.GET("/export", h.ExportLedger)
	}
}

// Ping проверка доступности сервиса
// GET /ping
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "pong"})
}
