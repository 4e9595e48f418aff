package api

import (
	"net/http"

	"backend_trainerhub/models"
	"backend_trainerhub/services"

	"github.com/gin-gonic/gin"
)

// RegenerateTasks пересчитывает автоматические задачи тренера
// POST /api/tasks/regenerate
func (h *Handlers) RegenerateTasks(c *gin.Context) {
	result, err := h.generator.Regenerate(c.Request.Context(), GetTrainerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, result)
}

// ListTasks возвращает задачи тренера
// GET /api/tasks?status=&category=&taskType=&clientId=
func (h *Handlers) ListTasks(c *gin.Context) {
	clientID, err := parseOptionalUint(c.Query("clientId"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Некорректный clientId")
		return
	}

	tasks, err := h.tasks.List(c.Request.Context(), services.TaskFilter{
		TrainerID: GetTrainerID(c),
		ClientID:  clientID,
		Status:    models.TaskStatus(c.Query("status")),
		Category:  models.TaskCategory(c.Query("category")),
		TaskType:  models.TaskType(c.Query("taskType")),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   tasks,
		"count":  len(tasks),
	})
}

// GetTask возвращает задачу с комментариями
// GET /api/tasks/:id
func (h *Handlers) GetTask(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	task, err := h.tasks.Get(c.Request.Context(), GetTrainerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, task)
}

type createTaskRequest struct {
	ClientID    FlexID    `json:"clientId"`
	AssigneeID  FlexID    `json:"assigneeId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	DueDate     *FlexDate `json:"dueDate"`
}

// CreateTask создает ручную задачу
// POST /api/tasks
func (h *Handlers) CreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Некорректные входные данные: "+err.Error())
		return
	}

	var assigneeID *uint
	if req.AssigneeID != 0 {
		id := uint(req.AssigneeID)
		assigneeID = &id
	}

	task, err := h.tasks.CreateManual(c.Request.Context(), services.CreateTaskInput{
		TrainerID:   GetTrainerID(c),
		ClientID:    uint(req.ClientID),
		AssigneeID:  assigneeID,
		Title:       req.Title,
		Description: req.Description,
		Category:    models.TaskCategory(req.Category),
		DueDate:     req.DueDate.Ptr(),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, task)
}

type updateTaskStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateTaskStatus открывает или закрывает задачу
// PATCH /api/tasks/:id/status
func (h *Handlers) UpdateTaskStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req updateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Некорректные входные данные: "+err.Error())
		return
	}

	task, err := h.tasks.UpdateStatus(c.Request.Context(), GetTrainerID(c), id, models.TaskStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, task)
}

type addCommentRequest struct {
	Body     string `json:"body" binding:"required"`
	AuthorID FlexID `json:"authorId"`
}

// AddTaskComment добавляет комментарий к задаче
// POST /api/tasks/:id/comments
func (h *Handlers) AddTaskComment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req addCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Некорректные входные данные: "+err.Error())
		return
	}

	trainerID := GetTrainerID(c)
	authorID := uint(req.AuthorID)
	if authorID == 0 {
		authorID = trainerID
	}

	comment, err := h.tasks.AddComment(c.Request.Context(), trainerID, id, authorID, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, comment)
}

// DeleteTask удаляет задачу
// DELETE /api/tasks/:id
func (h *Handlers) DeleteTask(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.tasks.Delete(c.Request.Context(), GetTrainerID(c), id); err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"deleted": id})
}
