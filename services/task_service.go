package services

import (
	"context"
	"strings"
	"time"

	"backend_trainerhub/logging"
	"backend_trainerhub/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// TaskFilter параметры выборки задач
type TaskFilter struct {
	TrainerID uint
	ClientID  *uint
	Status    models.TaskStatus
	Category  models.TaskCategory
	TaskType  models.TaskType
}

// CreateTaskInput данные ручной задачи
type CreateTaskInput struct {
	TrainerID   uint
	ClientID    uint
	AssigneeID  *uint
	Title       string
	Description string
	Category    models.TaskCategory
	DueDate     *time.Time
}

// TaskService операции над задачами тренера
type TaskService struct {
	db          *gorm.DB
	suppression *SuppressionService
	locker      Locker
	logger      zerolog.Logger
}

// NewTaskService создает новый экземпляр TaskService
func NewTaskService(db *gorm.DB, suppression *SuppressionService, locker Locker) *TaskService {
	if locker == nil {
		locker = NewMemoryLocker()
	}
	return &TaskService{
		db:          db,
		suppression: suppression,
		locker:      locker,
		logger:      logging.Component("tasks"),
	}
}

// Get возвращает задачу тренера с комментариями
func (ts *TaskService) Get(ctx context.Context, trainerID, taskID uint) (*models.Task, error) {
	var task models.Task
	err := ts.db.WithContext(ctx).
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("id = ? AND trainer_id = ?", taskID, trainerID).
		First(&task).Error
	if err != nil {
		return nil, notFoundOr(err, "задача не найдена")
	}
	return &task, nil
}

// List возвращает задачи по фильтру, ближайшие по сроку первыми
func (ts *TaskService) List(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	query := ts.db.WithContext(ctx).Where("trainer_id = ?", filter.TrainerID)
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.TaskType != "" {
		query = query.Where("task_type = ?", filter.TaskType)
	}

	var tasks []models.Task
	if err := query.Order("due_date IS NULL, due_date ASC, id ASC").Find(&tasks).Error; err != nil {
		return nil, internal(err, "выборка задач")
	}
	return tasks, nil
}

// CreateManual создает ручную задачу
func (ts *TaskService) CreateManual(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, invalidInput("не указан заголовок задачи")
	}
	if !input.Category.IsValid() {
		return nil, invalidInput("неизвестная категория %q", input.Category)
	}

	db := ts.db.WithContext(ctx)

	var client models.Client
	if err := db.Where("id = ? AND trainer_id = ?", input.ClientID, input.TrainerID).First(&client).Error; err != nil {
		return nil, notFoundOr(err, "клиент не найден")
	}
	if input.AssigneeID != nil {
		var member models.TeamMember
		if err := db.Where("id = ? AND trainer_id = ?", *input.AssigneeID, input.TrainerID).First(&member).Error; err != nil {
			return nil, notFoundOr(err, "сотрудник не найден")
		}
	}

	task := models.Task{
		TrainerID:   input.TrainerID,
		ClientID:    input.ClientID,
		AssigneeID:  input.AssigneeID,
		Title:       title,
		Description: input.Description,
		TaskType:    models.TaskManual,
		Category:    input.Category,
		Status:      models.TaskOpen,
		DueDate:     utcPtr(input.DueDate),
	}
	if err := db.Create(&task).Error; err != nil {
		return nil, internal(err, "создание задачи")
	}
	return &task, nil
}

// UpdateStatus открывает или закрывает задачу
func (ts *TaskService) UpdateStatus(ctx context.Context, trainerID, taskID uint, status models.TaskStatus) (*models.Task, error) {
	if status != models.TaskOpen && status != models.TaskClosed {
		return nil, invalidInput("неизвестный статус %q", status)
	}

	db := ts.db.WithContext(ctx)

	var task models.Task
	if err := db.Where("id = ? AND trainer_id = ?", taskID, trainerID).First(&task).Error; err != nil {
		return nil, notFoundOr(err, "задача не найдена")
	}
	if task.Status == status {
		return &task, nil
	}

	if status == models.TaskOpen && task.TaskType == models.TaskAutomatic {
		// Генератор проверяет и создает задачи клиента под тем же ключом
		unlock, err := ts.locker.Lock(ctx, TasksLockKey(task.TrainerID, task.ClientID))
		if err != nil {
			return nil, err
		}
		defer unlock()

		var open int64
		err = db.Model(&models.Task{}).
			Where("trainer_id = ? AND client_id = ? AND category = ? AND status = ? AND task_type = ? AND id <> ?",
				trainerID, task.ClientID, task.Category, models.TaskOpen, models.TaskAutomatic, task.ID).
			Count(&open).Error
		if err != nil {
			return nil, internal(err, "проверка открытых задач")
		}
		if open > 0 {
			return nil, invalidInput("для клиента уже есть открытая автоматическая задача %s", task.Category)
		}
	}

	if err := db.Model(&task).Update("status", status).Error; err != nil {
		return nil, internal(err, "обновление статуса задачи")
	}
	task.Status = status
	return &task, nil
}

// AddComment добавляет комментарий к задаче
func (ts *TaskService) AddComment(ctx context.Context, trainerID, taskID, authorID uint, body string) (*models.TaskComment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, invalidInput("пустой комментарий")
	}

	db := ts.db.WithContext(ctx)

	var task models.Task
	if err := db.Where("id = ? AND trainer_id = ?", taskID, trainerID).First(&task).Error; err != nil {
		return nil, notFoundOr(err, "задача не найдена")
	}

	comment := models.TaskComment{TaskID: task.ID, AuthorID: authorID, Body: body}
	if err := db.Create(&comment).Error; err != nil {
		return nil, internal(err, "создание комментария")
	}
	return &comment, nil
}

// Delete удаляет задачу с комментариями. Для автоматической задачи в той же
// транзакции записывается отпечаток, чтобы генератор не создал ее снова.
func (ts *TaskService) Delete(ctx context.Context, trainerID, taskID uint) error {
	db := ts.db.WithContext(ctx)

	var task models.Task
	if err := db.Where("id = ? AND trainer_id = ?", taskID, trainerID).First(&task).Error; err != nil {
		return notFoundOr(err, "задача не найдена")
	}

	if task.TaskType == models.TaskAutomatic {
		unlock, err := ts.locker.Lock(ctx, TasksLockKey(task.TrainerID, task.ClientID))
		if err != nil {
			return err
		}
		defer unlock()
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if task.TaskType == models.TaskAutomatic {
			if err := ts.suppression.suppress(tx, task.TrainerID, task.ClientID, task.Category, task.TaskType); err != nil {
				return err
			}
		}
		if err := tx.Where("task_id = ?", task.ID).Delete(&models.TaskComment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&task).Error
	})
	if err != nil {
		return internal(err, "удаление задачи")
	}

	ts.logger.Info().
		Uint("trainer_id", trainerID).
		Uint("task_id", task.ID).
		Str("task_type", string(task.TaskType)).
		Str("category", string(task.Category)).
		Msg("task deleted")
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
