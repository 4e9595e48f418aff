package models

import (
	"time"
)

// TaskType тип задачи
type TaskType string

const (
	TaskManual    TaskType = "manual"
	TaskAutomatic TaskType = "automatic"
)

// TaskCategory категория задачи
type TaskCategory string

const (
	CategoryProfile      TaskCategory = "Profile"
	CategoryPayment      TaskCategory = "Payment"
	CategorySubscription TaskCategory = "Subscription"
	CategoryInstallment  TaskCategory = "Installment"
	CategoryProgram      TaskCategory = "Program"
)

// AutomaticCategories категории, которые обходит генератор автоматических задач
var AutomaticCategories = []TaskCategory{
	CategorySubscription,
	CategoryPayment,
	CategoryProfile,
	CategoryInstallment,
	CategoryProgram,
}

// IsValid проверяет категорию
func (c TaskCategory) IsValid() bool {
	for _, category := range AutomaticCategories {
		if c == category {
			return true
		}
	}
	return false
}

// TaskStatus статус задачи
type TaskStatus string

const (
	TaskOpen   TaskStatus = "open"
	TaskClosed TaskStatus = "closed"
)

// Task задача тренера по клиенту.
// Частичный уникальный индекс idx_tasks_open_automatic (database.UniqueIndexes)
// гарантирует не более одной открытой автоматической задачи на (тренер, клиент, категория).
type Task struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	TrainerID   uint         `json:"trainerId" gorm:"not null;index"`
	ClientID    uint         `json:"clientId" gorm:"not null;index"`
	AssigneeID  *uint        `json:"assigneeId" gorm:"index"`
	Title       string       `json:"title" gorm:"not null;type:varchar(200)"`
	Description string       `json:"description" gorm:"type:text"`
	TaskType    TaskType     `json:"taskType" gorm:"type:varchar(20);not null;default:'manual'"`
	Category    TaskCategory `json:"category" gorm:"type:varchar(30);not null"`
	Status      TaskStatus   `json:"status" gorm:"type:varchar(20);not null;default:'open';index"`
	DueDate     *time.Time   `json:"dueDate"`

	Comments []TaskComment `json:"comments,omitempty" gorm:"foreignKey:TaskID"`
}

// TableName задает имя таблицы для модели Task
func (Task) TableName() string {
	return "tasks"
}

// TaskComment комментарий к задаче
type TaskComment struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"createdAt"`

	TaskID   uint   `json:"taskId" gorm:"not null;index"`
	AuthorID uint   `json:"authorId"`
	Body     string `json:"body" gorm:"type:text;not null"`
}

// TableName задает имя таблицы для модели TaskComment
func (TaskComment) TableName() string {
	return "task_comments"
}

// TaskDeletionMarker фиксирует удаление автоматической задачи человеком
// и запрещает ее повторное создание. Срока действия нет.
type TaskDeletionMarker struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	DeletedAt time.Time `json:"deletedAt" gorm:"not null"`

	TrainerID uint         `json:"trainerId" gorm:"not null;uniqueIndex:idx_task_deletion_markers_fingerprint"`
	ClientID  uint         `json:"clientId" gorm:"not null;uniqueIndex:idx_task_deletion_markers_fingerprint"`
	Category  TaskCategory `json:"category" gorm:"type:varchar(30);not null;uniqueIndex:idx_task_deletion_markers_fingerprint"`
	TaskType  TaskType     `json:"taskType" gorm:"type:varchar(20);not null;uniqueIndex:idx_task_deletion_markers_fingerprint"`
}

// TableName задает имя таблицы для модели TaskDeletionMarker
func (TaskDeletionMarker) TableName() string {
	return "task_deletion_markers"
}
