package services

import (
	"context"
	"time"

	"backend_trainerhub/logging"
	"backend_trainerhub/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SuppressionService хранит отпечатки удаленных человеком автоматических задач
type SuppressionService struct {
	db     *gorm.DB
	logger zerolog.Logger
	now    func() time.Time
}

// NewSuppressionService создает новый экземпляр SuppressionService
func NewSuppressionService(db *gorm.DB) *SuppressionService {
	return &SuppressionService{
		db:     db,
		logger: logging.Component("suppression"),
		now:    time.Now,
	}
}

// IsSuppressed проверяет, удалял ли человек задачу с таким отпечатком
func (ss *SuppressionService) IsSuppressed(ctx context.Context, trainerID, clientID uint, category models.TaskCategory, taskType models.TaskType) (bool, error) {
	return isSuppressed(ss.db.WithContext(ctx), trainerID, clientID, category, taskType)
}

// Suppress записывает отпечаток. Повторный вызов ничего не меняет.
func (ss *SuppressionService) Suppress(ctx context.Context, trainerID, clientID uint, category models.TaskCategory, taskType models.TaskType) error {
	return ss.suppress(ss.db.WithContext(ctx), trainerID, clientID, category, taskType)
}

// List возвращает все отпечатки тренера
func (ss *SuppressionService) List(ctx context.Context, trainerID uint) ([]models.TaskDeletionMarker, error) {
	var markers []models.TaskDeletionMarker
	err := ss.db.WithContext(ctx).
		Where("trainer_id = ?", trainerID).
		Order("deleted_at DESC").
		Find(&markers).Error
	if err != nil {
		return nil, internal(err, "выборка отпечатков")
	}
	return markers, nil
}

// suppress работает в переданной транзакции
func (ss *SuppressionService) suppress(tx *gorm.DB, trainerID, clientID uint, category models.TaskCategory, taskType models.TaskType) error {
	marker := models.TaskDeletionMarker{
		DeletedAt: ss.now().UTC(),
		TrainerID: trainerID,
		ClientID:  clientID,
		Category:  category,
		TaskType:  taskType,
	}
	result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&marker)
	if result.Error != nil {
		return internal(result.Error, "запись отпечатка")
	}
	if result.RowsAffected > 0 {
		ss.logger.Info().
			Uint("trainer_id", trainerID).
			Uint("client_id", clientID).
			Str("category", string(category)).
			Msg("automatic task suppressed")
	}
	return nil
}

func isSuppressed(tx *gorm.DB, trainerID, clientID uint, category models.TaskCategory, taskType models.TaskType) (bool, error) {
	var count int64
	err := tx.Model(&models.TaskDeletionMarker{}).
		Where("trainer_id = ? AND client_id = ? AND category = ? AND task_type = ?", trainerID, clientID, category, taskType).
		Count(&count).Error
	if err != nil {
		return false, internal(err, "проверка отпечатка")
	}
	return count > 0, nil
}
