package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"backend_trainerhub/logging"
	"backend_trainerhub/models"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// SubscriptionEndingWindow окно, в котором окончание подписки порождает задачу
	SubscriptionEndingWindow = 3 * 24 * time.Hour
	// ProgramUpdateWindowDays окно в календарных днях для обновления программы
	ProgramUpdateWindowDays = 3
)

// RegenerateResult итог прохода генератора
type RegenerateResult struct {
	Created   int   `json:"created"`
	TotalOpen int64 `json:"totalOpen"`
}

// taskCandidate клиент, для которого категория требует задачу
type taskCandidate struct {
	clientID    uint
	dueDate     *time.Time
	description string
}

// TaskGeneratorService создает автоматические задачи по состоянию подписок,
// рассрочек, профилей и программ
type TaskGeneratorService struct {
	db          *gorm.DB
	suppression *SuppressionService
	locker      Locker
	notifier    TaskNotifier
	metrics     *Metrics
	logger      zerolog.Logger
	now         func() time.Time
	group       singleflight.Group
}

// NewTaskGeneratorService создает новый экземпляр TaskGeneratorService
func NewTaskGeneratorService(db *gorm.DB, suppression *SuppressionService, locker Locker, notifier TaskNotifier, metrics *Metrics) *TaskGeneratorService {
	if locker == nil {
		locker = NewMemoryLocker()
	}
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &TaskGeneratorService{
		db:          db,
		suppression: suppression,
		locker:      locker,
		notifier:    notifier,
		metrics:     metrics,
		logger:      logging.Component("task_generator"),
		now:         time.Now,
	}
}

// SetClock подменяет источник текущего времени
func (tg *TaskGeneratorService) SetClock(now func() time.Time) {
	tg.now = now
}

// Regenerate проходит все категории для всех клиентов тренера.
// Параллельные вызовы для одного тренера объединяются в один проход.
func (tg *TaskGeneratorService) Regenerate(ctx context.Context, trainerID uint) (RegenerateResult, error) {
	key := fmt.Sprintf("trainer:%d", trainerID)
	v, err, _ := tg.group.Do(key, func() (interface{}, error) {
		return tg.regenerate(ctx, trainerID, nil)
	})
	if err != nil {
		return RegenerateResult{}, err
	}
	return v.(RegenerateResult), nil
}

// RegenerateForClient проходит все категории только для одного клиента
func (tg *TaskGeneratorService) RegenerateForClient(ctx context.Context, trainerID, clientID uint) (RegenerateResult, error) {
	return tg.regenerate(ctx, trainerID, &clientID)
}

// RegenerateAll проходит всех тренеров, у которых есть клиенты
func (tg *TaskGeneratorService) RegenerateAll(ctx context.Context) (int, error) {
	var trainerIDs []uint
	if err := tg.db.WithContext(ctx).Model(&models.Client{}).Distinct("trainer_id").Pluck("trainer_id", &trainerIDs).Error; err != nil {
		return 0, internal(err, "выборка тренеров")
	}

	created := 0
	for _, trainerID := range trainerIDs {
		result, err := tg.Regenerate(ctx, trainerID)
		if err != nil {
			tg.logger.Error().Err(err).Uint("trainer_id", trainerID).Msg("regeneration failed")
			continue
		}
		created += result.Created
	}
	return created, nil
}

func (tg *TaskGeneratorService) regenerate(ctx context.Context, trainerID uint, clientID *uint) (RegenerateResult, error) {
	started := time.Now()
	defer func() { tg.metrics.ObserveRegenerate(time.Since(started).Seconds()) }()

	now := tg.now().UTC()
	db := tg.db.WithContext(ctx)

	candidates := make(map[models.TaskCategory][]taskCandidate, len(models.AutomaticCategories))
	collectors := map[models.TaskCategory]func(*gorm.DB, uint, *uint, time.Time) ([]taskCandidate, error){
		models.CategorySubscription: collectEndingSubscriptions,
		models.CategoryPayment:      collectPendingPayments,
		models.CategoryProfile:      collectIncompleteProfiles,
		models.CategoryInstallment:  collectDueInstallments,
		models.CategoryProgram:      collectDuePrograms,
	}
	for _, category := range models.AutomaticCategories {
		found, err := collectors[category](db, trainerID, clientID, now)
		if err != nil {
			return RegenerateResult{}, internal(err, fmt.Sprintf("поиск кандидатов %s", category))
		}
		candidates[category] = found
	}

	names, err := loadClientNames(db, trainerID, candidates)
	if err != nil {
		return RegenerateResult{}, internal(err, "выборка клиентов")
	}

	var created []models.Task
	for _, category := range models.AutomaticCategories {
		for _, candidate := range candidates[category] {
			task, err := tg.createIfAbsent(ctx, trainerID, category, candidate, names[candidate.clientID])
			if err != nil {
				return RegenerateResult{Created: len(created)}, err
			}
			if task != nil {
				created = append(created, *task)
			}
		}
	}

	var totalOpen int64
	query := db.Model(&models.Task{}).
		Where("trainer_id = ? AND status = ? AND task_type = ?", trainerID, models.TaskOpen, models.TaskAutomatic)
	if clientID != nil {
		query = query.Where("client_id = ?", *clientID)
	}
	if err := query.Count(&totalOpen).Error; err != nil {
		return RegenerateResult{Created: len(created)}, internal(err, "подсчет открытых задач")
	}

	if len(created) > 0 {
		if err := tg.notifier.NotifyTasksCreated(ctx, trainerID, created); err != nil {
			tg.metrics.IncSideEffectFailure("notify")
			tg.logger.Error().Err(err).Str("side_effect", "notify").Uint("trainer_id", trainerID).Msg("task notification failed")
		}
	}

	tg.logger.Debug().
		Uint("trainer_id", trainerID).
		Int("created", len(created)).
		Int64("total_open", totalOpen).
		Msg("regeneration completed")
	return RegenerateResult{Created: len(created), TotalOpen: totalOpen}, nil
}

// createIfAbsent создает задачу, если отпечаток не подавлен и открытой задачи нет
func (tg *TaskGeneratorService) createIfAbsent(ctx context.Context, trainerID uint, category models.TaskCategory, candidate taskCandidate, clientName string) (*models.Task, error) {
	unlock, err := tg.locker.Lock(ctx, TasksLockKey(trainerID, candidate.clientID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	db := tg.db.WithContext(ctx)

	suppressed, err := tg.suppression.IsSuppressed(ctx, trainerID, candidate.clientID, category, models.TaskAutomatic)
	if err != nil {
		return nil, err
	}
	if suppressed {
		tg.metrics.IncTaskSkipped(string(category), "suppressed")
		return nil, nil
	}

	var open int64
	err = db.Model(&models.Task{}).
		Where("trainer_id = ? AND client_id = ? AND category = ? AND status = ? AND task_type = ?",
			trainerID, candidate.clientID, category, models.TaskOpen, models.TaskAutomatic).
		Count(&open).Error
	if err != nil {
		return nil, internal(err, "проверка открытых задач")
	}
	if open > 0 {
		tg.metrics.IncTaskSkipped(string(category), "already_open")
		return nil, nil
	}

	task := models.Task{
		TrainerID:   trainerID,
		ClientID:    candidate.clientID,
		Title:       taskTitle(category, clientName),
		Description: candidate.description,
		TaskType:    models.TaskAutomatic,
		Category:    category,
		Status:      models.TaskOpen,
		DueDate:     candidate.dueDate,
	}
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&task)
	if result.Error != nil {
		return nil, internal(result.Error, "создание задачи")
	}
	if result.RowsAffected == 0 {
		tg.metrics.IncTaskSkipped(string(category), "already_open")
		return nil, nil
	}

	tg.metrics.IncTaskCreated(string(category))
	tg.logger.Info().
		Uint("trainer_id", trainerID).
		Uint("client_id", candidate.clientID).
		Str("category", string(category)).
		Uint("task_id", task.ID).
		Msg("automatic task created")
	return &task, nil
}

func taskTitle(category models.TaskCategory, clientName string) string {
	if clientName == "" {
		clientName = models.UnknownClientName
	}
	switch category {
	case models.CategorySubscription:
		return "Subscription ending: " + clientName
	case models.CategoryPayment:
		return "Pending payment: " + clientName
	case models.CategoryProfile:
		return "Complete profile: " + clientName
	case models.CategoryInstallment:
		return "Installment due: " + clientName
	case models.CategoryProgram:
		return "Program update due: " + clientName
	}
	return string(category) + ": " + clientName
}

// startOfDay возвращает полночь календарного дня в UTC
func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// dedupeByClient оставляет первого кандидата на клиента и сортирует по клиенту
func dedupeByClient(found []taskCandidate) []taskCandidate {
	seen := make(map[uint]struct{}, len(found))
	result := make([]taskCandidate, 0, len(found))
	for _, candidate := range found {
		if _, ok := seen[candidate.clientID]; ok {
			continue
		}
		seen[candidate.clientID] = struct{}{}
		result = append(result, candidate)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].clientID < result[j].clientID })
	return result
}

func trainerSubscriptions(db *gorm.DB, trainerID uint, clientID *uint) *gorm.DB {
	query := db.Model(&models.Subscription{}).
		Joins("JOIN clients ON clients.id = subscriptions.client_id").
		Where("clients.trainer_id = ? AND subscriptions.is_canceled = ?", trainerID, false)
	if clientID != nil {
		query = query.Where("subscriptions.client_id = ?", *clientID)
	}
	return query
}

func collectEndingSubscriptions(db *gorm.DB, trainerID uint, clientID *uint, now time.Time) ([]taskCandidate, error) {
	var subscriptions []models.Subscription
	err := trainerSubscriptions(db, trainerID, clientID).
		Where("subscriptions.end_date >= ? AND subscriptions.end_date <= ?", now, now.Add(SubscriptionEndingWindow)).
		Where("subscriptions.payment_status <> ?", models.PaymentCancelled).
		Order("subscriptions.end_date ASC").
		Find(&subscriptions).Error
	if err != nil {
		return nil, err
	}

	found := make([]taskCandidate, 0, len(subscriptions))
	for _, subscription := range subscriptions {
		endDate := subscription.EndDate.UTC()
		found = append(found, taskCandidate{
			clientID:    subscription.ClientID,
			dueDate:     &endDate,
			description: fmt.Sprintf("Subscription #%d ends on %s. Contact the client about renewal.", subscription.ID, endDate.Format("2006-01-02")),
		})
	}
	return dedupeByClient(found), nil
}

func collectPendingPayments(db *gorm.DB, trainerID uint, clientID *uint, _ time.Time) ([]taskCandidate, error) {
	var subscriptions []models.Subscription
	err := trainerSubscriptions(db, trainerID, clientID).
		Where("subscriptions.payment_status = ?", models.PaymentPending).
		Order("subscriptions.id ASC").
		Find(&subscriptions).Error
	if err != nil {
		return nil, err
	}

	found := make([]taskCandidate, 0, len(subscriptions))
	for _, subscription := range subscriptions {
		found = append(found, taskCandidate{
			clientID: subscription.ClientID,
			description: fmt.Sprintf("Payment for subscription #%d is pending (%s).",
				subscription.ID, subscription.PriceAfterDiscount.StringFixed(2)),
		})
	}
	return dedupeByClient(found), nil
}

func collectIncompleteProfiles(db *gorm.DB, trainerID uint, clientID *uint, _ time.Time) ([]taskCandidate, error) {
	query := db.Where("trainer_id = ?", trainerID)
	if clientID != nil {
		query = query.Where("id = ?", *clientID)
	}

	var clients []models.Client
	if err := query.Order("id ASC").Find(&clients).Error; err != nil {
		return nil, err
	}

	var found []taskCandidate
	for _, client := range clients {
		missing := client.MissingProfileFields()
		if len(missing) == 0 {
			continue
		}
		found = append(found, taskCandidate{
			clientID:    client.ID,
			description: "Missing profile fields: " + strings.Join(missing, ", "),
		})
	}
	return dedupeByClient(found), nil
}

func collectDueInstallments(db *gorm.DB, trainerID uint, clientID *uint, now time.Time) ([]taskCandidate, error) {
	today := startOfDay(now)

	query := db.Model(&models.Installment{}).
		Joins("JOIN clients ON clients.id = installments.client_id").
		Where("clients.trainer_id = ?", trainerID).
		Where("installments.status <> ?", models.InstallmentPaid).
		Where("installments.next_installment >= ? AND installments.next_installment < ?", today, today.AddDate(0, 0, 1))
	if clientID != nil {
		query = query.Where("installments.client_id = ?", *clientID)
	}

	var installments []models.Installment
	if err := query.Order("installments.next_installment ASC").Find(&installments).Error; err != nil {
		return nil, err
	}

	found := make([]taskCandidate, 0, len(installments))
	for _, installment := range installments {
		due := installment.NextInstallment.UTC()
		found = append(found, taskCandidate{
			clientID:    installment.ClientID,
			dueDate:     &due,
			description: fmt.Sprintf("Installment of %s is due today.", installment.Amount.StringFixed(2)),
		})
	}
	return dedupeByClient(found), nil
}

func collectDuePrograms(db *gorm.DB, trainerID uint, clientID *uint, now time.Time) ([]taskCandidate, error) {
	today := startOfDay(now)

	query := db.Where("trainer_id = ?", trainerID).
		Where("next_update_date >= ? AND next_update_date < ?", today, today.AddDate(0, 0, ProgramUpdateWindowDays+1))
	if clientID != nil {
		query = query.Where("client_id = ?", *clientID)
	}

	var programs []models.ProgramAssignment
	if err := query.Order("next_update_date ASC").Find(&programs).Error; err != nil {
		return nil, err
	}

	found := make([]taskCandidate, 0, len(programs))
	for _, program := range programs {
		due := program.NextUpdateDate.UTC()
		found = append(found, taskCandidate{
			clientID:    program.ClientID,
			dueDate:     &due,
			description: fmt.Sprintf("Program %q needs an update by %s.", program.ProgramName, due.Format("2006-01-02")),
		})
	}
	return dedupeByClient(found), nil
}

func loadClientNames(db *gorm.DB, trainerID uint, candidates map[models.TaskCategory][]taskCandidate) (map[uint]string, error) {
	idSet := make(map[uint]struct{})
	for _, found := range candidates {
		for _, candidate := range found {
			idSet[candidate.clientID] = struct{}{}
		}
	}
	names := make(map[uint]string, len(idSet))
	if len(idSet) == 0 {
		return names, nil
	}

	ids := make([]uint, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	var clients []models.Client
	if err := db.Where("trainer_id = ? AND id IN ?", trainerID, ids).Find(&clients).Error; err != nil {
		return nil, err
	}
	for _, client := range clients {
		names[client.ID] = client.DisplayName()
	}
	return names, nil
}
