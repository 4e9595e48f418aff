package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"backend_trainerhub/logging"
	"backend_trainerhub/models"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubscriptionToken токен первичной оплаты подписки
func SubscriptionToken(subscriptionID uint) string {
	return fmt.Sprintf("sub:%d", subscriptionID)
}

// RenewalToken токен оплаты продления
func RenewalToken(subscriptionID uint, renewalIndex int) string {
	return fmt.Sprintf("sub-renew:%d-%d", subscriptionID, renewalIndex)
}

// RenewalInstallmentsToken токен суммы рассрочки, внесенной при продлении
func RenewalInstallmentsToken(subscriptionID uint, renewalIndex int) string {
	return fmt.Sprintf("sub-renew-inst-sum:%d-%d", subscriptionID, renewalIndex)
}

// InstallmentToken токен оплаты отдельного платежа по рассрочке
func InstallmentToken(installmentID uint) string {
	return fmt.Sprintf("inst:%d", installmentID)
}

// IncomeEntry запись дохода, которая должна попасть в журнал ровно один раз
type IncomeEntry struct {
	TrainerID     uint
	ClientID      uint
	Source        models.FinancialSource
	Amount        decimal.Decimal
	Date          time.Time
	Token         string
	Notes         string
	PaymentMethod string
}

// RefundEntry возврат при отмене подписки, Amount положительный
type RefundEntry struct {
	TrainerID     uint
	ClientID      uint
	Amount        decimal.Decimal
	Date          time.Time
	Notes         string
	PaymentMethod string
}

// LedgerFilter параметры выборки журнала
type LedgerFilter struct {
	TrainerID uint
	ClientID  *uint
	Source    models.FinancialSource
	From      *time.Time
	To        *time.Time
	Limit     int
}

// LedgerSummary итоги по выборке журнала
type LedgerSummary struct {
	Income  decimal.Decimal `json:"income"`
	Refunds decimal.Decimal `json:"refunds"`
	Net     decimal.Decimal `json:"net"`
	Count   int             `json:"count"`
}

// LedgerService ведет финансовый журнал тренера
type LedgerService struct {
	db      *gorm.DB
	logger  zerolog.Logger
	metrics *Metrics
}

// NewLedgerService создает новый экземпляр LedgerService
func NewLedgerService(db *gorm.DB, metrics *Metrics) *LedgerService {
	return &LedgerService{
		db:      db,
		logger:  logging.Component("ledger"),
		metrics: metrics,
	}
}

// notesWithToken дописывает токен события после примечания
func notesWithToken(notes, token string) string {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return token
	}
	return notes + models.NotesTokenDelimiter + token
}

// EnsureIncomeOnce записывает доход, если токен события еще не встречался.
// Возвращает true, если запись создана.
func (ls *LedgerService) EnsureIncomeOnce(ctx context.Context, entry IncomeEntry) (bool, error) {
	if !entry.Amount.IsPositive() {
		return false, nil
	}
	if entry.Token == "" {
		return false, invalidInput("не указан токен события")
	}

	db := ls.db.WithContext(ctx)

	// Старые записи хранят токен только в конце примечания
	var existing int64
	err := db.Model(&models.FinancialRecord{}).
		Where("trainer_id = ? AND source = ? AND type = ?", entry.TrainerID, entry.Source, models.FinancialIncome).
		Where("idempotency_key = ? OR notes = ? OR notes LIKE ?",
			entry.Token, entry.Token, "%"+models.NotesTokenDelimiter+entry.Token).
		Count(&existing).Error
	if err != nil {
		return false, internal(err, "проверка журнала")
	}
	if existing > 0 {
		ls.metrics.IncLedgerSkip(string(entry.Source))
		ls.logger.Debug().Str("token", entry.Token).Msg("income already recorded")
		return false, nil
	}

	token := entry.Token
	record := models.FinancialRecord{
		TrainerID:      entry.TrainerID,
		ClientID:       entry.ClientID,
		Type:           models.FinancialIncome,
		Source:         entry.Source,
		Date:           entry.Date.UTC(),
		Amount:         entry.Amount,
		PaymentMethod:  entry.PaymentMethod,
		Notes:          notesWithToken(entry.Notes, entry.Token),
		IdempotencyKey: &token,
	}

	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&record)
	if result.Error != nil {
		return false, internal(result.Error, "запись дохода")
	}
	if result.RowsAffected == 0 {
		// Параллельный вызов успел записать тот же токен
		ls.metrics.IncLedgerSkip(string(entry.Source))
		return false, nil
	}

	ls.metrics.IncLedgerInsert(string(entry.Source))
	ls.logger.Info().
		Str("token", entry.Token).
		Uint("trainer_id", entry.TrainerID).
		Uint("client_id", entry.ClientID).
		Str("amount", entry.Amount.StringFixed(2)).
		Msg("income recorded")
	return true, nil
}

// RecordRefund записывает возврат отрицательной суммой без проверки идемпотентности
func (ls *LedgerService) RecordRefund(ctx context.Context, entry RefundEntry) (*models.FinancialRecord, error) {
	if !entry.Amount.IsPositive() {
		return nil, invalidInput("сумма возврата должна быть положительной")
	}

	record := models.FinancialRecord{
		TrainerID:     entry.TrainerID,
		ClientID:      entry.ClientID,
		Type:          models.FinancialIncome,
		Source:        models.SourceSubscription,
		Date:          entry.Date.UTC(),
		Amount:        entry.Amount.Neg(),
		PaymentMethod: entry.PaymentMethod,
		Notes:         entry.Notes,
	}
	if err := ls.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, internal(err, "запись возврата")
	}

	ls.metrics.IncRefund()
	ls.logger.Info().
		Uint("trainer_id", entry.TrainerID).
		Uint("client_id", entry.ClientID).
		Str("amount", record.Amount.StringFixed(2)).
		Msg("refund recorded")
	return &record, nil
}

// ListRecords возвращает записи журнала тренера, новые первыми
func (ls *LedgerService) ListRecords(ctx context.Context, filter LedgerFilter) ([]models.FinancialRecord, error) {
	query := ls.db.WithContext(ctx).Where("trainer_id = ?", filter.TrainerID)

	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.Source != "" {
		query = query.Where("source = ?", filter.Source)
	}
	if filter.From != nil {
		query = query.Where("date >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		query = query.Where("date <= ?", filter.To.UTC())
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var records []models.FinancialRecord
	if err := query.Order("date DESC, id DESC").Find(&records).Error; err != nil {
		return nil, internal(err, "выборка журнала")
	}
	return records, nil
}

// Summarize считает итоги по записям журнала
func Summarize(records []models.FinancialRecord) LedgerSummary {
	summary := LedgerSummary{Income: decimal.Zero, Refunds: decimal.Zero, Count: len(records)}
	for _, record := range records {
		if record.IsRefund() {
			summary.Refunds = summary.Refunds.Add(record.Amount.Neg())
		} else {
			summary.Income = summary.Income.Add(record.Amount)
		}
	}
	summary.Net = summary.Income.Sub(summary.Refunds)
	return summary
}
