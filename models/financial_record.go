package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinancialRecordType тип записи в финансовом журнале
type FinancialRecordType string

const (
	FinancialIncome FinancialRecordType = "income"
)

// FinancialSource источник записи в финансовом журнале
type FinancialSource string

const (
	SourceSubscription FinancialSource = "Subscription"
	SourceInstallment  FinancialSource = "Installment"
)

// NotesTokenDelimiter отделяет примечание от токена события
const NotesTokenDelimiter = " | "

// FinancialRecord запись финансового журнала. Записи только добавляются,
// отрицательная сумма означает возврат.
type FinancialRecord struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"createdAt"`

	TrainerID     uint                `json:"trainerId" gorm:"not null;index:idx_financial_records_trainer_source"`
	ClientID      uint                `json:"clientId" gorm:"not null;index"`
	Type          FinancialRecordType `json:"type" gorm:"type:varchar(20);not null"`
	Source        FinancialSource     `json:"source" gorm:"type:varchar(30);not null;index:idx_financial_records_trainer_source"`
	Date          time.Time           `json:"date" gorm:"not null;index"`
	Amount        decimal.Decimal     `json:"amount" gorm:"type:decimal(15,2);not null"`
	PaymentMethod string              `json:"paymentMethod" gorm:"type:varchar(50)"`
	Notes         string              `json:"notes" gorm:"type:text"`

	// IdempotencyKey хранит токен события; NULL для записей без токена (возвраты)
	IdempotencyKey *string `json:"idempotencyKey,omitempty" gorm:"type:varchar(120);uniqueIndex:idx_financial_records_idempotency_key"`
}

// TableName задает имя таблицы для модели FinancialRecord
func (FinancialRecord) TableName() string {
	return "financial_records"
}

// IsRefund проверяет, является ли запись возвратом
func (r *FinancialRecord) IsRefund() bool {
	return r.Amount.IsNegative()
}
