package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// DurationUnit единица длительности подписки или заморозки
type DurationUnit string

const (
	DurationDay   DurationUnit = "day"
	DurationWeek  DurationUnit = "week"
	DurationMonth DurationUnit = "month"
)

const day = 24 * time.Hour

// ParseDurationUnit приводит day/days/week/weeks/month/months к каноническому виду
func ParseDurationUnit(raw string) (DurationUnit, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "day", "days":
		return DurationDay, true
	case "week", "weeks":
		return DurationWeek, true
	case "month", "months":
		return DurationMonth, true
	}
	return "", false
}

// Duration возвращает длину единицы. Месяц всегда равен 30 дням.
func (u DurationUnit) Duration() time.Duration {
	switch u {
	case DurationDay:
		return day
	case DurationWeek:
		return 7 * day
	case DurationMonth:
		return 30 * day
	}
	return 0
}

// AddTo прибавляет n единиц к дате
func (u DurationUnit) AddTo(t time.Time, n int) time.Time {
	return t.Add(time.Duration(n) * u.Duration())
}

// PaymentStatus статус оплаты подписки
type PaymentStatus string

const (
	PaymentPaid         PaymentStatus = "paid"
	PaymentFree         PaymentStatus = "free"
	PaymentFreeTrial    PaymentStatus = "free_trial"
	PaymentPending      PaymentStatus = "pending"
	PaymentInstallments PaymentStatus = "installments"
	PaymentCancelled    PaymentStatus = "cancelled"
)

// IsValid проверяет, что статус оплаты допустим для создания или продления
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPaid, PaymentFree, PaymentFreeTrial, PaymentPending, PaymentInstallments:
		return true
	}
	return false
}

// DiscountKind тип скидки
type DiscountKind string

const (
	DiscountNone       DiscountKind = "none"
	DiscountPercentage DiscountKind = "percentage"
	DiscountFixed      DiscountKind = "fixed"
)

// RefundKind тип возврата при отмене
type RefundKind string

const (
	RefundNone    RefundKind = "none"
	RefundFull    RefundKind = "full"
	RefundPartial RefundKind = "partial"
)

// RenewalSnapshot неизменяемая запись о продлении подписки
type RenewalSnapshot struct {
	RenewedAt           time.Time        `json:"renewedAt"`
	OriginalEndDate     time.Time        `json:"originalEndDate"`
	NewEndDate          time.Time        `json:"newEndDate"`
	StartDate           time.Time        `json:"startDate"`
	DurationValue       int              `json:"durationValue"`
	DurationUnit        DurationUnit     `json:"durationUnit"`
	PaymentStatus       PaymentStatus    `json:"paymentStatus"`
	PriceBeforeDiscount decimal.Decimal  `json:"priceBeforeDiscount"`
	PriceAfterDiscount  decimal.Decimal  `json:"priceAfterDiscount"`
	DiscountKind        DiscountKind     `json:"discountKind"`
	DiscountValue       *decimal.Decimal `json:"discountValue,omitempty"`
}

// RenewalHistory история продлений, хранится JSON колонкой
type RenewalHistory = datatypes.JSONSlice[RenewalSnapshot]

// Subscription представляет подписку клиента на пакет тренера
type Subscription struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Связи
	ClientID  uint     `json:"clientId" gorm:"not null;index"`
	Client    *Client  `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	PackageID uint     `json:"packageId" gorm:"not null;index"`
	Package   *Package `json:"package,omitempty" gorm:"foreignKey:PackageID"`

	// Период подписки
	StartDate     time.Time    `json:"startDate" gorm:"not null"`
	EndDate       time.Time    `json:"endDate" gorm:"not null;index"`
	DurationValue int          `json:"durationValue" gorm:"not null"`
	DurationUnit  DurationUnit `json:"durationUnit" gorm:"type:varchar(10);not null"`

	// Платежная информация
	PriceBeforeDiscount decimal.Decimal     `json:"priceBeforeDiscount" gorm:"type:decimal(15,2);not null"`
	DiscountApplied     bool                `json:"discountApplied" gorm:"default:false"`
	DiscountKind        DiscountKind        `json:"discountKind" gorm:"type:varchar(20);default:'none'"`
	DiscountValue       decimal.NullDecimal `json:"discountValue" gorm:"type:decimal(15,2)"`
	PriceAfterDiscount  decimal.Decimal     `json:"priceAfterDiscount" gorm:"type:decimal(15,2);not null"`
	PaymentStatus       PaymentStatus       `json:"paymentStatus" gorm:"type:varchar(20);not null;index"`
	PaymentMethod       string              `json:"paymentMethod" gorm:"type:varchar(50)"`

	// Заморозка
	IsOnHold         bool         `json:"isOnHold" gorm:"default:false"`
	HoldStartDate    *time.Time   `json:"holdStartDate"`
	HoldEndDate      *time.Time   `json:"holdEndDate"`
	HoldDuration     *int         `json:"holdDuration"`
	HoldDurationUnit DurationUnit `json:"holdDurationUnit" gorm:"type:varchar(10)"`

	// Отмена
	IsCanceled   bool                `json:"isCanceled" gorm:"default:false;index"`
	CanceledAt   *time.Time          `json:"canceledAt"`
	CancelReason string              `json:"cancelReason" gorm:"type:text"`
	RefundKind   RefundKind          `json:"refundType" gorm:"type:varchar(20);default:'none'"`
	RefundAmount decimal.NullDecimal `json:"refundAmount" gorm:"type:decimal(15,2)"`

	// История продлений, только дополняется
	RenewalHistory RenewalHistory `json:"renewalHistory" gorm:"not null"`

	Installments []Installment `json:"installments,omitempty" gorm:"foreignKey:SubscriptionID"`
}

// TableName задает имя таблицы для модели Subscription
func (Subscription) TableName() string {
	return "subscriptions"
}

// IsActiveOn проверяет, действует ли подписка на указанную дату
func (s *Subscription) IsActiveOn(t time.Time) bool {
	return !s.IsCanceled && !t.Before(s.StartDate) && !t.After(s.EndDate)
}

// RefundableAmount возвращает сумму полного возврата
func (s *Subscription) RefundableAmount() decimal.Decimal {
	if s.PriceAfterDiscount.IsZero() && !s.DiscountApplied {
		return s.PriceBeforeDiscount
	}
	return s.PriceAfterDiscount
}

// SubscriptionHold аудит-запись о заморозке подписки, не изменяется после создания
type SubscriptionHold struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"createdAt"`

	SubscriptionID   uint         `json:"subscriptionId" gorm:"not null;index"`
	HoldStartDate    time.Time    `json:"holdStartDate" gorm:"not null"`
	HoldEndDate      time.Time    `json:"holdEndDate" gorm:"not null"`
	HoldDuration     int          `json:"holdDuration" gorm:"not null"`
	HoldDurationUnit DurationUnit `json:"holdDurationUnit" gorm:"type:varchar(10);not null"`
	Reason           string       `json:"reason" gorm:"type:text"`
}

// TableName задает имя таблицы для модели SubscriptionHold
func (SubscriptionHold) TableName() string {
	return "subscription_holds"
}

// InstallmentStatus статус платежа по рассрочке
type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "pending"
	InstallmentPaid    InstallmentStatus = "paid"
)

// Installment платеж по рассрочке подписки
type Installment struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	SubscriptionID  uint              `json:"subscriptionId" gorm:"not null;index"`
	ClientID        uint              `json:"clientId" gorm:"not null;index"`
	RenewalIndex    *int              `json:"renewalIndex"`
	Amount          decimal.Decimal   `json:"amount" gorm:"type:decimal(15,2);not null"`
	Status          InstallmentStatus `json:"status" gorm:"type:varchar(20);default:'pending'"`
	PaidDate        *time.Time        `json:"paidDate"`
	NextInstallment *time.Time        `json:"nextInstallment" gorm:"index"`
	PaymentMethod   string            `json:"paymentMethod" gorm:"type:varchar(50)"`
	Notes           string            `json:"notes" gorm:"type:text"`
}

// TableName задает имя таблицы для модели Installment
func (Installment) TableName() string {
	return "installments"
}
