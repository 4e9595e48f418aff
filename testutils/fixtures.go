package testutils

import (
	"time"

	"backend_trainerhub/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TestTrainerID идентификатор тренера, от имени которого работают тесты
const TestTrainerID uint = 7

// Date возвращает полночь указанного дня в UTC
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CreateTestClient создает клиента с полностью заполненным профилем
func CreateTestClient(db *gorm.DB, trainerID uint) *models.Client {
	age := 30
	client := &models.Client{
		TrainerID: trainerID,
		FullName:  "Test Client",
		Email:     "client@example.com",
		Phone:     "+77010000000",
		Gender:    "female",
		Age:       &age,
		Source:    "instagram",
	}
	if err := db.Create(client).Error; err != nil {
		return nil
	}
	return client
}

// CreateIncompleteClient создает клиента без возраста и источника
func CreateIncompleteClient(db *gorm.DB, trainerID uint) *models.Client {
	client := &models.Client{
		TrainerID: trainerID,
		FullName:  "Incomplete Client",
		Email:     "incomplete@example.com",
		Phone:     "+77010000001",
		Gender:    "male",
	}
	if err := db.Create(client).Error; err != nil {
		return nil
	}
	return client
}

// CreateTestPackage создает пакет с ценой 1000 на один месяц
func CreateTestPackage(db *gorm.DB, trainerID uint) *models.Package {
	pkg := &models.Package{
		TrainerID:     trainerID,
		Name:          "Monthly Coaching",
		Price:         decimal.NewFromInt(1000),
		DurationValue: 1,
		DurationUnit:  models.DurationMonth,
		IsActive:      true,
	}
	if err := db.Create(pkg).Error; err != nil {
		return nil
	}
	return pkg
}

// CreateTestSubscription создает оплаченную подписку без скидки
func CreateTestSubscription(db *gorm.DB, clientID, packageID uint, start, end time.Time) *models.Subscription {
	subscription := &models.Subscription{
		ClientID:            clientID,
		PackageID:           packageID,
		StartDate:           start,
		EndDate:             end,
		DurationValue:       1,
		DurationUnit:        models.DurationMonth,
		PriceBeforeDiscount: decimal.NewFromInt(1000),
		PriceAfterDiscount:  decimal.NewFromInt(1000),
		DiscountKind:        models.DiscountNone,
		PaymentStatus:       models.PaymentPaid,
		RefundKind:          models.RefundNone,
		RenewalHistory:      []models.RenewalSnapshot{},
	}
	if err := db.Create(subscription).Error; err != nil {
		return nil
	}
	return subscription
}
