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

// TaskRegenerator пересчитывает автоматические задачи клиента
type TaskRegenerator interface {
	RegenerateForClient(ctx context.Context, trainerID, clientID uint) (RegenerateResult, error)
}

// DiscountInput сырые параметры скидки из запроса
type DiscountInput struct {
	Applied    bool
	Kind       *string
	Value      *decimal.Decimal
	PriceAfter *decimal.Decimal
}

// InstallmentInput платеж по рассрочке, переданный вместе с подпиской
type InstallmentInput struct {
	Amount          decimal.Decimal
	Status          models.InstallmentStatus
	PaidDate        *time.Time
	NextInstallment *time.Time
	PaymentMethod   string
	Notes           string
}

// CreateSubscriptionInput данные новой подписки
type CreateSubscriptionInput struct {
	TrainerID           uint
	ClientID            uint
	PackageID           uint
	StartDate           time.Time
	EndDate             time.Time
	DurationValue       int
	DurationUnit        string
	PaymentStatus       string
	PaymentMethod       string
	PriceBeforeDiscount *decimal.Decimal
	Discount            DiscountInput
	Installments        []InstallmentInput
}

// RenewSubscriptionInput данные продления существующей подписки
type RenewSubscriptionInput struct {
	TrainerID      uint
	SubscriptionID uint
	// StartDate начало продленного периода, по умолчанию прежняя дата окончания
	StartDate           *time.Time
	EndDate             time.Time
	DurationValue       int
	DurationUnit        string
	PaymentStatus       string
	PaymentMethod       string
	PriceBeforeDiscount *decimal.Decimal
	Discount            DiscountInput
	Installments        []InstallmentInput
}

// HoldSubscriptionInput данные заморозки
type HoldSubscriptionInput struct {
	TrainerID      uint
	SubscriptionID uint
	Duration       int
	Unit           string
	Reason         string
}

// CancelSubscriptionInput данные отмены
type CancelSubscriptionInput struct {
	TrainerID      uint
	SubscriptionID uint
	CancelDate     time.Time
	Reason         string
	RefundKind     string
	RefundAmount   *decimal.Decimal
}

// PayInstallmentInput отметка об оплате платежа по рассрочке
type PayInstallmentInput struct {
	TrainerID     uint
	InstallmentID uint
	PaidDate      *time.Time
	PaymentMethod string
}

// SubscriptionService управляет жизненным циклом подписок
type SubscriptionService struct {
	db        *gorm.DB
	pricing   *PriceResolver
	ledger    *LedgerService
	generator TaskRegenerator
	locker    Locker
	metrics   *Metrics
	logger    zerolog.Logger
	now       func() time.Time
}

// NewSubscriptionService создает новый экземпляр SubscriptionService
func NewSubscriptionService(db *gorm.DB, pricing *PriceResolver, ledger *LedgerService, generator TaskRegenerator, locker Locker, metrics *Metrics) *SubscriptionService {
	if pricing == nil {
		pricing = defaultResolver
	}
	if locker == nil {
		locker = NewMemoryLocker()
	}
	return &SubscriptionService{
		db:        db,
		pricing:   pricing,
		ledger:    ledger,
		generator: generator,
		locker:    locker,
		metrics:   metrics,
		logger:    logging.Component("subscriptions"),
		now:       time.Now,
	}
}

// SetClock подменяет источник текущего времени
func (ss *SubscriptionService) SetClock(now func() time.Time) {
	ss.now = now
}

// Create создает подписку, сохраняет рассрочку и отражает оплату в журнале
func (ss *SubscriptionService) Create(ctx context.Context, input CreateSubscriptionInput) (*models.Subscription, error) {
	if input.ClientID == 0 || input.PackageID == 0 {
		return nil, invalidInput("не указаны clientId или packageId")
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, invalidInput("не указаны startDate или endDate")
	}
	unit, status, err := parseTerms(input.DurationValue, input.DurationUnit, input.PaymentStatus)
	if err != nil {
		return nil, err
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, invalidInput("endDate раньше startDate")
	}
	installments, err := buildInstallments(input.Installments)
	if err != nil {
		return nil, err
	}

	db := ss.db.WithContext(ctx)

	var client models.Client
	if err := db.Where("id = ? AND trainer_id = ?", input.ClientID, input.TrainerID).First(&client).Error; err != nil {
		return nil, notFoundOr(err, "клиент не найден")
	}
	var pkg models.Package
	if err := db.Where("id = ? AND trainer_id = ?", input.PackageID, input.TrainerID).First(&pkg).Error; err != nil {
		return nil, notFoundOr(err, "пакет не найден")
	}

	base := pkg.Price
	if input.PriceBeforeDiscount != nil {
		base = *input.PriceBeforeDiscount
	}
	price, err := ss.pricing.ResolveConfigured(priceInput(base, input.Discount))
	if err != nil {
		return nil, err
	}

	subscription := models.Subscription{
		ClientID:            client.ID,
		PackageID:           pkg.ID,
		StartDate:           input.StartDate.UTC(),
		EndDate:             input.EndDate.UTC(),
		DurationValue:       input.DurationValue,
		DurationUnit:        unit,
		PriceBeforeDiscount: base,
		DiscountApplied:     input.Discount.Applied,
		DiscountKind:        price.Kind,
		DiscountValue:       nullDecimal(price.Value),
		PriceAfterDiscount:  price.PriceAfter,
		PaymentStatus:       status,
		PaymentMethod:       input.PaymentMethod,
		RefundKind:          models.RefundNone,
		RenewalHistory:      []models.RenewalSnapshot{},
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&subscription).Error; err != nil {
			return err
		}
		for i := range installments {
			installments[i].SubscriptionID = subscription.ID
			installments[i].ClientID = client.ID
		}
		if len(installments) > 0 {
			return tx.Create(&installments).Error
		}
		return nil
	})
	if err != nil {
		return nil, internal(err, "создание подписки")
	}
	subscription.Installments = installments

	ss.logger.Info().
		Uint("subscription_id", subscription.ID).
		Uint("client_id", client.ID).
		Str("payment_status", string(status)).
		Str("price_after", subscription.PriceAfterDiscount.StringFixed(2)).
		Msg("subscription created")

	ss.regenerate(ctx, client.TrainerID, client.ID, subscription.ID)

	if status == models.PaymentPaid && subscription.PriceAfterDiscount.IsPositive() {
		_, err := ss.ledger.EnsureIncomeOnce(ctx, IncomeEntry{
			TrainerID:     client.TrainerID,
			ClientID:      client.ID,
			Source:        models.SourceSubscription,
			Amount:        subscription.PriceAfterDiscount,
			Date:          subscription.StartDate,
			Token:         SubscriptionToken(subscription.ID),
			Notes:         "Subscription payment: " + pkg.Name,
			PaymentMethod: subscription.PaymentMethod,
		})
		ss.sideEffectFailed("ledger", subscription.ID, err)
	}
	for _, installment := range installments {
		if installment.Status != models.InstallmentPaid {
			continue
		}
		ss.recordInstallmentIncome(ctx, client.TrainerID, &installment, subscription.StartDate)
	}

	return &subscription, nil
}

// Renew продлевает подписку на месте и добавляет снимок в историю продлений
func (ss *SubscriptionService) Renew(ctx context.Context, input RenewSubscriptionInput) (*models.Subscription, error) {
	if input.SubscriptionID == 0 {
		return nil, invalidInput("не указан originalSubscriptionId")
	}
	if input.EndDate.IsZero() {
		return nil, invalidInput("не указан endDate")
	}
	unit, status, err := parseTerms(input.DurationValue, input.DurationUnit, input.PaymentStatus)
	if err != nil {
		return nil, err
	}
	installments, err := buildInstallments(input.Installments)
	if err != nil {
		return nil, err
	}

	unlock, err := ss.locker.Lock(ctx, SubscriptionLockKey(input.SubscriptionID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	db := ss.db.WithContext(ctx)

	subscription, client, err := ss.load(db, input.TrainerID, input.SubscriptionID)
	if err != nil {
		return nil, err
	}
	if subscription.IsCanceled {
		return nil, invalidInput("подписка %d отменена", subscription.ID)
	}

	renewalStart := subscription.EndDate
	if input.StartDate != nil && !input.StartDate.IsZero() {
		renewalStart = input.StartDate.UTC()
	}
	newEnd := input.EndDate.UTC()
	if newEnd.Before(renewalStart) || newEnd.Before(subscription.StartDate) {
		return nil, invalidInput("endDate раньше начала периода")
	}

	base := subscription.PriceBeforeDiscount
	if input.PriceBeforeDiscount != nil {
		base = *input.PriceBeforeDiscount
	} else {
		var pkg models.Package
		if err := db.First(&pkg, subscription.PackageID).Error; err == nil {
			base = pkg.Price
		}
	}
	price, err := ss.pricing.ResolveConfigured(priceInput(base, input.Discount))
	if err != nil {
		return nil, err
	}

	renewalIndex := len(subscription.RenewalHistory)
	snapshot := models.RenewalSnapshot{
		RenewedAt:           ss.now().UTC(),
		OriginalEndDate:     subscription.EndDate,
		NewEndDate:          newEnd,
		StartDate:           renewalStart,
		DurationValue:       input.DurationValue,
		DurationUnit:        unit,
		PaymentStatus:       status,
		PriceBeforeDiscount: base,
		PriceAfterDiscount:  price.PriceAfter,
		DiscountKind:        price.Kind,
		DiscountValue:       price.Value,
	}

	history := make(models.RenewalHistory, 0, renewalIndex+1)
	history = append(history, subscription.RenewalHistory...)
	subscription.RenewalHistory = append(history, snapshot)
	subscription.EndDate = newEnd
	subscription.DurationValue = input.DurationValue
	subscription.DurationUnit = unit
	subscription.PaymentStatus = status
	subscription.PaymentMethod = input.PaymentMethod
	subscription.PriceBeforeDiscount = base
	subscription.DiscountApplied = input.Discount.Applied
	subscription.DiscountKind = price.Kind
	subscription.DiscountValue = nullDecimal(price.Value)
	subscription.PriceAfterDiscount = price.PriceAfter

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(subscription).Error; err != nil {
			return err
		}
		for i := range installments {
			installments[i].SubscriptionID = subscription.ID
			installments[i].ClientID = client.ID
			installments[i].RenewalIndex = &renewalIndex
		}
		if len(installments) > 0 {
			return tx.Create(&installments).Error
		}
		return nil
	})
	if err != nil {
		return nil, internal(err, "продление подписки")
	}

	ss.logger.Info().
		Uint("subscription_id", subscription.ID).
		Int("renewal_index", renewalIndex).
		Time("new_end_date", newEnd).
		Msg("subscription renewed")

	ss.regenerate(ctx, client.TrainerID, client.ID, subscription.ID)

	if status == models.PaymentPaid {
		_, err := ss.ledger.EnsureIncomeOnce(ctx, IncomeEntry{
			TrainerID:     client.TrainerID,
			ClientID:      client.ID,
			Source:        models.SourceSubscription,
			Amount:        price.PriceAfter,
			Date:          renewalStart,
			Token:         RenewalToken(subscription.ID, renewalIndex),
			Notes:         "Subscription renewal payment",
			PaymentMethod: input.PaymentMethod,
		})
		ss.sideEffectFailed("ledger", subscription.ID, err)
	}
	if len(installments) > 0 {
		sum := decimal.Zero
		for _, installment := range installments {
			sum = sum.Add(installment.Amount)
		}
		_, err := ss.ledger.EnsureIncomeOnce(ctx, IncomeEntry{
			TrainerID:     client.TrainerID,
			ClientID:      client.ID,
			Source:        models.SourceInstallment,
			Amount:        sum,
			Date:          renewalStart,
			Token:         RenewalInstallmentsToken(subscription.ID, renewalIndex),
			Notes:         "Installments collected at renewal",
			PaymentMethod: input.PaymentMethod,
		})
		ss.sideEffectFailed("ledger", subscription.ID, err)
	}

	subscription.Installments = installments
	return subscription, nil
}

// Hold замораживает подписку, сдвигая дату окончания
func (ss *SubscriptionService) Hold(ctx context.Context, input HoldSubscriptionInput) (*models.Subscription, error) {
	if input.Duration <= 0 {
		return nil, invalidInput("длительность заморозки должна быть положительной")
	}
	unit, ok := models.ParseDurationUnit(input.Unit)
	if !ok {
		return nil, invalidInput("неизвестная единица заморозки %q", input.Unit)
	}

	unlock, err := ss.locker.Lock(ctx, SubscriptionLockKey(input.SubscriptionID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	db := ss.db.WithContext(ctx)

	subscription, client, err := ss.load(db, input.TrainerID, input.SubscriptionID)
	if err != nil {
		return nil, err
	}
	if subscription.IsCanceled {
		return nil, invalidInput("подписка %d отменена", subscription.ID)
	}

	holdStart := subscription.EndDate
	newEnd := unit.AddTo(holdStart, input.Duration)
	duration := input.Duration

	subscription.IsOnHold = true
	subscription.HoldStartDate = &holdStart
	subscription.HoldEndDate = &newEnd
	subscription.HoldDuration = &duration
	subscription.HoldDurationUnit = unit
	subscription.EndDate = newEnd

	hold := models.SubscriptionHold{
		SubscriptionID:   subscription.ID,
		HoldStartDate:    holdStart,
		HoldEndDate:      newEnd,
		HoldDuration:     duration,
		HoldDurationUnit: unit,
		Reason:           strings.TrimSpace(input.Reason),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(subscription).Error; err != nil {
			return err
		}
		return tx.Create(&hold).Error
	})
	if err != nil {
		return nil, internal(err, "заморозка подписки")
	}

	ss.logger.Info().
		Uint("subscription_id", subscription.ID).
		Int("hold_duration", duration).
		Str("hold_unit", string(unit)).
		Time("new_end_date", newEnd).
		Msg("subscription put on hold")

	ss.regenerate(ctx, client.TrainerID, client.ID, subscription.ID)
	return subscription, nil
}

// Cancel отменяет подписку и записывает возврат
func (ss *SubscriptionService) Cancel(ctx context.Context, input CancelSubscriptionInput) (*models.Subscription, error) {
	if input.CancelDate.IsZero() {
		return nil, invalidInput("не указана дата отмены")
	}
	if strings.TrimSpace(input.Reason) == "" {
		return nil, invalidInput("не указана причина отмены")
	}
	refundKind, err := parseRefundKind(input.RefundKind)
	if err != nil {
		return nil, err
	}
	if input.RefundAmount != nil && input.RefundAmount.IsNegative() {
		return nil, invalidInput("сумма возврата не может быть отрицательной")
	}

	unlock, err := ss.locker.Lock(ctx, SubscriptionLockKey(input.SubscriptionID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	db := ss.db.WithContext(ctx)

	subscription, client, err := ss.load(db, input.TrainerID, input.SubscriptionID)
	if err != nil {
		return nil, err
	}
	if subscription.IsCanceled {
		return nil, invalidInput("подписка %d уже отменена", subscription.ID)
	}

	refund := decimal.Zero
	switch {
	case input.RefundAmount != nil && input.RefundAmount.IsPositive():
		refund = *input.RefundAmount
	case refundKind == models.RefundFull:
		refund = subscription.RefundableAmount()
	}

	canceledAt := input.CancelDate.UTC()
	subscription.IsCanceled = true
	subscription.CanceledAt = &canceledAt
	subscription.CancelReason = strings.TrimSpace(input.Reason)
	subscription.RefundKind = refundKind
	if refund.IsPositive() {
		subscription.RefundAmount = decimal.NewNullDecimal(refund)
	} else if input.RefundAmount != nil {
		subscription.RefundAmount = decimal.NewNullDecimal(*input.RefundAmount)
	}

	if err := db.Omit(clause.Associations).Save(subscription).Error; err != nil {
		return nil, internal(err, "отмена подписки")
	}

	ss.logger.Info().
		Uint("subscription_id", subscription.ID).
		Str("refund_kind", string(refundKind)).
		Str("refund", refund.StringFixed(2)).
		Msg("subscription canceled")

	if refund.IsPositive() {
		_, err := ss.ledger.RecordRefund(ctx, RefundEntry{
			TrainerID:     client.TrainerID,
			ClientID:      client.ID,
			Amount:        refund,
			Date:          canceledAt,
			Notes:         fmt.Sprintf("Refund on cancellation of subscription #%d", subscription.ID),
			PaymentMethod: subscription.PaymentMethod,
		})
		ss.sideEffectFailed("refund", subscription.ID, err)
	}

	ss.regenerate(ctx, client.TrainerID, client.ID, subscription.ID)
	return subscription, nil
}

// Get возвращает подписку тренера с рассрочкой
func (ss *SubscriptionService) Get(ctx context.Context, trainerID, subscriptionID uint) (*models.Subscription, error) {
	db := ss.db.WithContext(ctx)
	subscription, _, err := ss.load(db, trainerID, subscriptionID)
	if err != nil {
		return nil, err
	}
	if err := db.Where("subscription_id = ?", subscription.ID).Order("id ASC").Find(&subscription.Installments).Error; err != nil {
		return nil, internal(err, "выборка рассрочки")
	}
	return subscription, nil
}

// ListForClient возвращает подписки клиента, новые первыми
func (ss *SubscriptionService) ListForClient(ctx context.Context, trainerID, clientID uint) ([]models.Subscription, error) {
	db := ss.db.WithContext(ctx)

	var client models.Client
	if err := db.Where("id = ? AND trainer_id = ?", clientID, trainerID).First(&client).Error; err != nil {
		return nil, notFoundOr(err, "клиент не найден")
	}

	var subscriptions []models.Subscription
	err := db.Preload("Installments").
		Where("client_id = ?", client.ID).
		Order("start_date DESC, id DESC").
		Find(&subscriptions).Error
	if err != nil {
		return nil, internal(err, "выборка подписок")
	}
	return subscriptions, nil
}

// PayInstallment отмечает платеж по рассрочке оплаченным
func (ss *SubscriptionService) PayInstallment(ctx context.Context, input PayInstallmentInput) (*models.Installment, error) {
	db := ss.db.WithContext(ctx)

	var installment models.Installment
	err := db.Joins("JOIN clients ON clients.id = installments.client_id").
		Where("installments.id = ? AND clients.trainer_id = ?", input.InstallmentID, input.TrainerID).
		First(&installment).Error
	if err != nil {
		return nil, notFoundOr(err, "платеж не найден")
	}

	unlock, err := ss.locker.Lock(ctx, SubscriptionLockKey(installment.SubscriptionID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := db.First(&installment, installment.ID).Error; err != nil {
		return nil, notFoundOr(err, "платеж не найден")
	}

	if installment.Status != models.InstallmentPaid {
		paidDate := ss.now().UTC()
		if input.PaidDate != nil && !input.PaidDate.IsZero() {
			paidDate = input.PaidDate.UTC()
		}
		installment.Status = models.InstallmentPaid
		installment.PaidDate = &paidDate
		if input.PaymentMethod != "" {
			installment.PaymentMethod = input.PaymentMethod
		}
		if err := db.Save(&installment).Error; err != nil {
			return nil, internal(err, "оплата рассрочки")
		}
		ss.logger.Info().Uint("installment_id", installment.ID).Msg("installment paid")
	}

	// Платежи продления уже учтены суммой при продлении
	if installment.RenewalIndex == nil {
		ss.recordInstallmentIncome(ctx, input.TrainerID, &installment, ss.now().UTC())
	}

	ss.regenerate(ctx, input.TrainerID, installment.ClientID, installment.SubscriptionID)
	return &installment, nil
}

// load возвращает подписку и клиента, если клиент принадлежит тренеру
func (ss *SubscriptionService) load(db *gorm.DB, trainerID, subscriptionID uint) (*models.Subscription, *models.Client, error) {
	var subscription models.Subscription
	if err := db.First(&subscription, subscriptionID).Error; err != nil {
		return nil, nil, notFoundOr(err, "подписка не найдена")
	}
	var client models.Client
	if err := db.Where("id = ? AND trainer_id = ?", subscription.ClientID, trainerID).First(&client).Error; err != nil {
		return nil, nil, notFoundOr(err, "подписка не найдена")
	}
	if subscription.RenewalHistory == nil {
		subscription.RenewalHistory = models.RenewalHistory{}
	}
	return &subscription, &client, nil
}

func (ss *SubscriptionService) recordInstallmentIncome(ctx context.Context, trainerID uint, installment *models.Installment, fallbackDate time.Time) {
	date := fallbackDate
	if installment.PaidDate != nil {
		date = *installment.PaidDate
	}
	_, err := ss.ledger.EnsureIncomeOnce(ctx, IncomeEntry{
		TrainerID:     trainerID,
		ClientID:      installment.ClientID,
		Source:        models.SourceInstallment,
		Amount:        installment.Amount,
		Date:          date,
		Token:         InstallmentToken(installment.ID),
		Notes:         "Installment payment",
		PaymentMethod: installment.PaymentMethod,
	})
	ss.sideEffectFailed("ledger", installment.SubscriptionID, err)
}

func (ss *SubscriptionService) regenerate(ctx context.Context, trainerID, clientID, subscriptionID uint) {
	if ss.generator == nil {
		return
	}
	_, err := ss.generator.RegenerateForClient(ctx, trainerID, clientID)
	ss.sideEffectFailed("regenerate", subscriptionID, err)
}

// sideEffectFailed логирует и считает ошибку побочного эффекта, не прерывая операцию
func (ss *SubscriptionService) sideEffectFailed(sideEffect string, subscriptionID uint, err error) {
	if err == nil {
		return
	}
	ss.metrics.IncSideEffectFailure(sideEffect)
	ss.logger.Error().
		Err(err).
		Str("side_effect", sideEffect).
		Uint("subscription_id", subscriptionID).
		Msg("side effect failed")
}

func parseTerms(durationValue int, rawUnit, rawStatus string) (models.DurationUnit, models.PaymentStatus, error) {
	if durationValue <= 0 {
		return "", "", invalidInput("durationValue должен быть положительным")
	}
	unit, ok := models.ParseDurationUnit(rawUnit)
	if !ok {
		return "", "", invalidInput("неизвестная единица длительности %q", rawUnit)
	}
	status := models.PaymentStatus(strings.ToLower(strings.TrimSpace(rawStatus)))
	if !status.IsValid() {
		return "", "", invalidInput("неизвестный статус оплаты %q", rawStatus)
	}
	return unit, status, nil
}

func parseRefundKind(raw string) (models.RefundKind, error) {
	switch models.RefundKind(strings.ToLower(strings.TrimSpace(raw))) {
	case "", models.RefundNone:
		return models.RefundNone, nil
	case models.RefundFull:
		return models.RefundFull, nil
	case models.RefundPartial:
		return models.RefundPartial, nil
	}
	return "", invalidInput("неизвестный тип возврата %q", raw)
}

func buildInstallments(inputs []InstallmentInput) ([]models.Installment, error) {
	installments := make([]models.Installment, 0, len(inputs))
	for i, input := range inputs {
		if !input.Amount.IsPositive() {
			return nil, invalidInput("сумма платежа %d должна быть положительной", i+1)
		}
		status := input.Status
		if status == "" {
			status = models.InstallmentPending
		}
		if status != models.InstallmentPending && status != models.InstallmentPaid {
			return nil, invalidInput("неизвестный статус платежа %q", input.Status)
		}
		installments = append(installments, models.Installment{
			Amount:          input.Amount,
			Status:          status,
			PaidDate:        utcPtr(input.PaidDate),
			NextInstallment: utcPtr(input.NextInstallment),
			PaymentMethod:   input.PaymentMethod,
			Notes:           input.Notes,
		})
	}
	return installments, nil
}

func priceInput(base decimal.Decimal, discount DiscountInput) PriceInput {
	return PriceInput{
		Base:            base,
		DiscountApplied: discount.Applied,
		Kind:            discount.Kind,
		Value:           discount.Value,
		ExplicitAfter:   discount.PriceAfter,
	}
}

func nullDecimal(value *decimal.Decimal) decimal.NullDecimal {
	if value == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*value)
}
