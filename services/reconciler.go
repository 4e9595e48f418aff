package services

import (
	"context"

	"backend_trainerhub/logging"
	"backend_trainerhub/models"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReconcileResult итог сверки журнала
type ReconcileResult struct {
	Checked  int `json:"checked"`
	Inserted int `json:"inserted"`
	Failed   int `json:"failed"`
}

// LedgerReconciler повторно отражает в журнале оплаты, запись которых
// могла не пройти при изменении подписки. Повторный запуск безопасен.
type LedgerReconciler struct {
	db     *gorm.DB
	ledger *LedgerService
	logger zerolog.Logger
}

// NewLedgerReconciler создает новый экземпляр LedgerReconciler
func NewLedgerReconciler(db *gorm.DB, ledger *LedgerService) *LedgerReconciler {
	return &LedgerReconciler{
		db:     db,
		ledger: ledger,
		logger: logging.Component("reconciler"),
	}
}

// Sweep проходит подписки и рассрочки всех тренеров
func (lr *LedgerReconciler) Sweep(ctx context.Context) (ReconcileResult, error) {
	var result ReconcileResult
	db := lr.db.WithContext(ctx)

	var clients []models.Client
	if err := db.Select("id", "trainer_id").Find(&clients).Error; err != nil {
		return result, internal(err, "выборка клиентов")
	}
	trainerOf := make(map[uint]uint, len(clients))
	for _, client := range clients {
		trainerOf[client.ID] = client.TrainerID
	}

	var subscriptions []models.Subscription
	if err := db.Order("id ASC").Find(&subscriptions).Error; err != nil {
		return result, internal(err, "выборка подписок")
	}

	var installments []models.Installment
	if err := db.Order("id ASC").Find(&installments).Error; err != nil {
		return result, internal(err, "выборка рассрочки")
	}
	renewalSums := make(map[uint]map[int]decimal.Decimal)
	for _, installment := range installments {
		if installment.RenewalIndex == nil {
			if installment.Status != models.InstallmentPaid {
				continue
			}
			date := installment.CreatedAt
			if installment.PaidDate != nil {
				date = *installment.PaidDate
			}
			lr.ensure(ctx, &result, IncomeEntry{
				TrainerID:     trainerOf[installment.ClientID],
				ClientID:      installment.ClientID,
				Source:        models.SourceInstallment,
				Amount:        installment.Amount,
				Date:          date,
				Token:         InstallmentToken(installment.ID),
				Notes:         "Installment payment",
				PaymentMethod: installment.PaymentMethod,
			})
			continue
		}
		sums, ok := renewalSums[installment.SubscriptionID]
		if !ok {
			sums = make(map[int]decimal.Decimal)
			renewalSums[installment.SubscriptionID] = sums
		}
		sums[*installment.RenewalIndex] = sums[*installment.RenewalIndex].Add(installment.Amount)
	}

	for _, subscription := range subscriptions {
		trainerID, ok := trainerOf[subscription.ClientID]
		if !ok {
			continue
		}

		// Цена первоначальной оплаты перезаписывается продлением, поэтому
		// восстанавливается только для подписок без продлений.
		if len(subscription.RenewalHistory) == 0 && subscription.PaymentStatus == models.PaymentPaid {
			lr.ensure(ctx, &result, IncomeEntry{
				TrainerID:     trainerID,
				ClientID:      subscription.ClientID,
				Source:        models.SourceSubscription,
				Amount:        subscription.PriceAfterDiscount,
				Date:          subscription.StartDate,
				Token:         SubscriptionToken(subscription.ID),
				Notes:         "Subscription payment",
				PaymentMethod: subscription.PaymentMethod,
			})
		}

		for index, snapshot := range subscription.RenewalHistory {
			if snapshot.PaymentStatus == models.PaymentPaid {
				lr.ensure(ctx, &result, IncomeEntry{
					TrainerID:     trainerID,
					ClientID:      subscription.ClientID,
					Source:        models.SourceSubscription,
					Amount:        snapshot.PriceAfterDiscount,
					Date:          snapshot.StartDate,
					Token:         RenewalToken(subscription.ID, index),
					Notes:         "Subscription renewal payment",
					PaymentMethod: subscription.PaymentMethod,
				})
			}
			if sum, ok := renewalSums[subscription.ID][index]; ok {
				lr.ensure(ctx, &result, IncomeEntry{
					TrainerID:     trainerID,
					ClientID:      subscription.ClientID,
					Source:        models.SourceInstallment,
					Amount:        sum,
					Date:          snapshot.StartDate,
					Token:         RenewalInstallmentsToken(subscription.ID, index),
					Notes:         "Installments collected at renewal",
					PaymentMethod: subscription.PaymentMethod,
				})
			}
		}
	}

	lr.logger.Info().
		Int("checked", result.Checked).
		Int("inserted", result.Inserted).
		Int("failed", result.Failed).
		Msg("ledger sweep completed")
	return result, nil
}

func (lr *LedgerReconciler) ensure(ctx context.Context, result *ReconcileResult, entry IncomeEntry) {
	result.Checked++
	created, err := lr.ledger.EnsureIncomeOnce(ctx, entry)
	if err != nil {
		result.Failed++
		lr.logger.Error().Err(err).Str("token", entry.Token).Msg("ledger sweep entry failed")
		return
	}
	if created {
		result.Inserted++
	}
}
