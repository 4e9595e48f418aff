package services

import (
	"context"
	"testing"

	"backend_trainerhub/models"
	"backend_trainerhub/testutils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerReconciler_Sweep(t *testing.T) {
	engine := newTestEngine(t, generatorNow)
	ctx := context.Background()
	client := testutils.CreateTestClient(engine.db, testutils.TestTrainerID)
	pkg := testutils.CreateTestPackage(engine.db, testutils.TestTrainerID)

	created, err := engine.subscriptions.Create(ctx, paidInput(client.ID, pkg.ID))
	require.NoError(t, err)
	_, err = engine.subscriptions.Renew(ctx, RenewSubscriptionInput{
		TrainerID:      testutils.TestTrainerID,
		SubscriptionID: created.ID,
		EndDate:        testutils.Date(2024, 3, 1),
		DurationValue:  1,
		DurationUnit:   "month",
		PaymentStatus:  "paid",
		Installments:   []InstallmentInput{{Amount: decimal.NewFromInt(100)}},
	})
	require.NoError(t, err)

	// Запись журнала, пропущенная из-за сбоя, без продлений в истории
	orphan := testutils.CreateTestSubscription(engine.db, client.ID, pkg.ID, testutils.Date(2024, 2, 1), testutils.Date(2024, 2, 29))
	pending := testutils.CreateTestSubscription(engine.db, client.ID, pkg.ID, testutils.Date(2024, 2, 1), testutils.Date(2024, 2, 29))
	require.NoError(t, engine.db.Model(pending).Update("payment_status", models.PaymentPending).Error)

	before := len(engine.ledgerRows(t))
	require.Equal(t, 3, before)

	reconciler := NewLedgerReconciler(engine.db, engine.ledger)
	result, err := reconciler.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
	assert.Zero(t, result.Failed)

	rows := engine.ledgerRows(t)
	require.Len(t, rows, 4)
	assert.Equal(t, SubscriptionToken(orphan.ID), *rows[3].IdempotencyKey)

	result, err = reconciler.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, result.Inserted)
	assert.Len(t, engine.ledgerRows(t), 4)
}
