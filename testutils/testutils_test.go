package testutils

import (
	"testing"

	"backend_trainerhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupTestDB(t *testing.T) {
	db, err := SetupTestDB()
	require.NoError(t, err, "Should setup test database without error")
	require.NotNil(t, db, "Database should not be nil")
	defer CleanupTestDB(db)

	var tableCount int64
	err = db.Raw("SELECT COUNT(*) FROM sqlite_master WHERE type='table'").Scan(&tableCount).Error
	require.NoError(t, err, "Should be able to query sqlite_master")
	assert.GreaterOrEqual(t, tableCount, int64(11), "Should have created all engine tables")

	var indexCount int64
	err = db.Raw("SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name = ?", "idx_tasks_open_automatic").Scan(&indexCount).Error
	require.NoError(t, err)
	assert.Equal(t, int64(1), indexCount, "Partial unique index on open automatic tasks should exist")
}

func TestCreateFixtures(t *testing.T) {
	db, err := SetupTestDB()
	require.NoError(t, err)
	defer CleanupTestDB(db)

	client := CreateTestClient(db, TestTrainerID)
	require.NotNil(t, client)
	assert.Empty(t, client.MissingProfileFields())

	incomplete := CreateIncompleteClient(db, TestTrainerID)
	require.NotNil(t, incomplete)
	assert.Equal(t, []string{"age", "source"}, incomplete.MissingProfileFields())

	pkg := CreateTestPackage(db, TestTrainerID)
	require.NotNil(t, pkg)

	subscription := CreateTestSubscription(db, client.ID, pkg.ID, Date(2024, 1, 1), Date(2024, 1, 31))
	require.NotNil(t, subscription)

	var loaded models.Subscription
	require.NoError(t, db.First(&loaded, subscription.ID).Error)
	assert.Equal(t, models.PaymentPaid, loaded.PaymentStatus)
	assert.Empty(t, loaded.RenewalHistory)
}

func TestSetupTestConfig(t *testing.T) {
	cfg := SetupTestConfig(t)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Scheduler.Enabled)
	assert.NotEmpty(t, cfg.JWT.Secret)
}
