package services

import (
	"context"
	"testing"

	"backend_trainerhub/config"
	"backend_trainerhub/models"
	"backend_trainerhub/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerService_Start(t *testing.T) {
	engine := newTestEngine(t, generatorNow)

	tests := []struct {
		name    string
		cfg     config.SchedulerConfig
		jobs    int
		wantErr bool
	}{
		{"Выключен", config.SchedulerConfig{Enabled: false, RegenerateCron: "0 */15 * * * *"}, 0, false},
		{"Оба задания", config.SchedulerConfig{Enabled: true, RegenerateCron: "0 */15 * * * *", ReconcileCron: "0 5 * * * *"}, 2, false},
		{"Пустое выражение пропускается", config.SchedulerConfig{Enabled: true, RegenerateCron: "0 */15 * * * *"}, 1, false},
		{"Некорректное выражение", config.SchedulerConfig{Enabled: true, RegenerateCron: "every minute"}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scheduler := NewSchedulerService(tt.cfg, engine.generator, NewLedgerReconciler(engine.db, engine.ledger))
			err := scheduler.Start()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer scheduler.Stop()
			assert.Len(t, scheduler.cron.Entries(), tt.jobs)
		})
	}
}

func TestSchedulerService_Jobs(t *testing.T) {
	engine := newTestEngine(t, generatorNow)
	testutils.CreateIncompleteClient(engine.db, testutils.TestTrainerID)

	scheduler := NewSchedulerService(config.SchedulerConfig{}, engine.generator, NewLedgerReconciler(engine.db, engine.ledger))
	scheduler.runRegenerate(context.Background())
	scheduler.runReconcile(context.Background())

	var open int64
	require.NoError(t, engine.db.Model(&models.Task{}).Where("status = ?", models.TaskOpen).Count(&open).Error)
	assert.Equal(t, int64(1), open)
}
