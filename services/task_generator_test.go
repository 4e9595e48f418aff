package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"backend_trainerhub/models"
	"backend_trainerhub/testutils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var generatorNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func openAutomaticTasks(t *testing.T, engine *testEngine, category models.TaskCategory) []models.Task {
	t.Helper()
	tasks, err := engine.tasks.List(context.Background(), TaskFilter{
		TrainerID: testutils.TestTrainerID,
		Status:    models.TaskOpen,
		TaskType:  models.TaskAutomatic,
		Category:  category,
	})
	require.NoError(t, err)
	return tasks
}

func TestTaskGeneratorService_SubscriptionEnding(t *testing.T) {
	engine := newTestEngine(t, generatorNow)
	pkg := testutils.CreateTestPackage(engine.db, testutils.TestTrainerID)

	ending := testutils.CreateTestClient(engine.db, testutils.TestTrainerID)
	later := testutils.CreateTestClient(engine.db, testutils.TestTrainerID)
	expired := testutils.CreateTestClient(engine.db, testutils.TestTrainerID)
	canceled := testutils.CreateTestClient(engine.db, testutils.TestTrainerID)

	testutils.CreateTestSubscription(engine.db, ending.ID, pkg.ID, testutils.Date(2024, 4, 1), testutils.Date(2024, 5, 3))
	testutils.CreateTestSubscription(engine.db, ending.ID, pkg.ID, testutils.Date(2024, 4, 2), testutils.Date(2024, 5, 4))
	testutils.CreateTestSubscription(engine.db, later.ID, pkg.ID, testutils.Date(2024, 4, 1), testutils.Date(2024, 5, 20))
	testutils.CreateTestSubscription(engine.db, expired.ID, pkg.ID, testutils.Date(2024, 3, 1), testutils.Date(2024, 4, 30))
	sub := testutils.CreateTestSubscription(engine.db, canceled.ID, pkg.ID, testutils.Date(2024, 4, 1), testutils.Date(2024, 5, 2))
	require.NoError(t, engine.db.Model(sub).Update("is_canceled", true).Error)

	result, err := engine.generator.Regenerate(context.Background(), testutils.TestTrainerID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, int64(1), result.TotalOpen)

	tasks := openAutomaticTasks(t, engine, models.CategorySubscription)
	require.Len(t, tasks, 1)
	assert.Equal(t, ending.ID, tasks[0].ClientID)
	require.NotNil(t, tasks[0].DueDate)
	assert.True(t, tasks[0].DueDate.Equal(testutils.Date(2024, 5, 3)), "earliest ending subscription wins")
	assert.Equal(t, "Subscription ending: Test Client", tasks[0].Title)
}

func TestTaskGeneratorService_Categories(t *testing.T) {
	engine := newTestEngine(t, generatorNow)
	pkg := testutils.CreateTestPackage(engine.db, testutils.TestTrainerID)

	pendingClient := testutils.CreateTestClient(engine.db, testutils.TestTrainerID)
	pending := testutils.CreateTestSubscription(engine.db, pendingClient.ID, pkg.ID, testutils.Date(2024, 4, 1), testutils.Date(2024, 6, 30))
	require.NoError(t, engine.db.Model(pending).Update("payment_status", models.PaymentPending).Error)

	installmentClient := testutils.CreateTestClient(engine.db, testutils.TestTrainerID)
	withInstallments := testutils.CreateTestSubscription(engine.db, installmentClient.ID, pkg.ID, testutils.Date(2024, 4, 1), testutils.Date(2024, 6, 30))
	dueToday := time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)
	dueTomorrow := testutils.Date(2024, 5, 2)
	require.NoError(t, engine.db.Create(&[]models.Installment{
		{SubscriptionID: withInstallments.ID, ClientID: installmentClient.ID, Amount: decimal.NewFromInt(300), Status: models.InstallmentPending, NextInstallment: &dueToday},
		{SubscriptionID: withInstallments.ID, ClientID: installmentClient.ID, Amount: decimal.NewFromInt(300), Status: models.InstallmentPaid, NextInstallment: &dueToday},
		{SubscriptionID: withInstallments.ID, ClientID: installmentClient.ID, Amount: decimal.NewFromInt(300), Status: models.InstallmentPending, NextInstallment: &dueTomorrow},
	}).Error)

	programClient := testutils.CreateTestClient(engine.db, testutils.TestTrainerID)
	inWindow := testutils.Date(2024, 5, 4)
	outOfWindow := testutils.Date(2024, 5, 5)
	otherClient := testutils.CreateTestClient(engine.db, testutils.TestTrainerID)
	require.NoError(t, engine.db.Create(&[]models.ProgramAssignment{
		{TrainerID: testutils.TestTrainerID, ClientID: programClient.ID, ProgramName: "Strength", NextUpdateDate: &inWindow},
		{TrainerID: testutils.TestTrainerID, ClientID: otherClient.ID, ProgramName: "Cardio", NextUpdateDate: &outOfWindow},
	}).Error)

	result, err := engine.generator.Regenerate(context.Background(), testutils.TestTrainerID)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Created)

	payment := openAutomaticTasks(t, engine, models.CategoryPayment)
	require.Len(t, payment, 1)
	assert.Equal(t, pendingClient.ID, payment[0].ClientID)
	assert.Nil(t, payment[0].DueDate)

	installment := openAutomaticTasks(t, engine, models.CategoryInstallment)
	require.Len(t, installment, 1)
	assert.Equal(t, installmentClient.ID, installment[0].ClientID)

	program := openAutomaticTasks(t, engine, models.CategoryProgram)
	require.Len(t, program, 1)
	assert.Equal(t, programClient.ID, program[0].ClientID)
	assert.Contains(t, program[0].Description, "Strength")

	assert.Empty(t, openAutomaticTasks(t, engine, models.CategoryProfile))
	assert.Empty(t, openAutomaticTasks(t, engine, models.CategorySubscription))
}

func TestTaskGeneratorService_ProfileSuppressedAfterDelete(t *testing.T) {
	engine := newTestEngine(t, generatorNow)
	ctx := context.Background()
	client := testutils.CreateIncompleteClient(engine.db, testutils.TestTrainerID)

	result, err := engine.generator.Regenerate(ctx, testutils.TestTrainerID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)

	tasks := openAutomaticTasks(t, engine, models.CategoryProfile)
	require.Len(t, tasks, 1)
	assert.Equal(t, client.ID, tasks[0].ClientID)
	assert.Contains(t, tasks[0].Description, "age")
	assert.Contains(t, tasks[0].Description, "source")

	// Повторный проход не дублирует задачу
	result, err = engine.generator.Regenerate(ctx, testutils.TestTrainerID)
	require.NoError(t, err)
	assert.Zero(t, result.Created)
	assert.Len(t, openAutomaticTasks(t, engine, models.CategoryProfile), 1)

	require.NoError(t, engine.tasks.Delete(ctx, testutils.TestTrainerID, tasks[0].ID))

	for i := 0; i < 3; i++ {
		result, err = engine.generator.Regenerate(ctx, testutils.TestTrainerID)
		require.NoError(t, err)
		assert.Zero(t, result.Created)
	}
	assert.Empty(t, openAutomaticTasks(t, engine, models.CategoryProfile))

	suppressed, err := engine.suppression.IsSuppressed(ctx, testutils.TestTrainerID, client.ID, models.CategoryProfile, models.TaskAutomatic)
	require.NoError(t, err)
	assert.True(t, suppressed)
}

func TestTaskGeneratorService_DeleteDuringScanStaysSuppressed(t *testing.T) {
	engine := newTestEngine(t, generatorNow)
	ctx := context.Background()
	client := testutils.CreateIncompleteClient(engine.db, testutils.TestTrainerID)

	_, err := engine.generator.Regenerate(ctx, testutils.TestTrainerID)
	require.NoError(t, err)
	tasks := openAutomaticTasks(t, engine, models.CategoryProfile)
	require.Len(t, tasks, 1)

	// Удаление приходит сразу после проверки отпечатка, до подсчета открытых задач
	var once sync.Once
	deleted := make(chan error, 1)
	err = engine.db.Callback().Query().After("gorm:query").Register("test:delete_after_marker_check", func(tx *gorm.DB) {
		if tx.Statement.Table != "task_deletion_markers" {
			return
		}
		once.Do(func() {
			go func() {
				deleted <- engine.tasks.Delete(context.Background(), testutils.TestTrainerID, tasks[0].ID)
			}()
			select {
			case err := <-deleted:
				deleted <- err
			case <-time.After(100 * time.Millisecond):
			}
		})
	})
	require.NoError(t, err)

	result, err := engine.generator.RegenerateForClient(ctx, testutils.TestTrainerID, client.ID)
	require.NoError(t, err)
	assert.Zero(t, result.Created)
	require.NoError(t, <-deleted)

	assert.Empty(t, openAutomaticTasks(t, engine, models.CategoryProfile))
	suppressed, err := engine.suppression.IsSuppressed(ctx, testutils.TestTrainerID, client.ID, models.CategoryProfile, models.TaskAutomatic)
	require.NoError(t, err)
	assert.True(t, suppressed)

	result, err = engine.generator.RegenerateForClient(ctx, testutils.TestTrainerID, client.ID)
	require.NoError(t, err)
	assert.Zero(t, result.Created)
}

func TestTaskGeneratorService_SuppressionIsPerCategory(t *testing.T) {
	engine := newTestEngine(t, generatorNow)
	ctx := context.Background()
	pkg := testutils.CreateTestPackage(engine.db, testutils.TestTrainerID)
	client := testutils.CreateTestClient(engine.db, testutils.TestTrainerID)

	require.NoError(t, engine.suppression.Suppress(ctx, testutils.TestTrainerID, client.ID, models.CategoryPayment, models.TaskAutomatic))

	subscription := testutils.CreateTestSubscription(engine.db, client.ID, pkg.ID, testutils.Date(2024, 4, 3), testutils.Date(2024, 5, 3))
	require.NoError(t, engine.db.Model(subscription).Update("payment_status", models.PaymentPending).Error)

	result, err := engine.generator.Regenerate(ctx, testutils.TestTrainerID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)

	assert.Empty(t, openAutomaticTasks(t, engine, models.CategoryPayment))
	ending := openAutomaticTasks(t, engine, models.CategorySubscription)
	require.Len(t, ending, 1)
	assert.Equal(t, client.ID, ending[0].ClientID)
}

func TestTaskGeneratorService_ClosedTaskIsRecreated(t *testing.T) {
	engine := newTestEngine(t, generatorNow)
	ctx := context.Background()
	testutils.CreateIncompleteClient(engine.db, testutils.TestTrainerID)

	_, err := engine.generator.Regenerate(ctx, testutils.TestTrainerID)
	require.NoError(t, err)
	tasks := openAutomaticTasks(t, engine, models.CategoryProfile)
	require.Len(t, tasks, 1)

	_, err = engine.tasks.UpdateStatus(ctx, testutils.TestTrainerID, tasks[0].ID, models.TaskClosed)
	require.NoError(t, err)

	result, err := engine.generator.Regenerate(ctx, testutils.TestTrainerID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Len(t, openAutomaticTasks(t, engine, models.CategoryProfile), 1)
}

func TestTaskGeneratorService_ManualTaskDoesNotBlock(t *testing.T) {
	engine := newTestEngine(t, generatorNow)
	ctx := context.Background()
	client := testutils.CreateIncompleteClient(engine.db, testutils.TestTrainerID)

	_, err := engine.tasks.CreateManual(ctx, CreateTaskInput{
		TrainerID: testutils.TestTrainerID,
		ClientID:  client.ID,
		Title:     "Call about profile",
		Category:  models.CategoryProfile,
	})
	require.NoError(t, err)

	result, err := engine.generator.Regenerate(ctx, testutils.TestTrainerID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
}

func TestTaskGeneratorService_ConcurrentRegenerate(t *testing.T) {
	engine := newTestEngine(t, generatorNow)
	for i := 0; i < 3; i++ {
		testutils.CreateIncompleteClient(engine.db, testutils.TestTrainerID)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.generator.Regenerate(context.Background(), testutils.TestTrainerID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.generator.RegenerateForClient(context.Background(), testutils.TestTrainerID, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	tasks := openAutomaticTasks(t, engine, models.CategoryProfile)
	assert.Len(t, tasks, 3)
	seen := make(map[uint]bool)
	for _, task := range tasks {
		assert.False(t, seen[task.ClientID], "duplicate open task for client %d", task.ClientID)
		seen[task.ClientID] = true
	}
}

func TestTaskGeneratorService_RegenerateForClient(t *testing.T) {
	engine := newTestEngine(t, generatorNow)
	first := testutils.CreateIncompleteClient(engine.db, testutils.TestTrainerID)
	testutils.CreateIncompleteClient(engine.db, testutils.TestTrainerID)

	result, err := engine.generator.RegenerateForClient(context.Background(), testutils.TestTrainerID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, int64(1), result.TotalOpen)
}

func TestTaskGeneratorService_RegenerateAll(t *testing.T) {
	engine := newTestEngine(t, generatorNow)
	testutils.CreateIncompleteClient(engine.db, testutils.TestTrainerID)
	testutils.CreateIncompleteClient(engine.db, testutils.TestTrainerID+1)

	created, err := engine.generator.RegenerateAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	var other int64
	require.NoError(t, engine.db.Model(&models.Task{}).Where("trainer_id = ?", testutils.TestTrainerID+1).Count(&other).Error)
	assert.Equal(t, int64(1), other)
}

type recordingNotifier struct {
	mu      sync.Mutex
	batches [][]models.Task
	err     error
}

func (r *recordingNotifier) NotifyTasksCreated(_ context.Context, _ uint, tasks []models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, tasks)
	return r.err
}

func TestTaskGeneratorService_Notifier(t *testing.T) {
	engine := newTestEngine(t, generatorNow)
	notifier := &recordingNotifier{err: errors.New("telegram unavailable")}
	generator := NewTaskGeneratorService(engine.db, engine.suppression, nil, notifier, nil)
	generator.SetClock(func() time.Time { return generatorNow })
	testutils.CreateIncompleteClient(engine.db, testutils.TestTrainerID)

	result, err := generator.Regenerate(context.Background(), testutils.TestTrainerID)
	require.NoError(t, err, "notification failure is not an error")
	assert.Equal(t, 1, result.Created)
	require.Len(t, notifier.batches, 1)
	assert.Len(t, notifier.batches[0], 1)

	_, err = generator.Regenerate(context.Background(), testutils.TestTrainerID)
	require.NoError(t, err)
	assert.Len(t, notifier.batches, 1, "nothing new, nothing sent")
}

func TestTaskTitle(t *testing.T) {
	tests := []struct {
		category models.TaskCategory
		name     string
		expected string
	}{
		{models.CategorySubscription, "Anna", "Subscription ending: Anna"},
		{models.CategoryPayment, "Anna", "Pending payment: Anna"},
		{models.CategoryProfile, "", "Complete profile: Unknown Client"},
		{models.CategoryInstallment, "Anna", "Installment due: Anna"},
		{models.CategoryProgram, "Anna", "Program update due: Anna"},
	}
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			assert.Equal(t, tt.expected, taskTitle(tt.category, tt.name))
		})
	}
}
