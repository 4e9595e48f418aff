package services

import (
	"context"
	"errors"
	"testing"

	"backend_trainerhub/models"
	"backend_trainerhub/testutils"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func TestTelegramTaskNotifier_NotifyTasksCreated(t *testing.T) {
	sender := &fakeSender{}
	notifier := &TelegramTaskNotifier{sender: sender, chatID: 100}

	due := testutils.Date(2024, 5, 3)
	tasks := []models.Task{
		{Category: models.CategorySubscription, Title: "Subscription ending: <Anna>", DueDate: &due},
		{Category: models.CategoryProfile, Title: "Complete profile: Bob"},
	}

	require.NoError(t, notifier.NotifyTasksCreated(context.Background(), 7, tasks))
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, int64(100), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)
	assert.Contains(t, msg.Text, "Новые задачи (2)")
	assert.Contains(t, msg.Text, "&lt;Anna&gt;")
	assert.Contains(t, msg.Text, "до 03.05.2024")

	// Пустой список не отправляется
	require.NoError(t, notifier.NotifyTasksCreated(context.Background(), 7, nil))
	assert.Len(t, sender.sent, 1)
}

func TestTelegramTaskNotifier_SendError(t *testing.T) {
	notifier := &TelegramTaskNotifier{sender: &fakeSender{err: errors.New("network down")}, chatID: 1}
	err := notifier.NotifyTasksCreated(context.Background(), 7, []models.Task{{Title: "x"}})
	assert.Error(t, err)
}

func TestNoopNotifier(t *testing.T) {
	assert.NoError(t, NoopNotifier{}.NotifyTasksCreated(context.Background(), 1, []models.Task{{}}))
}
