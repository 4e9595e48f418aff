package services

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	"backend_trainerhub/config"
	"backend_trainerhub/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TaskNotifier сообщает тренеру о новых автоматических задачах
type TaskNotifier interface {
	NotifyTasksCreated(ctx context.Context, trainerID uint, tasks []models.Task) error
}

// NoopNotifier используется, когда уведомления не настроены
type NoopNotifier struct{}

// NotifyTasksCreated ничего не делает
func (NoopNotifier) NotifyTasksCreated(context.Context, uint, []models.Task) error {
	return nil
}

// messageSender часть tgbotapi.BotAPI, нужная для отправки
type messageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramTaskNotifier отправляет сводку новых задач в Telegram чат
type TelegramTaskNotifier struct {
	sender messageSender
	chatID int64
}

// NewTelegramTaskNotifier авторизует бота и создает уведомитель
func NewTelegramTaskNotifier(cfg config.TelegramConfig) (*TelegramTaskNotifier, error) {
	chatID, err := strconv.ParseInt(cfg.ChatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("неверный chat ID: %s", cfg.ChatID)
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания Telegram бота: %w", err)
	}
	bot.Debug = false

	return &TelegramTaskNotifier{sender: bot, chatID: chatID}, nil
}

// NotifyTasksCreated отправляет одно сообщение на проход генератора
func (tn *TelegramTaskNotifier) NotifyTasksCreated(ctx context.Context, trainerID uint, tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(tn.chatID, FormatTasksMessage(trainerID, tasks))
	msg.ParseMode = tgbotapi.ModeHTML

	if _, err := tn.sender.Send(msg); err != nil {
		return fmt.Errorf("ошибка отправки сообщения: %w", err)
	}
	return nil
}

// FormatTasksMessage формирует HTML текст уведомления
func FormatTasksMessage(trainerID uint, tasks []models.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>Новые задачи (%d)</b>\nТренер #%d\n", len(tasks), trainerID)
	for _, task := range tasks {
		fmt.Fprintf(&b, "\n• <b>%s</b>: %s", html.EscapeString(string(task.Category)), html.EscapeString(task.Title))
		if task.DueDate != nil {
			fmt.Fprintf(&b, " (до %s)", task.DueDate.Format("02.01.2006"))
		}
	}
	return b.String()
}
