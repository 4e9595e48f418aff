package database

import (
	"fmt"
	"strings"

	"backend_trainerhub/logging"

	"gorm.io/gorm"
)

// DatabaseIndex представляет индекс базы данных
type DatabaseIndex struct {
	Name    string
	Table   string
	Columns []string
	Unique  bool
	// Where делает индекс частичным
	Where string
}

// UniqueIndexes индексы, на которых держится идемпотентность движка
var UniqueIndexes = []DatabaseIndex{
	{
		Name:    "idx_tasks_open_automatic",
		Table:   "tasks",
		Columns: []string{"trainer_id", "client_id", "category"},
		Unique:  true,
		Where:   "status = 'open' AND task_type = 'automatic'",
	},
}

// PerformanceIndexes индексы для оптимизации выборок генератора задач и журнала
var PerformanceIndexes = []DatabaseIndex{
	{
		Name:    "idx_subscriptions_client_end",
		Table:   "subscriptions",
		Columns: []string{"client_id", "end_date"},
	},
	{
		Name:    "idx_subscriptions_payment_canceled",
		Table:   "subscriptions",
		Columns: []string{"payment_status", "is_canceled"},
	},
	{
		Name:    "idx_installments_status_next",
		Table:   "installments",
		Columns: []string{"status", "next_installment"},
	},
	{
		Name:    "idx_tasks_trainer_status_type",
		Table:   "tasks",
		Columns: []string{"trainer_id", "status", "task_type"},
	},
	{
		Name:    "idx_financial_records_trainer_date",
		Table:   "financial_records",
		Columns: []string{"trainer_id", "date"},
	},
}

// CreateIndexes создает уникальные и производительные индексы.
// Ошибка уникального индекса прерывает запуск, производительного только логируется.
func CreateIndexes(db *gorm.DB) error {
	log := logging.Component("database")

	for _, index := range UniqueIndexes {
		if err := CreateIndex(db, index); err != nil {
			return fmt.Errorf("не удалось создать индекс %s: %w", index.Name, err)
		}
	}

	for _, index := range PerformanceIndexes {
		if err := CreateIndex(db, index); err != nil {
			log.Warn().Err(err).Str("index", index.Name).Msg("failed to create index")
			continue
		}
	}

	log.Debug().Int("unique", len(UniqueIndexes)).Int("performance", len(PerformanceIndexes)).Msg("indexes ensured")
	return nil
}

// CreateIndex создает отдельный индекс
func CreateIndex(db *gorm.DB, index DatabaseIndex) error {
	uniqueStr := ""
	if index.Unique {
		uniqueStr = "UNIQUE "
	}

	sql := fmt.Sprintf(
		"CREATE %sINDEX IF NOT EXISTS %s ON %s (%s)",
		uniqueStr, index.Name, index.Table, strings.Join(index.Columns, ", "),
	)
	if index.Where != "" {
		sql += " WHERE " + index.Where
	}

	return db.Exec(sql).Error
}
