package testutils

import (
	"time"

	"backend_trainerhub/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB создает и настраивает тестовую базу данных в памяти
// Эта функция должна использоваться во всех тестах для обеспечения консистентности
func SetupTestDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}

	// База в памяти живет, пока открыто единственное соединение
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		return nil, err
	}
	if err := database.CreateIndexes(db); err != nil {
		return nil, err
	}

	return db, nil
}

// CleanupTestDB закрывает тестовую базу данных
func CleanupTestDB(db *gorm.DB) {
	if db != nil {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	}
}
