package database

import (
	"database/sql"
	"fmt"
	"time"

	"backend_trainerhub/config"
	"backend_trainerhub/logging"
	"backend_trainerhub/models"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// CreateDatabaseIfNotExists создает базу данных, если она не существует
func CreateDatabaseIfNotExists(cfg *config.Config) error {
	if cfg.Database.Driver != "postgres" {
		return nil
	}
	log := logging.Component("database")

	// Подключаемся к служебной БД postgres
	db, err := sql.Open("postgres", cfg.GetAdminDatabaseDSN())
	if err != nil {
		return fmt.Errorf("не удалось подключиться к PostgreSQL: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("не удалось проверить подключение к PostgreSQL: %w", err)
	}

	var exists bool
	query := "SELECT EXISTS(SELECT datname FROM pg_catalog.pg_database WHERE datname = $1);"
	if err := db.QueryRow(query, cfg.Database.Name).Scan(&exists); err != nil {
		return fmt.Errorf("ошибка при проверке существования базы данных: %w", err)
	}

	if exists {
		log.Info().Str("database", cfg.Database.Name).Msg("database already exists")
		return nil
	}

	createQuery := fmt.Sprintf("CREATE DATABASE %s;", cfg.Database.Name)
	if _, err := db.Exec(createQuery); err != nil {
		return fmt.Errorf("не удалось создать базу данных '%s': %w", cfg.Database.Name, err)
	}

	log.Info().Str("database", cfg.Database.Name).Msg("database created")
	return nil
}

// ConnectDatabase инициализирует подключение к PostgreSQL или SQLite
func ConnectDatabase(cfg *config.Config) error {
	log := logging.Component("database")

	logLevel := logger.Silent
	if cfg.Database.LogSQL {
		logLevel = logger.Info
	}
	gormConfig := &gorm.Config{
		Logger:  logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}

	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.GetDatabaseDSN())
	default:
		dialector = postgres.Open(cfg.GetDatabaseDSN())
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return fmt.Errorf("не удалось подключиться к базе данных: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("не удалось получить пул соединений: %w", err)
	}
	if cfg.Database.Driver == "sqlite" {
		// SQLite допускает только одного писателя
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	}

	log.Info().Str("driver", cfg.Database.Driver).Msg("connected to database")

	if err := AutoMigrate(db); err != nil {
		return fmt.Errorf("ошибка автомиграции: %w", err)
	}
	if err := CreateIndexes(db); err != nil {
		return fmt.Errorf("ошибка создания индексов: %w", err)
	}

	DB = db
	return nil
}

// GetDB возвращает экземпляр базы данных
func GetDB() *gorm.DB {
	return DB
}

// Close закрывает соединения с базой данных
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AutoMigrate выполняет автомиграцию всех моделей
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Client{},
		&models.Package{},
		&models.TeamMember{},
		&models.ProgramAssignment{},
		&models.Subscription{},
		&models.SubscriptionHold{},
		&models.Installment{},
		&models.FinancialRecord{},
		&models.Task{},
		&models.TaskComment{},
		&models.TaskDeletionMarker{},
	)
	if err != nil {
		return err
	}

	logger := logging.Component("database")
	logger.Debug().Msg("models migrated")
	return nil
}
