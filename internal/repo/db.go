package repo

import (
	"PassVault/internal/model"
	"errors"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate — нарушено ограничение уникальности.
	ErrDuplicate = errors.New("duplicate")
)

// DefaultDSN — файл SQLite для локального запуска.
const DefaultDSN = "file:passvault.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// InitDB открывает БД по строке подключения и применяет миграции.
// postgres:// и DSN вида "host=..." обслуживает драйвер Postgres, остальное — SQLite (modernc).
func InitDB(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}
	cfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	}

	var dial gorm.Dialector
	sqlite := !isPostgresDSN(dsn)
	if sqlite {
		dial = gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	} else {
		dial = postgres.Open(dsn)
	}

	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if sqlite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// SQLite допускает одного писателя
		sqlDB.SetMaxOpenConns(1)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate создаёт или обновляет таблицы моделей.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Account{}, &model.Settings{}, &model.VaultItem{}); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}

// isUniqueViolation распознаёт нарушение уникальности в Postgres и SQLite.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
