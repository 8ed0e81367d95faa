package repo

import (
	"PassVault/internal/model"
	"testing"

	"github.com/google/uuid"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// newTestDB инициализирует отдельную in-memory SQLite (modernc.org/sqlite) для каждого теста
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	db, err := gorm.Open(dial, &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open sqlite (modernc): %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("failed to automigrate: %v", err)
	}
	return db
}

// mkAccount создаёт аккаунт с настройками по умолчанию
func mkAccount(t *testing.T, db *gorm.DB, email string) *model.Account {
	t.Helper()
	a := &model.Account{ID: uuid.NewString(), Email: email, PasswordHash: "h1", MasterPasswordHash: "h2"}
	if err := NewAccountRepository(db).CreateWithSettings(t.Context(), a, model.DefaultSettings(a.ID)); err != nil {
		t.Fatalf("create account: %v", err)
	}
	return a
}
