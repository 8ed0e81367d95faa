package model

import "time"

// Theme — тема интерфейса клиента.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// Valid сообщает, допустимо ли значение темы.
func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeAuto:
		return true
	}
	return false
}

// Settings — изменяемое состояние аккаунта: тема и второй фактор.
//
// TwoFactorSecret — активный секрет, по нему проверяется вход при TwoFactorEnabled.
// TwoFactorPendingSecret — секрет ожидающего подтверждения подключения; становится
// активным только после успешной проверки кода.
type Settings struct {
	AccountID              string    `gorm:"primaryKey;type:uuid"`
	Account                *Account  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Theme                  Theme     `gorm:"not null;default:auto"`
	TwoFactorEnabled       bool      `gorm:"not null;default:false"`
	TwoFactorSecret        string    `json:"-"`
	TwoFactorPendingSecret string    `json:"-"`
	CreatedAt              time.Time `gorm:"autoCreateTime"`
	UpdatedAt              time.Time `gorm:"autoUpdateTime"`
}

// DefaultSettings возвращает настройки нового аккаунта.
func DefaultSettings(accountID string) *Settings {
	return &Settings{AccountID: accountID, Theme: ThemeAuto}
}
