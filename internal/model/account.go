package model

import "time"

// Account — учётная запись. Хеши паролей никогда не сериализуются наружу.
type Account struct {
	ID                       string    `gorm:"primaryKey;type:uuid"`
	Email                    string    `gorm:"not null;uniqueIndex"`
	PasswordHash             string    `gorm:"not null" json:"-"`
	MasterPasswordHash       string    `gorm:"not null" json:"-"`
	CreatedAt                time.Time `gorm:"autoCreateTime"`
	LastMasterPasswordChange time.Time
}
