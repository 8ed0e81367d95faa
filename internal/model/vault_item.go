package model

import "time"

// DefaultFolder — папка записи по умолчанию.
const DefaultFolder = "General"

// ItemMeta — открытые метаданные записи. Секрет хранится только в Ciphertext.
type ItemMeta struct {
	Name     string   `gorm:"not null;index" json:"name"`
	Website  string   `json:"website,omitempty"`
	Username string   `json:"username,omitempty"`
	Note     string   `json:"note,omitempty"`
	Tags     []string `gorm:"serializer:json" json:"tags"`
	Folder   string   `gorm:"not null;default:General;index" json:"folder"`
}

// VaultItem — зашифрованная на клиенте запись хранилища.
// Ciphertext и Nonce для сервера непрозрачны; OwnerID не меняется после создания.
type VaultItem struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	OwnerID    string    `gorm:"not null;index;type:uuid" json:"-"`
	Owner      *Account  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Ciphertext string    `gorm:"not null" json:"ciphertext"`
	Nonce      string    `gorm:"not null" json:"nonce"`
	Meta       ItemMeta  `gorm:"embedded;embeddedPrefix:meta_" json:"meta"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
