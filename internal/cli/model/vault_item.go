package model

import "time"

// ItemMeta — открытые метаданные записи, видимые серверу.
type ItemMeta struct {
	Name     string   `json:"name"`
	Website  string   `json:"website,omitempty"`
	Username string   `json:"username,omitempty"`
	Note     string   `json:"note,omitempty"`
	Tags     []string `json:"tags"`
	Folder   string   `json:"folder"`
}

// VaultItem — запись в том виде, в каком её хранит сервер.
type VaultItem struct {
	ID         string    `json:"id"`
	Ciphertext string    `json:"ciphertext"`
	Nonce      string    `json:"nonce"`
	Meta       ItemMeta  `json:"meta"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Secret — содержимое шифртекста записи.
type Secret struct {
	Password string `json:"password"`
}

// DecryptedItem — запись с расшифрованным паролем для вывода в CLI.
type DecryptedItem struct {
	ID        string
	Meta      ItemMeta
	Password  string
	UpdatedAt time.Time
}

// ExportedItem — запись в файле экспорта. Salt нужна, чтобы импорт на другой установке
// мог вывести ключ исходного шифрования.
type ExportedItem struct {
	Ciphertext string   `json:"ciphertext"`
	Nonce      string   `json:"nonce"`
	Meta       ItemMeta `json:"meta"`
}

// ExportFile — формат файла экспорта.
type ExportFile struct {
	Version    int            `json:"version"`
	Salt       string         `json:"salt"`
	ExportedAt time.Time      `json:"exportedAt"`
	Items      []ExportedItem `json:"items"`
}
