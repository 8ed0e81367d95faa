package repo

// Session — состояние входа клиента.
type Session struct {
	AccountID string `json:"accountId"`
	Email     string `json:"email"`
	Token     string `json:"-"`
}

// SessionStore описывает локальное хранилище токенов и соли установки.
type SessionStore interface {
	// SaveSession сохраняет токен личности и аккаунт.
	SaveSession(s Session) error
	// LoadSession возвращает сохранённую сессию или ErrNoSession.
	LoadSession() (Session, error)
	// Clear удаляет сессию, vault-токен и ожидающий второй фактор. Соль сохраняется.
	Clear() error

	SaveVaultToken(token string) error
	LoadVaultToken() (string, error)
	ClearVaultToken() error

	// SavePending2FA запоминает аккаунт, ожидающий кода второго фактора.
	SavePending2FA(accountID, email string) error
	LoadPending2FA() (accountID, email string, err error)

	// Salt возвращает соль установки, создавая её при первом обращении.
	Salt() ([]byte, error)
	// SaveKeyCheck и LoadKeyCheck хранят контрольный шифртекст для проверки мастер-пароля.
	SaveKeyCheck(data []byte) error
	LoadKeyCheck() ([]byte, error)
}
