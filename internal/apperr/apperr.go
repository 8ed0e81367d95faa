// Package apperr описывает таксономию ошибок сервера и её отображение на HTTP-статусы.
package apperr

import (
	"errors"
	"net/http"
)

// Kind — класс ошибки. Клиент реагирует на класс, а не на конкретную причину.
type Kind uint8

const (
	KindInternal Kind = iota
	// KindValidation — некорректный ввод, повтор бессмысленен.
	KindValidation
	// KindAuthentication — неверные учётные данные или токен, нужна повторная аутентификация.
	KindAuthentication
	// KindAuthorization — личность подтверждена, но доступ вне её области (например, чужой vault-токен).
	KindAuthorization
	// KindVaultLocked — личность подтверждена, но хранилище не разблокировано мастер-паролем.
	KindVaultLocked
	// KindConflict — нарушение уникальности (аккаунт уже существует).
	KindConflict
	// KindNotFound — запись не найдена в области владельца.
	KindNotFound
	// KindUnavailable — хранилище недоступно, безопасно повторить с задержкой.
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindVaultLocked:
		return "vault_locked"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Error — ошибка приложения с машинным кодом и сообщением для пользователя.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	status  int
}

// New создаёт ошибку заданного класса.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// WithStatus возвращает копию ошибки с явно заданным HTTP-статусом.
func (e *Error) WithStatus(status int) *Error {
	c := *e
	c.status = status
	return &c
}

func (e *Error) Error() string { return e.Message }

// Status возвращает HTTP-статус ошибки.
func (e *Error) Status() int {
	if e.status != 0 {
		return e.status
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication, KindVaultLocked:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

var (
	ErrValidation          = New(KindValidation, "invalid_request", "invalid request")
	ErrUnavailable         = New(KindUnavailable, "unavailable", "service temporarily unavailable, retry later")
	ErrUnauthenticated     = New(KindAuthentication, "unauthenticated", "authentication required")
	ErrVaultLocked         = New(KindVaultLocked, "vault_locked", "vault access denied, unlock the vault with your master password")
	ErrVaultSessionExpired = New(KindVaultLocked, "vault_session_expired", "vault session expired, unlock the vault again")
	ErrVaultTokenInvalid   = New(KindVaultLocked, "vault_token_invalid", "invalid vault access token")
	ErrSubjectMismatch     = New(KindAuthorization, "subject_mismatch", "vault access token user mismatch")
)

// From извлекает *Error из цепочки. Неизвестные ошибки становятся внутренними.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return New(KindInternal, "internal", "internal error")
}

// KindOf возвращает класс ошибки.
func KindOf(err error) Kind {
	return From(err).Kind
}

// Retryable сообщает, можно ли повторить запрос.
func Retryable(err error) bool {
	return KindOf(err) == KindUnavailable
}
