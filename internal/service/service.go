// Package service содержит бизнес-логику сервера: регистрацию и вход, разблокировку хранилища,
// второй фактор, настройки и зашифрованные записи.
//
// Сервисы не хранят изменяемого состояния кроме конфигурации и создаются один раз при старте.
package service

import (
	"PassVault/internal/apperr"
	"PassVault/internal/token"
	"PassVault/internal/totp"
	"context"
	"fmt"
	"time"
)

// PasswordHasher — односторонний хеш паролей.
type PasswordHasher interface {
	Hash(secret string) (string, error)
	Verify(secret, digest string) bool
}

// TokenManager выпускает и проверяет токены-возможности.
type TokenManager interface {
	Issue(subject string, claims token.ClaimSet, ttl time.Duration) (string, error)
	Verify(tokenString string) (token.Capability, error)
}

// OTP — генерация и проверка одноразовых кодов.
type OTP interface {
	Enroll(label string) (totp.Enrollment, error)
	Verify(secret, code string, window uint) bool
}

// Options — параметры сервисов из конфигурации.
type Options struct {
	IdentityTTL  time.Duration
	VaultTTL     time.Duration
	StoreTimeout time.Duration
	TOTPWindow   uint
}

// DefaultOptions возвращает значения по умолчанию.
func DefaultOptions() Options {
	return Options{
		IdentityTTL:  7 * 24 * time.Hour,
		VaultTTL:     time.Hour,
		StoreTimeout: 5 * time.Second,
		TOTPWindow:   totp.DefaultWindow,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.IdentityTTL <= 0 {
		o.IdentityTTL = d.IdentityTTL
	}
	if o.VaultTTL <= 0 {
		o.VaultTTL = d.VaultTTL
	}
	if o.StoreTimeout <= 0 {
		o.StoreTimeout = d.StoreTimeout
	}
	return o
}

// storeCtx ограничивает обращение к хранилищу по времени.
func (o Options) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, o.StoreTimeout)
}

// unavailable оборачивает сбой хранилища в повторяемую ошибку.
func unavailable(err error) error {
	return fmt.Errorf("%w: %v", apperr.ErrUnavailable, err)
}
