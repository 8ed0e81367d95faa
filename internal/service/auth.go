package service

import (
	"PassVault/internal/apperr"
	"PassVault/internal/model"
	"PassVault/internal/repo"
	"PassVault/internal/token"
	"context"
	"errors"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	minPasswordLen       = 6
	minMasterPasswordLen = 8
)

// AuthResult — выданный токен личности.
type AuthResult struct {
	Token     string
	AccountID string
}

// LoginResult — результат входа. При Requires2FA токен не выдаётся.
type LoginResult struct {
	AuthResult
	Requires2FA bool
}

// UnlockResult — выданный vault-токен.
type UnlockResult struct {
	VaultToken string
	ExpiresAt  time.Time
}

// AuthService связывает хранилища, хеширование, второй фактор и токены в сценарии
// регистрации, входа и разблокировки хранилища.
type AuthService struct {
	accounts repo.AccountRepository
	settings repo.SettingsRepository
	hasher   PasswordHasher
	tokens   TokenManager
	otp      OTP
	opts     Options
	logger   *zap.SugaredLogger

	dummyOnce   sync.Once
	dummyDigest string
}

func NewAuthService(
	accounts repo.AccountRepository,
	settings repo.SettingsRepository,
	hasher PasswordHasher,
	tokens TokenManager,
	otp OTP,
	opts Options,
	logger *zap.SugaredLogger,
) *AuthService {
	return &AuthService{
		accounts: accounts,
		settings: settings,
		hasher:   hasher,
		tokens:   tokens,
		otp:      otp,
		opts:     opts.withDefaults(),
		logger:   logger,
	}
}

// normalizeEmail приводит email к каноничной форме: без пробелов, в нижнем регистре.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup создаёт аккаунт с настройками по умолчанию и выдаёт токен личности.
func (s *AuthService) Signup(ctx context.Context, email, password, masterPassword string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, ErrInvalidEmail
	}
	if len(password) < minPasswordLen {
		return nil, ErrWeakPassword
	}
	if len(masterPassword) < minMasterPasswordLen {
		return nil, ErrWeakMasterPassword
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	masterHash, err := s.hasher.Hash(masterPassword)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := &model.Account{
		ID:                       uuid.NewString(),
		Email:                    email,
		PasswordHash:             passwordHash,
		MasterPasswordHash:       masterHash,
		CreatedAt:                now,
		LastMasterPasswordChange: now,
	}

	sctx, cancel := s.opts.storeCtx(ctx)
	defer cancel()
	if err := s.accounts.CreateWithSettings(sctx, account, model.DefaultSettings(account.ID)); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateAccount
		}
		s.logger.Errorw("signup: store error", "error", err)
		return nil, unavailable(err)
	}

	tok, err := s.tokens.Issue(account.ID, token.IdentityClaims, s.opts.IdentityTTL)
	if err != nil {
		return nil, err
	}
	s.logger.Infow("account created", "account_id", account.ID)
	return &AuthResult{Token: tok, AccountID: account.ID}, nil
}

// Login проверяет пароль аккаунта. Неизвестный email и неверный пароль неразличимы.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	sctx, cancel := s.opts.storeCtx(ctx)
	defer cancel()

	account, err := s.accounts.GetByEmail(sctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		// выравниваем время ответа с веткой существующего аккаунта
		s.hasher.Verify(password, s.dummy())
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		s.logger.Errorw("login: store error", "error", err)
		return nil, unavailable(err)
	}
	if !s.hasher.Verify(password, account.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	settings, err := s.settings.Get(sctx, account.ID)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		settings = model.DefaultSettings(account.ID)
	case err != nil:
		s.logger.Errorw("login: settings store error", "account_id", account.ID, "error", err)
		return nil, unavailable(err)
	}
	if settings.TwoFactorEnabled && settings.TwoFactorSecret != "" {
		s.logger.Infow("login: second factor required", "account_id", account.ID)
		return &LoginResult{AuthResult: AuthResult{AccountID: account.ID}, Requires2FA: true}, nil
	}

	tok, err := s.tokens.Issue(account.ID, token.IdentityClaims, s.opts.IdentityTTL)
	if err != nil {
		return nil, err
	}
	return &LoginResult{AuthResult: AuthResult{Token: tok, AccountID: account.ID}}, nil
}

// dummy — дайджест для сравнения, когда аккаунт не найден.
func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyDigest, _ = s.hasher.Hash(uuid.NewString())
	})
	return s.dummyDigest
}

// VerifyLogin2FA завершает вход кодом второго фактора.
func (s *AuthService) VerifyLogin2FA(ctx context.Context, accountID, code string) (*AuthResult, error) {
	if accountID == "" || code == "" {
		return nil, apperr.ErrValidation
	}

	sctx, cancel := s.opts.storeCtx(ctx)
	defer cancel()
	settings, err := s.settings.Get(sctx, accountID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrTwoFactorNotEnabled
	}
	if err != nil {
		s.logger.Errorw("verify-login: store error", "account_id", accountID, "error", err)
		return nil, unavailable(err)
	}
	if !settings.TwoFactorEnabled || settings.TwoFactorSecret == "" {
		return nil, ErrTwoFactorNotEnabled
	}
	if !s.otp.Verify(settings.TwoFactorSecret, code, s.opts.TOTPWindow) {
		s.logger.Warnw("verify-login: invalid code", "account_id", accountID)
		return nil, ErrInvalidCode
	}

	tok, err := s.tokens.Issue(accountID, token.IdentityClaims, s.opts.IdentityTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: tok, AccountID: accountID}, nil
}

// UnlockVault проверяет мастер-пароль владельца токена личности subject и выдаёт vault-токен.
// claimedID — необязательный accountId из запроса; если задан, обязан совпадать с subject.
func (s *AuthService) UnlockVault(ctx context.Context, subject, claimedID, masterPassword string) (*UnlockResult, error) {
	if claimedID != "" && claimedID != subject {
		return nil, apperr.ErrSubjectMismatch
	}
	if masterPassword == "" {
		return nil, ErrMasterPasswordMissing
	}

	sctx, cancel := s.opts.storeCtx(ctx)
	defer cancel()
	account, err := s.accounts.GetByID(sctx, subject)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, apperr.ErrUnauthenticated
	}
	if err != nil {
		s.logger.Errorw("unlock: store error", "account_id", subject, "error", err)
		return nil, unavailable(err)
	}
	if !s.hasher.Verify(masterPassword, account.MasterPasswordHash) {
		s.logger.Warnw("unlock: invalid master password", "account_id", subject)
		return nil, ErrInvalidMasterPassword
	}

	tok, err := s.tokens.Issue(subject, token.VaultAccessClaims, s.opts.VaultTTL)
	if err != nil {
		return nil, err
	}
	// срок берём из подписанного токена: часы менеджера и усечение exp до секунд
	c, err := s.tokens.Verify(tok)
	if err != nil {
		return nil, err
	}
	s.logger.Infow("vault unlocked", "account_id", subject)
	return &UnlockResult{VaultToken: tok, ExpiresAt: c.ExpiresAt}, nil
}

// Authenticate проверяет токен личности и возвращает id аккаунта.
// Любая ошибка проверки сводится к ErrUnauthenticated.
func (s *AuthService) Authenticate(raw string) (string, error) {
	if raw == "" {
		return "", apperr.ErrUnauthenticated
	}
	c, err := s.tokens.Verify(raw)
	if err != nil {
		s.logger.Debugw("identity token rejected", "reason", err)
		return "", apperr.ErrUnauthenticated
	}
	if !c.Claims.Has(token.ClaimIdentity) {
		return "", apperr.ErrUnauthenticated
	}
	return c.Subject, nil
}

// CheckVaultAccess проверяет vault-токен и возвращает id аккаунта.
// Отсутствие токена или права доступа — ErrVaultLocked, истёкший — ErrVaultSessionExpired,
// испорченный или поддельный — ErrVaultTokenInvalid.
func (s *AuthService) CheckVaultAccess(raw string) (string, error) {
	if raw == "" {
		return "", apperr.ErrVaultLocked
	}
	c, err := s.tokens.Verify(raw)
	if err != nil {
		s.logger.Debugw("vault token rejected", "reason", err)
		if errors.Is(err, token.ErrExpired) {
			return "", apperr.ErrVaultSessionExpired
		}
		return "", apperr.ErrVaultTokenInvalid
	}
	if !c.Claims.Has(token.ClaimVaultAccess) {
		return "", apperr.ErrVaultLocked
	}
	return c.Subject, nil
}
