package service

import (
	"PassVault/internal/apperr"
	"PassVault/internal/repo"
	"PassVault/internal/totp"
	"context"
	"errors"

	"go.uber.org/zap"
)

// TwoFactorService управляет подключением второго фактора:
// Disabled -> Pending (Setup) -> Enabled (Verify) -> Disabled (Disable).
type TwoFactorService struct {
	accounts repo.AccountRepository
	settings repo.SettingsRepository
	otp      OTP
	opts     Options
	logger   *zap.SugaredLogger
}

func NewTwoFactorService(
	accounts repo.AccountRepository,
	settings repo.SettingsRepository,
	otp OTP,
	opts Options,
	logger *zap.SugaredLogger,
) *TwoFactorService {
	return &TwoFactorService{accounts: accounts, settings: settings, otp: otp, opts: opts.withDefaults(), logger: logger}
}

// Setup генерирует новый секрет и сохраняет его как ожидающий подтверждения.
// Уже включённый второй фактор продолжает работать по старому секрету до Verify.
func (s *TwoFactorService) Setup(ctx context.Context, accountID string) (*totp.Enrollment, error) {
	sctx, cancel := s.opts.storeCtx(ctx)
	defer cancel()

	account, err := s.accounts.GetByID(sctx, accountID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, apperr.ErrUnauthenticated
	}
	if err != nil {
		s.logger.Errorw("2fa setup: store error", "account_id", accountID, "error", err)
		return nil, unavailable(err)
	}

	enrollment, err := s.otp.Enroll(account.Email)
	if err != nil {
		return nil, err
	}
	if err := s.settings.SetPendingSecret(sctx, accountID, enrollment.Secret); err != nil {
		s.logger.Errorw("2fa setup: store error", "account_id", accountID, "error", err)
		return nil, unavailable(err)
	}
	s.logger.Infow("2fa enrollment started", "account_id", accountID)
	return &enrollment, nil
}

// Verify подтверждает ожидающий секрет кодом и включает второй фактор.
func (s *TwoFactorService) Verify(ctx context.Context, accountID, code string) error {
	sctx, cancel := s.opts.storeCtx(ctx)
	defer cancel()

	st, err := s.settings.Get(sctx, accountID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrTwoFactorNotSetup
	}
	if err != nil {
		s.logger.Errorw("2fa verify: store error", "account_id", accountID, "error", err)
		return unavailable(err)
	}
	if st.TwoFactorPendingSecret == "" {
		return ErrTwoFactorNotSetup
	}
	if !s.otp.Verify(st.TwoFactorPendingSecret, code, s.opts.TOTPWindow) {
		return ErrInvalidCode
	}

	err = s.settings.EnableTwoFactor(sctx, accountID)
	if errors.Is(err, repo.ErrNotFound) {
		// секрет сменился или стёрт параллельным запросом
		return ErrTwoFactorNotSetup
	}
	if err != nil {
		s.logger.Errorw("2fa verify: store error", "account_id", accountID, "error", err)
		return unavailable(err)
	}
	s.logger.Infow("2fa enabled", "account_id", accountID)
	return nil
}

// Disable выключает второй фактор после проверки текущего кода.
func (s *TwoFactorService) Disable(ctx context.Context, accountID, code string) error {
	sctx, cancel := s.opts.storeCtx(ctx)
	defer cancel()

	st, err := s.settings.Get(sctx, accountID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrTwoFactorNotEnabled
	}
	if err != nil {
		s.logger.Errorw("2fa disable: store error", "account_id", accountID, "error", err)
		return unavailable(err)
	}
	if !st.TwoFactorEnabled || st.TwoFactorSecret == "" {
		return ErrTwoFactorNotEnabled
	}
	if !s.otp.Verify(st.TwoFactorSecret, code, s.opts.TOTPWindow) {
		return ErrInvalidCode
	}
	if err := s.settings.DisableTwoFactor(sctx, accountID); err != nil && !errors.Is(err, repo.ErrNotFound) {
		s.logger.Errorw("2fa disable: store error", "account_id", accountID, "error", err)
		return unavailable(err)
	}
	s.logger.Infow("2fa disabled", "account_id", accountID)
	return nil
}
