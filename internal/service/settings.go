package service

import (
	"PassVault/internal/model"
	"PassVault/internal/repo"
	"context"
	"errors"

	"go.uber.org/zap"
)

// SettingsService — тема интерфейса и состояние второго фактора для клиента.
type SettingsService struct {
	settings repo.SettingsRepository
	opts     Options
	logger   *zap.SugaredLogger
}

func NewSettingsService(settings repo.SettingsRepository, opts Options, logger *zap.SugaredLogger) *SettingsService {
	return &SettingsService{settings: settings, opts: opts.withDefaults(), logger: logger}
}

// Get возвращает настройки аккаунта; отсутствующие считаются настройками по умолчанию.
func (s *SettingsService) Get(ctx context.Context, accountID string) (*model.Settings, error) {
	sctx, cancel := s.opts.storeCtx(ctx)
	defer cancel()

	st, err := s.settings.Get(sctx, accountID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.DefaultSettings(accountID), nil
	}
	if err != nil {
		s.logger.Errorw("settings: store error", "account_id", accountID, "error", err)
		return nil, unavailable(err)
	}
	return st, nil
}

func (s *SettingsService) UpdateTheme(ctx context.Context, accountID, theme string) (*model.Settings, error) {
	t := model.Theme(theme)
	if !t.Valid() {
		return nil, ErrInvalidTheme
	}

	sctx, cancel := s.opts.storeCtx(ctx)
	defer cancel()
	st, err := s.settings.UpdateTheme(sctx, accountID, t)
	if err != nil {
		s.logger.Errorw("settings: update theme failed", "account_id", accountID, "error", err)
		return nil, unavailable(err)
	}
	return st, nil
}
