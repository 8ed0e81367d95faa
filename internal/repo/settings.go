package repo

import (
	"PassVault/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsRepository — хранилище темы и состояния второго фактора.
// Все изменения — last-writer-wins по строке аккаунта.
type SettingsRepository interface {
	// Get возвращает настройки аккаунта или ErrNotFound.
	Get(ctx context.Context, accountID string) (*model.Settings, error)
	UpdateTheme(ctx context.Context, accountID string, theme model.Theme) (*model.Settings, error)
	// SetPendingSecret сохраняет секрет, ожидающий подтверждения кодом.
	SetPendingSecret(ctx context.Context, accountID, secret string) error
	// EnableTwoFactor делает ожидающий секрет активным и включает второй фактор.
	EnableTwoFactor(ctx context.Context, accountID string) error
	// DisableTwoFactor выключает второй фактор и стирает оба секрета.
	DisableTwoFactor(ctx context.Context, accountID string) error
}

type settingsRepo struct {
	db *gorm.DB
}

// NewSettingsRepository создаёт реализацию SettingsRepository на gorm.
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepo{db: db}
}

func (r *settingsRepo) Get(ctx context.Context, accountID string) (*model.Settings, error) {
	var s model.Settings
	if err := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&s).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

// upsert вставляет настройки по умолчанию с полями updates либо обновляет эти поля.
func (r *settingsRepo) upsert(ctx context.Context, s *model.Settings, columns ...string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_id"}},
		DoUpdates: clause.AssignmentColumns(append(columns, "updated_at")),
	}).Create(s).Error
}

func (r *settingsRepo) UpdateTheme(ctx context.Context, accountID string, theme model.Theme) (*model.Settings, error) {
	s := model.DefaultSettings(accountID)
	s.Theme = theme
	if err := r.upsert(ctx, s, "theme"); err != nil {
		return nil, err
	}
	return r.Get(ctx, accountID)
}

func (r *settingsRepo) SetPendingSecret(ctx context.Context, accountID, secret string) error {
	s := model.DefaultSettings(accountID)
	s.TwoFactorPendingSecret = secret
	return r.upsert(ctx, s, "two_factor_pending_secret")
}

func (r *settingsRepo) EnableTwoFactor(ctx context.Context, accountID string) error {
	tx := r.db.WithContext(ctx).Model(&model.Settings{}).
		Where("account_id = ? AND two_factor_pending_secret <> ''", accountID).
		Updates(map[string]any{
			"two_factor_enabled":        true,
			"two_factor_secret":         gorm.Expr("two_factor_pending_secret"),
			"two_factor_pending_secret": "",
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *settingsRepo) DisableTwoFactor(ctx context.Context, accountID string) error {
	tx := r.db.WithContext(ctx).Model(&model.Settings{}).
		Where("account_id = ?", accountID).
		Updates(map[string]any{
			"two_factor_enabled":        false,
			"two_factor_secret":         "",
			"two_factor_pending_secret": "",
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
