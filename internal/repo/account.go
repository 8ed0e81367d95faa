package repo

import (
	"PassVault/internal/model"
	"context"

	"gorm.io/gorm"
)

// AccountRepository — хранилище учётных записей.
type AccountRepository interface {
	// CreateWithSettings атомарно создаёт аккаунт и его настройки.
	// Занятый email даёт ErrDuplicate.
	CreateWithSettings(ctx context.Context, account *model.Account, settings *model.Settings) error
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	GetByID(ctx context.Context, id string) (*model.Account, error)
}

type accountRepo struct {
	db *gorm.DB
}

// NewAccountRepository создаёт реализацию AccountRepository на gorm.
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepo{db: db}
}

func (r *accountRepo) CreateWithSettings(ctx context.Context, account *model.Account, settings *model.Settings) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return err
		}
		settings.AccountID = account.ID
		return tx.Create(settings).Error
	})
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *accountRepo) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	var a model.Account
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&a).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (r *accountRepo) GetByID(ctx context.Context, id string) (*model.Account, error) {
	var a model.Account
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}
