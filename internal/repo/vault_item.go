package repo

import (
	"PassVault/internal/model"
	"context"

	"gorm.io/gorm"
)

// VaultItemRepository — хранилище зашифрованных записей.
// Каждый запрос ограничен владельцем: чужая запись неотличима от отсутствующей.
type VaultItemRepository interface {
	// List возвращает записи владельца, новые первыми.
	List(ctx context.Context, ownerID string) ([]model.VaultItem, error)
	Create(ctx context.Context, item *model.VaultItem) error
	// Update заменяет шифртекст, nonce и метаданные записи владельца.
	Update(ctx context.Context, ownerID, id string, ciphertext, nonce string, meta model.ItemMeta) (*model.VaultItem, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type vaultItemRepo struct {
	db *gorm.DB
}

// NewVaultItemRepository создаёт реализацию VaultItemRepository на gorm.
func NewVaultItemRepository(db *gorm.DB) VaultItemRepository {
	return &vaultItemRepo{db: db}
}

func (r *vaultItemRepo) List(ctx context.Context, ownerID string) ([]model.VaultItem, error) {
	items := []model.VaultItem{}
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").Order("id").
		Find(&items).Error
	return items, err
}

func (r *vaultItemRepo) Create(ctx context.Context, item *model.VaultItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *vaultItemRepo) Update(ctx context.Context, ownerID, id string, ciphertext, nonce string, meta model.ItemMeta) (*model.VaultItem, error) {
	var it model.VaultItem
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND owner_id = ?", id, ownerID).First(&it).Error; err != nil {
			return err
		}
		it.Ciphertext = ciphertext
		it.Nonce = nonce
		it.Meta = meta
		return tx.Model(&it).Select("*").Omit("ID", "OwnerID", "Owner", "CreatedAt").Updates(&it).Error
	})
	if err != nil {
		return nil, notFound(err)
	}
	return &it, nil
}

func (r *vaultItemRepo) Delete(ctx context.Context, ownerID, id string) error {
	tx := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&model.VaultItem{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
