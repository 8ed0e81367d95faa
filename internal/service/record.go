package service

import (
	"PassVault/internal/model"
	"PassVault/internal/repo"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RecordInput — данные записи от клиента. Ciphertext и Nonce не интерпретируются.
type RecordInput struct {
	Ciphertext string
	Nonce      string
	Meta       model.ItemMeta
}

// RecordService — зашифрованные записи владельца.
type RecordService struct {
	items  repo.VaultItemRepository
	opts   Options
	logger *zap.SugaredLogger
}

func NewRecordService(items repo.VaultItemRepository, opts Options, logger *zap.SugaredLogger) *RecordService {
	return &RecordService{items: items, opts: opts.withDefaults(), logger: logger}
}

// normalize проверяет обязательные поля и заполняет значения по умолчанию.
func (in RecordInput) normalize() (RecordInput, error) {
	in.Meta.Name = strings.TrimSpace(in.Meta.Name)
	if in.Ciphertext == "" || in.Nonce == "" || in.Meta.Name == "" {
		return in, ErrInvalidRecord
	}
	in.Meta.Folder = strings.TrimSpace(in.Meta.Folder)
	if in.Meta.Folder == "" {
		in.Meta.Folder = model.DefaultFolder
	}
	tags := make([]string, 0, len(in.Meta.Tags))
	for _, t := range in.Meta.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	in.Meta.Tags = tags
	return in, nil
}

func (s *RecordService) List(ctx context.Context, ownerID string) ([]model.VaultItem, error) {
	sctx, cancel := s.opts.storeCtx(ctx)
	defer cancel()

	items, err := s.items.List(sctx, ownerID)
	if err != nil {
		s.logger.Errorw("records: list failed", "account_id", ownerID, "error", err)
		return nil, unavailable(err)
	}
	return items, nil
}

func (s *RecordService) Create(ctx context.Context, ownerID string, in RecordInput) (*model.VaultItem, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	it := &model.VaultItem{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		Ciphertext: in.Ciphertext,
		Nonce:      in.Nonce,
		Meta:       in.Meta,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	sctx, cancel := s.opts.storeCtx(ctx)
	defer cancel()
	if err := s.items.Create(sctx, it); err != nil {
		s.logger.Errorw("records: create failed", "account_id", ownerID, "error", err)
		return nil, unavailable(err)
	}
	s.logger.Infow("record created", "account_id", ownerID, "item_id", it.ID)
	return it, nil
}

// Update заменяет шифртекст и метаданные записи. Чужая или несуществующая запись — ErrRecordNotFound.
func (s *RecordService) Update(ctx context.Context, ownerID, id string, in RecordInput) (*model.VaultItem, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrRecordNotFound
	}
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	sctx, cancel := s.opts.storeCtx(ctx)
	defer cancel()
	it, err := s.items.Update(sctx, ownerID, id, in.Ciphertext, in.Nonce, in.Meta)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		s.logger.Errorw("records: update failed", "account_id", ownerID, "item_id", id, "error", err)
		return nil, unavailable(err)
	}
	return it, nil
}

func (s *RecordService) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrRecordNotFound
	}

	sctx, cancel := s.opts.storeCtx(ctx)
	defer cancel()
	err := s.items.Delete(sctx, ownerID, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrRecordNotFound
	}
	if err != nil {
		s.logger.Errorw("records: delete failed", "account_id", ownerID, "item_id", id, "error", err)
		return unavailable(err)
	}
	s.logger.Infow("record deleted", "account_id", ownerID, "item_id", id)
	return nil
}
