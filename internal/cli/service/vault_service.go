package service

import (
	"PassVault/internal/cli/crypto"
	"PassVault/internal/cli/model"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// exportVersion — версия формата файла экспорта.
const exportVersion = 1

var (
	// ErrItemNotFound — запись не найдена ни по id, ни по имени.
	ErrItemNotFound = errors.New("item not found")
	// ErrAmbiguousItem — несколько записей с таким именем.
	ErrAmbiguousItem = errors.New("several items match, use the id")
	// ErrBadExport — файл экспорта повреждён или другой версии.
	ErrBadExport = errors.New("unsupported export file")
)

// VaultService — операции с записями. Шифрование и расшифровка выполняются здесь, сервер видит только шифртекст.
type VaultService struct {
	Auth *AuthService
}

// NewVaultService создаёт VaultService.
func NewVaultService(auth *AuthService) *VaultService {
	return &VaultService{Auth: auth}
}

// List возвращает записи без расшифровки, новые первыми.
func (s *VaultService) List(ctx context.Context) ([]model.VaultItem, error) {
	var items []model.VaultItem
	if err := s.Auth.call(ctx, http.MethodGet, "/api/vault", true, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Add шифрует пароль ключом key и создаёт запись.
func (s *VaultService) Add(ctx context.Context, key []byte, meta model.ItemMeta, password string) (*model.VaultItem, error) {
	body, err := seal(key, meta, password)
	if err != nil {
		return nil, err
	}
	var it model.VaultItem
	if err := s.Auth.call(ctx, http.MethodPost, "/api/vault", true, body, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

// Find ищет запись по id или точному имени.
func (s *VaultService) Find(ctx context.Context, ref string) (*model.VaultItem, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var found *model.VaultItem
	for i := range items {
		if items[i].ID == ref {
			return &items[i], nil
		}
		if strings.EqualFold(items[i].Meta.Name, ref) {
			if found != nil {
				return nil, ErrAmbiguousItem
			}
			found = &items[i]
		}
	}
	if found == nil {
		return nil, ErrItemNotFound
	}
	return found, nil
}

// Get находит и расшифровывает запись.
func (s *VaultService) Get(ctx context.Context, key []byte, ref string) (*model.DecryptedItem, error) {
	it, err := s.Find(ctx, ref)
	if err != nil {
		return nil, err
	}
	return Open(key, *it)
}

// Edit — изменения записи; nil-поля не меняются.
type Edit struct {
	Name     *string
	Website  *string
	Username *string
	Note     *string
	Folder   *string
	Tags     []string
	Password *string
}

// Edit применяет изменения и перешифровывает запись со свежим nonce.
func (s *VaultService) Edit(ctx context.Context, key []byte, ref string, e Edit) (*model.VaultItem, error) {
	it, err := s.Find(ctx, ref)
	if err != nil {
		return nil, err
	}
	cur, err := Open(key, *it)
	if err != nil {
		return nil, err
	}
	meta := cur.Meta
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&meta.Name, e.Name)
	set(&meta.Website, e.Website)
	set(&meta.Username, e.Username)
	set(&meta.Note, e.Note)
	set(&meta.Folder, e.Folder)
	if e.Tags != nil {
		meta.Tags = e.Tags
	}
	password := cur.Password
	set(&password, e.Password)

	body, err := seal(key, meta, password)
	if err != nil {
		return nil, err
	}
	var out model.VaultItem
	if err := s.Auth.call(ctx, http.MethodPut, "/api/vault/"+url.PathEscape(it.ID), true, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete удаляет запись.
func (s *VaultService) Delete(ctx context.Context, ref string) (*model.VaultItem, error) {
	it, err := s.Find(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := s.Auth.call(ctx, http.MethodDelete, "/api/vault/"+url.PathEscape(it.ID), true, nil, nil); err != nil {
		return nil, err
	}
	return it, nil
}

// Export пишет все записи в w. Файл содержит только шифртекст и открытые метаданные.
func (s *VaultService) Export(ctx context.Context, w io.Writer) (int, error) {
	items, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	salt, err := s.Auth.Store.Salt()
	if err != nil {
		return 0, err
	}
	f := model.ExportFile{
		Version:    exportVersion,
		Salt:       hex.EncodeToString(salt),
		ExportedAt: time.Now().UTC(),
		Items:      make([]model.ExportedItem, 0, len(items)),
	}
	for _, it := range items {
		f.Items = append(f.Items, model.ExportedItem{Ciphertext: it.Ciphertext, Nonce: it.Nonce, Meta: it.Meta})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return 0, err
	}
	return len(f.Items), nil
}

// Import создаёт записи из файла экспорта. Записи с другой установки (другая соль)
// расшифровываются ключом, выведенным из того же мастер-пароля и соли файла,
// и перешифровываются локальным ключом.
func (s *VaultService) Import(ctx context.Context, key []byte, master string, r io.Reader) (int, error) {
	var f model.ExportFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadExport, err)
	}
	if f.Version != exportVersion {
		return 0, fmt.Errorf("%w: version %d", ErrBadExport, f.Version)
	}
	fileSalt, err := hex.DecodeString(f.Salt)
	if err != nil || len(fileSalt) != crypto.SaltLen {
		return 0, fmt.Errorf("%w: bad salt", ErrBadExport)
	}
	localSalt, err := s.Auth.Store.Salt()
	if err != nil {
		return 0, err
	}
	srcKey := key
	if hex.EncodeToString(localSalt) != f.Salt {
		srcKey = crypto.DeriveKey(master, fileSalt)
	}

	n := 0
	for _, ex := range f.Items {
		it, err := Open(srcKey, model.VaultItem{Ciphertext: ex.Ciphertext, Nonce: ex.Nonce, Meta: ex.Meta})
		if err != nil {
			return n, fmt.Errorf("item %q: %w", ex.Meta.Name, err)
		}
		if _, err := s.Add(ctx, key, it.Meta, it.Password); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Open расшифровывает запись.
func Open(key []byte, it model.VaultItem) (*model.DecryptedItem, error) {
	plain, err := crypto.DecryptString(crypto.EncryptedData{Ciphertext: it.Ciphertext, Nonce: it.Nonce}, key)
	if err != nil {
		return nil, err
	}
	var sec model.Secret
	if err := json.Unmarshal([]byte(plain), &sec); err != nil {
		return nil, crypto.ErrDecrypt
	}
	return &model.DecryptedItem{ID: it.ID, Meta: it.Meta, Password: sec.Password, UpdatedAt: it.UpdatedAt}, nil
}

type recordBody struct {
	Ciphertext string         `json:"ciphertext"`
	Nonce      string         `json:"nonce"`
	Meta       model.ItemMeta `json:"meta"`
}

func seal(key []byte, meta model.ItemMeta, password string) (recordBody, error) {
	b, err := json.Marshal(model.Secret{Password: password})
	if err != nil {
		return recordBody{}, err
	}
	enc, err := crypto.EncryptString(string(b), key)
	if err != nil {
		return recordBody{}, err
	}
	if meta.Tags == nil {
		meta.Tags = []string{}
	}
	return recordBody{Ciphertext: enc.Ciphertext, Nonce: enc.Nonce, Meta: meta}, nil
}
