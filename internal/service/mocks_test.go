package service

import (
	"PassVault/internal/model"
	"PassVault/internal/repo"
	"PassVault/internal/totp"
	"context"

	"github.com/stretchr/testify/mock"
)

// мок для repo.AccountRepository
type mockAccountRepo struct{ mock.Mock }

func (m *mockAccountRepo) CreateWithSettings(ctx context.Context, a *model.Account, s *model.Settings) error {
	return m.Called(ctx, a, s).Error(0)
}

func (m *mockAccountRepo) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	args := m.Called(ctx, email)
	if a, ok := args.Get(0).(*model.Account); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAccountRepo) GetByID(ctx context.Context, id string) (*model.Account, error) {
	args := m.Called(ctx, id)
	if a, ok := args.Get(0).(*model.Account); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repo.AccountRepository = (*mockAccountRepo)(nil)

// мок для repo.SettingsRepository
type mockSettingsRepo struct{ mock.Mock }

func (m *mockSettingsRepo) Get(ctx context.Context, id string) (*model.Settings, error) {
	args := m.Called(ctx, id)
	if s, ok := args.Get(0).(*model.Settings); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSettingsRepo) UpdateTheme(ctx context.Context, id string, theme model.Theme) (*model.Settings, error) {
	args := m.Called(ctx, id, theme)
	if s, ok := args.Get(0).(*model.Settings); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSettingsRepo) SetPendingSecret(ctx context.Context, id, secret string) error {
	return m.Called(ctx, id, secret).Error(0)
}

func (m *mockSettingsRepo) EnableTwoFactor(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockSettingsRepo) DisableTwoFactor(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

var _ repo.SettingsRepository = (*mockSettingsRepo)(nil)

// мок для repo.VaultItemRepository
type mockVaultItemRepo struct{ mock.Mock }

func (m *mockVaultItemRepo) List(ctx context.Context, ownerID string) ([]model.VaultItem, error) {
	args := m.Called(ctx, ownerID)
	if v, ok := args.Get(0).([]model.VaultItem); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockVaultItemRepo) Create(ctx context.Context, it *model.VaultItem) error {
	return m.Called(ctx, it).Error(0)
}

func (m *mockVaultItemRepo) Update(ctx context.Context, ownerID, id, ciphertext, nonce string, meta model.ItemMeta) (*model.VaultItem, error) {
	args := m.Called(ctx, ownerID, id, ciphertext, nonce, meta)
	if v, ok := args.Get(0).(*model.VaultItem); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockVaultItemRepo) Delete(ctx context.Context, ownerID, id string) error {
	return m.Called(ctx, ownerID, id).Error(0)
}

var _ repo.VaultItemRepository = (*mockVaultItemRepo)(nil)

// мок для OTP
type mockOTP struct{ mock.Mock }

func (m *mockOTP) Enroll(label string) (totp.Enrollment, error) {
	args := m.Called(label)
	return args.Get(0).(totp.Enrollment), args.Error(1)
}

func (m *mockOTP) Verify(secret, code string, window uint) bool {
	return m.Called(secret, code, window).Bool(0)
}

var _ OTP = (*mockOTP)(nil)
