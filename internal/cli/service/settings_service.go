package service

import (
	"context"
	"net/http"
	"strings"
)

// Settings — настройки аккаунта.
type Settings struct {
	Theme            string `json:"theme"`
	TwoFactorEnabled bool   `json:"twoFactorEnabled"`
}

// Enrollment — данные подключения второго фактора.
type Enrollment struct {
	Secret          string `json:"secret"`
	ProvisioningURI string `json:"provisioningUri"`
	QRCode          string `json:"qrCode"`
}

// SettingsService — тема и второй фактор.
type SettingsService struct {
	Auth *AuthService
}

// NewSettingsService создаёт SettingsService.
func NewSettingsService(auth *AuthService) *SettingsService {
	return &SettingsService{Auth: auth}
}

func (s *SettingsService) Get(ctx context.Context) (*Settings, error) {
	var out Settings
	if err := s.Auth.call(ctx, http.MethodGet, "/api/settings", false, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SettingsService) SetTheme(ctx context.Context, theme string) (*Settings, error) {
	var out Settings
	err := s.Auth.call(ctx, http.MethodPut, "/api/settings/theme", false, map[string]string{"theme": strings.TrimSpace(theme)}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Setup2FA выдаёт новый секрет. Второй фактор включается только после Enable2FA.
func (s *SettingsService) Setup2FA(ctx context.Context) (*Enrollment, error) {
	var out Enrollment
	if err := s.Auth.call(ctx, http.MethodPost, "/api/two-factor/setup", false, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SettingsService) Enable2FA(ctx context.Context, code string) error {
	return s.codeCall(ctx, "/api/two-factor/verify", code)
}

func (s *SettingsService) Disable2FA(ctx context.Context, code string) error {
	return s.codeCall(ctx, "/api/two-factor/disable", code)
}

func (s *SettingsService) codeCall(ctx context.Context, path, code string) error {
	sess, err := s.Auth.Session()
	if err != nil {
		return err
	}
	return s.Auth.call(ctx, http.MethodPost, path, false, map[string]string{
		"accountId": sess.AccountID, "code": strings.TrimSpace(code),
	}, nil)
}
