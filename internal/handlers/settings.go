package handlers

import (
	"PassVault/internal/apperr"
	"PassVault/internal/middleware"
	"PassVault/internal/model"
	"PassVault/internal/service"
	"net/http"

	"go.uber.org/zap"
)

type SettingsHandler struct {
	Settings *service.SettingsService
	Logger   *zap.SugaredLogger
}

func NewSettingsHandler(s *service.SettingsService, logger *zap.SugaredLogger) *SettingsHandler {
	return &SettingsHandler{Settings: s, Logger: logger}
}

type settingsResponse struct {
	Theme            model.Theme `json:"theme"`
	TwoFactorEnabled bool        `json:"twoFactorEnabled"`
}

type themeRequest struct {
	Theme string `json:"theme"`
}

func toSettingsResponse(s *model.Settings) settingsResponse {
	return settingsResponse{Theme: s.Theme, TwoFactorEnabled: s.TwoFactorEnabled}
}

// Get настройки аккаунта
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetAccountIDFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, apperr.ErrUnauthenticated)
		return
	}
	s, err := h.Settings.Get(r.Context(), accountID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, toSettingsResponse(s))
}

// UpdateTheme смена темы
func (h *SettingsHandler) UpdateTheme(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetAccountIDFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, apperr.ErrUnauthenticated)
		return
	}
	var req themeRequest
	if err := decodeJSON(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}
	s, err := h.Settings.UpdateTheme(r.Context(), accountID, req.Theme)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, toSettingsResponse(s))
}
