package handlers

import (
	"PassVault/internal/apperr"
	"PassVault/internal/middleware"
	"PassVault/internal/service"
	"context"
	"net/http"

	"go.uber.org/zap"
)

// TwoFactorHandler — подключение, проверка и отключение второго фактора.
type TwoFactorHandler struct {
	Auth      *service.AuthService
	TwoFactor *service.TwoFactorService
	Logger    *zap.SugaredLogger
}

func NewTwoFactorHandler(auth *service.AuthService, tf *service.TwoFactorService, logger *zap.SugaredLogger) *TwoFactorHandler {
	return &TwoFactorHandler{Auth: auth, TwoFactor: tf, Logger: logger}
}

// codeRequest — код второго фактора. Старые клиенты присылают его в поле token, а аккаунт в userId.
type codeRequest struct {
	Code      string `json:"code"`
	Token     string `json:"token"`
	AccountID string `json:"accountId"`
	UserID    string `json:"userId"`
}

func (c codeRequest) code() string { return firstNonEmpty(c.Code, c.Token) }

type setupResponse struct {
	Secret          string `json:"secret"`
	ProvisioningURI string `json:"provisioningUri"`
	QRCode          string `json:"qrCode"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// VerifyLogin завершает вход кодом второго фактора
func (h *TwoFactorHandler) VerifyLogin(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if err := decodeJSON(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}
	res, err := h.Auth.VerifyLogin2FA(r.Context(), firstNonEmpty(req.AccountID, req.UserID), req.code())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, tokenResponse{Token: res.Token, AccountID: res.AccountID})
}

// Setup выдаёт новый секрет и QR-код
func (h *TwoFactorHandler) Setup(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetAccountIDFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, apperr.ErrUnauthenticated)
		return
	}
	e, err := h.TwoFactor.Setup(r.Context(), accountID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, setupResponse{Secret: e.Secret, ProvisioningURI: e.URI, QRCode: e.QRCode})
}

// Verify включает второй фактор
func (h *TwoFactorHandler) Verify(w http.ResponseWriter, r *http.Request) {
	h.withCode(w, r, h.TwoFactor.Verify)
}

// Disable выключает второй фактор
func (h *TwoFactorHandler) Disable(w http.ResponseWriter, r *http.Request) {
	h.withCode(w, r, h.TwoFactor.Disable)
}

func (h *TwoFactorHandler) withCode(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, accountID, code string) error) {
	accountID, ok := middleware.GetAccountIDFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, apperr.ErrUnauthenticated)
		return
	}
	var req codeRequest
	if err := decodeJSON(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}
	if err := fn(r.Context(), accountID, req.code()); err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, successResponse{Success: true})
}
