package handlers

import (
	"PassVault/internal/apperr"
	"PassVault/internal/middleware"
	"PassVault/internal/service"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// AuthHandler — регистрация, вход и разблокировка хранилища.
type AuthHandler struct {
	Auth   *service.AuthService
	Logger *zap.SugaredLogger
}

func NewAuthHandler(auth *service.AuthService, logger *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{Auth: auth, Logger: logger}
}

type signupRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	MasterPassword string `json:"masterPassword"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string `json:"token"`
	AccountID string `json:"accountId"`
}

type loginResponse struct {
	Token       string `json:"token,omitempty"`
	AccountID   string `json:"accountId"`
	Requires2FA bool   `json:"requires2FA,omitempty"`
}

type unlockRequest struct {
	AccountID      string `json:"accountId"`
	UserID         string `json:"userId"`
	MasterPassword string `json:"masterPassword"`
}

type unlockResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	VaultToken string `json:"vaultToken"`
	ExpiresAt  string `json:"expiresAt"`
}

type vaultAccessResponse struct {
	VaultUnlocked bool   `json:"vaultUnlocked"`
	AccountID     string `json:"accountId,omitempty"`
	Error         string `json:"error,omitempty"`
	Code          string `json:"code,omitempty"`
}

// Signup регистрация аккаунта
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}
	res, err := h.Auth.Signup(r.Context(), req.Email, req.Password, req.MasterPassword)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, tokenResponse{Token: res.Token, AccountID: res.AccountID})
}

// Login вход по email и паролю аккаунта
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}
	res, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, loginResponse{
		Token:       res.Token,
		AccountID:   res.AccountID,
		Requires2FA: res.Requires2FA,
	})
}

// VerifyMasterPassword проверяет мастер-пароль и выдаёт vault-токен
func (h *AuthHandler) VerifyMasterPassword(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetAccountIDFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, apperr.ErrUnauthenticated)
		return
	}
	var req unlockRequest
	if err := decodeJSON(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}
	res, err := h.Auth.UnlockVault(r.Context(), accountID, firstNonEmpty(req.AccountID, req.UserID), req.MasterPassword)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, unlockResponse{
		Success:    true,
		Message:    "Vault unlocked successfully",
		VaultToken: res.VaultToken,
		ExpiresAt:  res.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// CheckVaultAccess сообщает, действует ли vault-токен.
// Токен берётся из X-Vault-Token, иначе из Authorization: Bearer.
func (h *AuthHandler) CheckVaultAccess(w http.ResponseWriter, r *http.Request) {
	raw := firstNonEmpty(r.Header.Get(middleware.VaultTokenHeader), middleware.BearerToken(r))
	accountID, err := h.Auth.CheckVaultAccess(raw)
	if err != nil {
		e := apperr.From(err)
		middleware.WriteJSON(w, e.Status(), vaultAccessResponse{Error: e.Message, Code: e.Code})
		return
	}
	middleware.WriteJSON(w, http.StatusOK, vaultAccessResponse{VaultUnlocked: true, AccountID: accountID})
}
