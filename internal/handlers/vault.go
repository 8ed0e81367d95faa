package handlers

import (
	"PassVault/internal/apperr"
	"PassVault/internal/middleware"
	"PassVault/internal/model"
	"PassVault/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// VaultHandler — CRUD зашифрованных записей. Доступен только после WithIdentity и WithVaultAccess.
type VaultHandler struct {
	Records *service.RecordService
	Logger  *zap.SugaredLogger
}

func NewVaultHandler(records *service.RecordService, logger *zap.SugaredLogger) *VaultHandler {
	return &VaultHandler{Records: records, Logger: logger}
}

// recordRequest — запись от клиента; сервер не интерпретирует ciphertext и nonce.
type recordRequest struct {
	Ciphertext string         `json:"ciphertext"`
	Nonce      string         `json:"nonce"`
	Meta       model.ItemMeta `json:"meta"`
}

func (req recordRequest) input() service.RecordInput {
	return service.RecordInput{Ciphertext: req.Ciphertext, Nonce: req.Nonce, Meta: req.Meta}
}

type messageResponse struct {
	Message string `json:"message"`
}

func owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.GetAccountIDFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, apperr.ErrUnauthenticated)
	}
	return id, ok
}

// List записи владельца, новые первыми
func (h *VaultHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	items, err := h.Records.List(r.Context(), ownerID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, items)
}

// Create новая запись
func (h *VaultHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	var req recordRequest
	if err := decodeJSON(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}
	it, err := h.Records.Create(r.Context(), ownerID, req.input())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, it)
}

// Update замена содержимого записи
func (h *VaultHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	var req recordRequest
	if err := decodeJSON(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}
	it, err := h.Records.Update(r.Context(), ownerID, chi.URLParam(r, "id"), req.input())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, it)
}

// Delete удаление записи
func (h *VaultHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}
	if err := h.Records.Delete(r.Context(), ownerID, chi.URLParam(r, "id")); err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, messageResponse{Message: "Item deleted successfully"})
}
