package middleware

import (
	"PassVault/internal/apperr"
	"encoding/json"
	"net/http"
)

// ErrorResponse — тело ответа с ошибкой.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// WriteJSON пишет v как JSON с заданным статусом.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError пишет ошибку приложения. Внутренние ошибки не раскрываются.
func WriteError(w http.ResponseWriter, err error) {
	e := apperr.From(err)
	status := e.Status()
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "1")
	}
	WriteJSON(w, status, ErrorResponse{Error: e.Message, Code: e.Code})
}
