package handlers

import (
	"PassVault/internal/apperr"
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

var errBodyTooLarge = apperr.New(apperr.KindValidation, "body_too_large", "request body too large").
	WithStatus(http.StatusRequestEntityTooLarge)

// decodeJSON читает тело запроса в v. Пустое тело допустимо и оставляет v нетронутым.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return nil
	case errors.As(err, &tooLarge):
		return errBodyTooLarge
	default:
		return apperr.ErrValidation
	}
}

// firstNonEmpty возвращает первое непустое значение: поля с разными именами в старых клиентах
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
