// Package api — HTTP-клиент сервера PassVault.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// VaultTokenHeader — заголовок с vault-токеном.
const VaultTokenHeader = "X-Vault-Token"

// Коды ошибок сервера, на которые реагирует клиент.
const (
	CodeVaultLocked         = "vault_locked"
	CodeVaultSessionExpired = "vault_session_expired"
	CodeVaultTokenInvalid   = "vault_token_invalid"
	CodeUnauthenticated     = "unauthenticated"
)

// APIError — ответ сервера с кодом не 2xx.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

// IsVaultAuthError сообщает, что vault-токен больше не годится и его надо забыть.
func IsVaultAuthError(err error) bool {
	var ae *APIError
	if !errors.As(err, &ae) {
		return false
	}
	switch ae.Code {
	case CodeVaultLocked, CodeVaultSessionExpired, CodeVaultTokenInvalid:
		return true
	}
	return false
}

// IsUnauthenticated сообщает, что токен личности отсутствует или истёк.
func IsUnauthenticated(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == http.StatusUnauthorized && !IsVaultAuthError(err)
}

// Client — клиент JSON API.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient создаёт клиент для baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Auth — токены, прикладываемые к запросу.
type Auth struct {
	Token      string
	VaultToken string
}

// Do отправляет запрос и декодирует ответ в out (если out не nil).
func (c *Client) Do(ctx context.Context, method, path string, auth Auth, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if auth.Token != "" {
		req.Header.Set("Authorization", "Bearer "+auth.Token)
	}
	if auth.VaultToken != "" {
		req.Header.Set(VaultTokenHeader, auth.VaultToken)
	}

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var e struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		if json.Unmarshal(data, &e) == nil {
			apiErr.Code, apiErr.Message = e.Code, e.Error
		}
		if apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return apiErr
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
