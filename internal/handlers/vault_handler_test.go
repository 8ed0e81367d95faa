package handlers_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type itemBody struct {
	ID         string `json:"id"`
	Ciphertext string `json:"ciphertext"`
	Nonce      string `json:"nonce"`
	Meta       struct {
		Name   string   `json:"name"`
		Folder string   `json:"folder"`
		Tags   []string `json:"tags"`
	} `json:"meta"`
}

func TestVault_CRUD(t *testing.T) {
	ts := newTestServer(t)
	s := ts.signupAndUnlock(t, "a@x.com")
	auth := func(c call) call { c.token, c.vault = s.Token, s.VaultToken; return c }

	rr := ts.do(t, auth(call{method: http.MethodPost, path: "/api/vault",
		body: map[string]any{"ciphertext": "Y2lwaGVy", "nonce": "bm9uY2U=", "meta": map[string]any{"name": "mail"}}}))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[itemBody](t, rr)
	assert.Equal(t, "General", created.Meta.Folder)
	assert.Equal(t, "Y2lwaGVy", created.Ciphertext)
	assert.NotContains(t, rr.Body.String(), s.AccountID)

	rr = ts.do(t, auth(call{method: http.MethodGet, path: "/api/vault"}))
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[[]itemBody](t, rr)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	rr = ts.do(t, auth(call{method: http.MethodPut, path: "/api/vault/" + created.ID,
		body: map[string]any{"ciphertext": "bmV3", "nonce": "bjI=", "meta": map[string]any{"name": "mail", "folder": "Work", "tags": []string{"x"}}}}))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	updated := decode[itemBody](t, rr)
	assert.Equal(t, "bmV3", updated.Ciphertext)
	assert.Equal(t, "Work", updated.Meta.Folder)
	assert.Equal(t, []string{"x"}, updated.Meta.Tags)

	rr = ts.do(t, auth(call{method: http.MethodPost, path: "/api/vault",
		body: map[string]any{"ciphertext": "", "nonce": "n", "meta": map[string]any{"name": "x"}}}))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.do(t, auth(call{method: http.MethodDelete, path: "/api/vault/" + created.ID}))
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = ts.do(t, auth(call{method: http.MethodDelete, path: "/api/vault/" + created.ID}))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = ts.do(t, auth(call{method: http.MethodPut, path: "/api/vault/" + uuid.NewString(),
		body: map[string]any{"ciphertext": "c", "nonce": "n", "meta": map[string]any{"name": "x"}}}))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestVault_RequiresBothTokens(t *testing.T) {
	ts := newTestServer(t)
	a := ts.signupAndUnlock(t, "a@x.com")
	b := ts.signupAndUnlock(t, "b@x.com")

	rr := ts.do(t, call{method: http.MethodGet, path: "/api/vault"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "unauthenticated", decode[errorBody](t, rr).Code)

	rr = ts.do(t, call{method: http.MethodGet, path: "/api/vault", token: a.Token})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "vault_locked", decode[errorBody](t, rr).Code)

	rr = ts.do(t, call{method: http.MethodGet, path: "/api/vault", token: a.Token, vault: a.Token})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "vault_locked", decode[errorBody](t, rr).Code)

	rr = ts.do(t, call{method: http.MethodGet, path: "/api/vault", token: a.Token, vault: "forged"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "vault_token_invalid", decode[errorBody](t, rr).Code)

	// vault-токен аккаунта A вместе с токеном личности B
	rr = ts.do(t, call{method: http.MethodPost, path: "/api/vault", token: b.Token, vault: a.VaultToken,
		body: map[string]any{"ciphertext": "c", "nonce": "n", "meta": map[string]any{"name": "x"}}})
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "subject_mismatch", decode[errorBody](t, rr).Code)
}

func TestVault_OwnerIsolation(t *testing.T) {
	ts := newTestServer(t)
	a := ts.signupAndUnlock(t, "a@x.com")
	b := ts.signupAndUnlock(t, "b@x.com")

	rr := ts.do(t, call{method: http.MethodPost, path: "/api/vault", token: a.Token, vault: a.VaultToken,
		body: map[string]any{"ciphertext": "c", "nonce": "n", "meta": map[string]any{"name": "secret"}}})
	require.Equal(t, http.StatusCreated, rr.Code)
	item := decode[itemBody](t, rr)

	rr = ts.do(t, call{method: http.MethodGet, path: "/api/vault", token: b.Token, vault: b.VaultToken})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[[]itemBody](t, rr))

	rr = ts.do(t, call{method: http.MethodDelete, path: "/api/vault/" + item.ID, token: b.Token, vault: b.VaultToken})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
