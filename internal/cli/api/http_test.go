package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SendsTokensAndJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))
		assert.Equal(t, "vt", r.Header.Get(VaultTokenHeader))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var m map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&m))
		assert.Equal(t, float64(1), m["x"])
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer ts.Close()

	var out struct {
		OK bool `json:"ok"`
	}
	err := NewClient(ts.URL+"/").Do(context.Background(), http.MethodPost, "/api", Auth{Token: "tok123", VaultToken: "vt"}, map[string]any{"x": 1}, &out)
	require.NoError(t, err)
	assert.True(t, out.OK)
}

func TestClient_NoTokensNoHeaders(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Empty(t, r.Header.Get(VaultTokenHeader))
		assert.Empty(t, r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	require.NoError(t, NewClient(ts.URL).Do(context.Background(), http.MethodGet, "/x", Auth{}, nil, nil))
}

func TestClient_APIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Vault session expired","code":"vault_session_expired"}`))
	}))
	defer ts.Close()

	err := NewClient(ts.URL).Do(context.Background(), http.MethodGet, "/api/vault", Auth{Token: "t"}, nil, nil)
	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusUnauthorized, ae.Status)
	assert.Equal(t, CodeVaultSessionExpired, ae.Code)
	assert.True(t, IsVaultAuthError(err))
	assert.False(t, IsUnauthenticated(err))
	assert.Contains(t, err.Error(), "Vault session expired")
}

func TestClient_PlainTextError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer ts.Close()

	err := NewClient(ts.URL).Do(context.Background(), http.MethodGet, "/", Auth{}, nil, nil)
	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "boom", ae.Message)
	assert.Empty(t, ae.Code)
	assert.False(t, IsVaultAuthError(err))
}

func TestClient_Unauthenticated(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Authentication required","code":"unauthenticated"}`))
	}))
	defer ts.Close()

	err := NewClient(ts.URL).Do(context.Background(), http.MethodGet, "/", Auth{}, nil, nil)
	assert.True(t, IsUnauthenticated(err))
}

func TestClient_NetworkError(t *testing.T) {
	err := NewClient("http://127.0.0.1:0").Do(context.Background(), http.MethodGet, "/", Auth{}, nil, nil)
	assert.Error(t, err)
}

func TestClient_InvalidURL(t *testing.T) {
	err := NewClient("http://[::1").Do(context.Background(), http.MethodGet, "/", Auth{}, nil, nil)
	assert.Error(t, err)
}

func TestClient_BadResponseJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer ts.Close()

	var out map[string]any
	err := NewClient(ts.URL).Do(context.Background(), http.MethodGet, "/", Auth{}, nil, &out)
	assert.ErrorContains(t, err, "decode response")
}
