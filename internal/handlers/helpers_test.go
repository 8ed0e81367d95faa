package handlers_test

import (
	"PassVault/internal/config"
	"PassVault/internal/handlers"
	"PassVault/internal/hashing"
	"PassVault/internal/repo"
	"PassVault/internal/service"
	"PassVault/internal/token"
	"PassVault/internal/totp"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// testServer — роутер поверх настоящих сервисов и in-memory SQLite
type testServer struct {
	router http.Handler
	otp    *totp.Service
	tokens *token.Manager
	now    time.Time
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := repo.InitDB("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	ts := &testServer{now: time.Now()}
	clock := func() time.Time { return ts.now }
	ts.otp = totp.NewService("PassVault").WithClock(clock)
	ts.tokens = token.NewManager("test-secret").WithClock(clock)

	cfg := &config.Config{AuthSecret: "test-secret", MaxBodyMB: 1, RequestTimeout: 5 * time.Second}
	logger := zap.NewNop().Sugar()
	opts := service.DefaultOptions()

	accounts := repo.NewAccountRepository(db)
	settings := repo.NewSettingsRepository(db)
	items := repo.NewVaultItemRepository(db)
	hasher := hashing.NewHasher(bcrypt.MinCost)

	h := handlers.NewHandler(handlers.Services{
		Auth:      service.NewAuthService(accounts, settings, hasher, ts.tokens, ts.otp, opts, logger),
		TwoFactor: service.NewTwoFactorService(accounts, settings, ts.otp, opts, logger),
		Settings:  service.NewSettingsService(settings, opts, logger),
		Records:   service.NewRecordService(items, opts, logger),
	}, logger, cfg)
	ts.router = h.Router
	return ts
}

type call struct {
	method string
	path   string
	body   any
	token  string
	vault  string
}

func (ts *testServer) do(t *testing.T, c call) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	switch b := c.body.(type) {
	case nil:
	case string:
		body = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(c.method, c.path, body)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.vault != "" {
		req.Header.Set("X-Vault-Token", c.vault)
	}
	rr := httptest.NewRecorder()
	ts.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(bytes.NewReader(rr.Body.Bytes())).Decode(&v), rr.Body.String())
	return v
}

type session struct {
	AccountID  string
	Token      string
	VaultToken string
}

// signupAndUnlock регистрирует аккаунт и разблокирует хранилище
func (ts *testServer) signupAndUnlock(t *testing.T, email string) session {
	t.Helper()
	rr := ts.do(t, call{method: http.MethodPost, path: "/api/auth/signup",
		body: map[string]string{"email": email, "password": "pass123", "masterPassword": "masterpass1"}})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	signup := decode[struct {
		Token     string `json:"token"`
		AccountID string `json:"accountId"`
	}](t, rr)

	rr = ts.do(t, call{method: http.MethodPost, path: "/api/auth/verify-master-password", token: signup.Token,
		body: map[string]string{"masterPassword": "masterpass1"}})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	unlock := decode[struct {
		VaultToken string `json:"vaultToken"`
	}](t, rr)
	return session{AccountID: signup.AccountID, Token: signup.Token, VaultToken: unlock.VaultToken}
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
