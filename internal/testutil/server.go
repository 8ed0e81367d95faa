// Package testutil поднимает настоящий HTTP-сервер PassVault поверх in-memory SQLite для тестов клиента.
package testutil

import (
	"PassVault/internal/config"
	"PassVault/internal/handlers"
	"PassVault/internal/hashing"
	"PassVault/internal/repo"
	"PassVault/internal/service"
	"PassVault/internal/token"
	"PassVault/internal/totp"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Server — httptest-сервер с управляемыми часами.
type Server struct {
	*httptest.Server
	OTP *totp.Service

	mu  sync.Mutex
	now time.Time
}

// NewServer запускает сервер и закрывает его по окончании теста.
func NewServer(t *testing.T) *Server {
	t.Helper()
	db, err := repo.InitDB("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	s := &Server{now: time.Now()}
	s.OTP = totp.NewService("PassVault").WithClock(s.Now)
	tokens := token.NewManager("test-secret").WithClock(s.Now)

	cfg := &config.Config{AuthSecret: "test-secret", MaxBodyMB: 1, RequestTimeout: 5 * time.Second}
	logger := zap.NewNop().Sugar()
	opts := service.DefaultOptions()

	accounts := repo.NewAccountRepository(db)
	settings := repo.NewSettingsRepository(db)
	h := handlers.NewHandler(handlers.Services{
		Auth:      service.NewAuthService(accounts, settings, hashing.NewHasher(bcrypt.MinCost), tokens, s.OTP, opts, logger),
		TwoFactor: service.NewTwoFactorService(accounts, settings, s.OTP, opts, logger),
		Settings:  service.NewSettingsService(settings, opts, logger),
		Records:   service.NewRecordService(repo.NewVaultItemRepository(db), opts, logger),
	}, logger, cfg)

	s.Server = httptest.NewServer(h.Router)
	t.Cleanup(func() {
		s.Close()
		_ = sqlDB.Close()
	})
	return s
}

// Now — текущее время сервера.
func (s *Server) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Advance сдвигает часы сервера.
func (s *Server) Advance(d time.Duration) {
	s.mu.Lock()
	s.now = s.now.Add(d)
	s.mu.Unlock()
}

// Code возвращает текущий TOTP-код для secret.
func (s *Server) Code(t *testing.T, secret string) string {
	t.Helper()
	code, err := s.OTP.Code(secret, s.Now())
	require.NoError(t, err)
	return code
}
