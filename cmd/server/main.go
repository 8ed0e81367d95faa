package main

import (
	"PassVault/internal/config"
	"PassVault/internal/handlers"
	"PassVault/internal/hashing"
	"PassVault/internal/middleware"
	"PassVault/internal/repo"
	"PassVault/internal/service"
	"PassVault/internal/token"
	"PassVault/internal/totp"
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.Debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cfg.ValidateServer(); err != nil {
		sugar.Fatalw("invalid server configuration", "error", err)
	}
	if cfg.UsesDevSecret() {
		sugar.Warnw("AUTH_SECRET is not set, tokens are signed with the development secret")
	}

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	// хранилища
	accountRepo := repo.NewAccountRepository(gormDB)
	settingsRepo := repo.NewSettingsRepository(gormDB)
	itemRepo := repo.NewVaultItemRepository(gormDB)

	// stateless-сервисы, общие для всех запросов
	hasher := hashing.NewHasher(cfg.BcryptCost)
	tokens := token.NewManager(cfg.AuthSecret)
	otp := totp.NewService(cfg.TOTPIssuer)
	opts := service.Options{
		IdentityTTL:  cfg.IdentityTokenTTL,
		VaultTTL:     cfg.VaultTokenTTL,
		StoreTimeout: cfg.StoreTimeout,
		TOTPWindow:   totp.DefaultWindow,
	}

	h := handlers.NewHandler(handlers.Services{
		Auth:      service.NewAuthService(accountRepo, settingsRepo, hasher, tokens, otp, opts, sugar),
		TwoFactor: service.NewTwoFactorService(accountRepo, settingsRepo, otp, opts, sugar),
		Settings:  service.NewSettingsService(settingsRepo, opts, sugar),
		Records:   service.NewRecordService(itemRepo, opts, sugar),
	}, sugar, cfg)

	srv := &http.Server{
		Addr:              cfg.BaseURL,
		Handler:           h.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sugar.Infow(
		"Starting server",
		"addr", srv.Addr,
	)
	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"BcryptCost", hasher.Cost(),
		"IdentityTokenTTL", cfg.IdentityTokenTTL,
		"VaultTokenTTL", cfg.VaultTokenTTL,
		"StoreTimeout", cfg.StoreTimeout,
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("Server failed", "error", err)
		}
	}()

	<-ctx.Done()
	sugar.Infow("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("graceful shutdown failed", "error", err)
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
