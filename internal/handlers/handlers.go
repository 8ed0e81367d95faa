package handlers

import (
	"PassVault/internal/config"
	"PassVault/internal/middleware"
	"PassVault/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// Services — сервисы, которые обслуживает HTTP-граница.
type Services struct {
	Auth      *service.AuthService
	TwoFactor *service.TwoFactorService
	Settings  *service.SettingsService
	Records   *service.RecordService
}

// NewHandler разводящий для хендлеров
func NewHandler(
	services Services,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.WithLogging)
	r.Use(chimw.Recoverer)
	r.Use(middleware.WithGzip)
	r.Use(limitBody(config.MaxBodyBytes()))
	if config.RequestTimeout > 0 {
		r.Use(chimw.Timeout(config.RequestTimeout))
	}

	// Handlers
	authHandler := NewAuthHandler(services.Auth, logger)
	twoFactorHandler := NewTwoFactorHandler(services.Auth, services.TwoFactor, logger)
	settingsHandler := NewSettingsHandler(services.Settings, logger)
	vaultHandler := NewVaultHandler(services.Records, logger)

	withIdentity := middleware.WithIdentity(services.Auth)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "OK"})
	})

	r.Route("/api", func(r chi.Router) {
		// Auth routes
		r.Post("/auth/signup", authHandler.Signup)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/check-vault-access", authHandler.CheckVaultAccess)
		r.With(withIdentity).Post("/auth/verify-master-password", authHandler.VerifyMasterPassword)

		// Two-factor routes; verify-login вызывается до выдачи токена личности
		r.Post("/two-factor/verify-login", twoFactorHandler.VerifyLogin)
		r.Group(func(r chi.Router) {
			r.Use(withIdentity)
			r.Post("/two-factor/setup", twoFactorHandler.Setup)
			r.Post("/two-factor/verify", twoFactorHandler.Verify)
			r.Post("/two-factor/disable", twoFactorHandler.Disable)

			r.Get("/settings", settingsHandler.Get)
			r.Put("/settings/theme", settingsHandler.UpdateTheme)
		})

		// Vault routes: токен личности, затем vault-токен того же аккаунта
		r.Route("/vault", func(r chi.Router) {
			r.Use(withIdentity)
			r.Use(middleware.WithVaultAccess(services.Auth))
			r.Get("/", vaultHandler.List)
			r.Post("/", vaultHandler.Create)
			r.Put("/{id}", vaultHandler.Update)
			r.Delete("/{id}", vaultHandler.Delete)
		})
	})

	return &Handler{Router: r}
}

// limitBody ограничивает размер тела запроса.
func limitBody(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
