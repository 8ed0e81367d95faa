package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// DevAuthSecret — ключ подписи токенов, если AUTH_SECRET не задан. Только для разработки.
const DevAuthSecret = "dev-secret-key"

type Config struct {
	// Server-side settings
	DatabaseDSN      string        `env:"DATABASE_URI"`
	AuthSecret       string        `env:"AUTH_SECRET"`
	BcryptCost       int           `env:"BCRYPT_COST" envDefault:"12"`
	IdentityTokenTTL time.Duration `env:"IDENTITY_TOKEN_TTL" envDefault:"168h"`
	VaultTokenTTL    time.Duration `env:"VAULT_TOKEN_TTL" envDefault:"1h"`
	StoreTimeout     time.Duration `env:"STORE_TIMEOUT" envDefault:"5s"`
	RequestTimeout   time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	TOTPIssuer       string        `env:"TOTP_ISSUER" envDefault:"PassVault"`
	MaxBodyMB        int           `env:"MAX_BODY_MB" envDefault:"10"`
	Debug            bool          `env:"DEBUG"`

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`

	// Client-side settings
	ServerURL string `env:"-"`
	ClientDir string `env:"CLIENT_DIR"`
	Version   bool   `env:"-"` // show client version and exit (flag only)
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// флаги переопределяют значения из env
	// Server flags
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД (postgres DSN или файл SQLite)")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.IntVar(&cfg.BcryptCost, "bcrypt-cost", cfg.BcryptCost, "рабочий фактор bcrypt")
	flag.DurationVar(&cfg.IdentityTokenTTL, "identity-ttl", cfg.IdentityTokenTTL, "срок жизни токена личности")
	flag.DurationVar(&cfg.VaultTokenTTL, "vault-ttl", cfg.VaultTokenTTL, "срок жизни vault-токена")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "подробные логи")
	// Shared/client flags
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "address of the PassVault server (host:port)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS (client: prefer https scheme for BaseURL)")
	// Client flags
	flag.StringVar(&cfg.ClientDir, "client-dir", cfg.ClientDir, "directory for client state (tokens, salt)")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	flag.Parse()

	cfg.applyDefaults()
	return cfg
}

var hostPortRe = regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)

func (cfg *Config) applyDefaults() {
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = DevAuthSecret
	}
	if cfg.IdentityTokenTTL <= 0 {
		cfg.IdentityTokenTTL = 168 * time.Hour
	}
	if cfg.VaultTokenTTL <= 0 {
		cfg.VaultTokenTTL = time.Hour
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = 5 * time.Second
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.MaxBodyMB <= 0 {
		cfg.MaxBodyMB = 10
	}
	if cfg.TOTPIssuer == "" {
		cfg.TOTPIssuer = "PassVault"
	}

	// BaseURL: только "address:port" без схемы и пути, иначе значение по умолчанию
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8081"
	}
	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}

	if cfg.ClientDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			base, _ = os.UserHomeDir()
		}
		cfg.ClientDir = filepath.Join(base, "PassVault")
	}
}

// ErrDevSecretInProduction — сервер без AUTH_SECRET запущен не в режиме отладки.
var ErrDevSecretInProduction = errors.New("AUTH_SECRET is not set; the development secret is allowed only with DEBUG=true")

// ValidateServer проверяет настройки, без которых сервер запускать нельзя.
// Ключ разработки публичен: с ним любой может подписать токен для чужого аккаунта.
func (cfg *Config) ValidateServer() error {
	if cfg.UsesDevSecret() && !cfg.Debug {
		return ErrDevSecretInProduction
	}
	return nil
}

// UsesDevSecret сообщает, что токены подписываются ключом для разработки.
func (cfg *Config) UsesDevSecret() bool {
	return cfg.AuthSecret == DevAuthSecret
}

// MaxBodyBytes — предел тела запроса в байтах.
func (cfg *Config) MaxBodyBytes() int64 {
	return int64(cfg.MaxBodyMB) << 20
}
