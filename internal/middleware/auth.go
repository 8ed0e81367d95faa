package middleware

import (
	"PassVault/internal/apperr"
	"context"
	"net/http"
	"strings"
)

// VaultTokenHeader — заголовок с vault-токеном.
const VaultTokenHeader = "X-Vault-Token"

type ctxKey int

const (
	accountIDKey ctxKey = iota
	requestInfoKey
)

// IdentityVerifier проверяет токен личности и возвращает id аккаунта.
type IdentityVerifier interface {
	Authenticate(raw string) (string, error)
}

// VaultVerifier проверяет vault-токен и возвращает id аккаунта.
type VaultVerifier interface {
	CheckVaultAccess(raw string) (string, error)
}

// BearerToken извлекает токен из заголовка Authorization: Bearer <token>.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) < len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

// WithIdentity пропускает только запросы с действительным токеном личности
// и кладёт id аккаунта в контекст.
func WithIdentity(v IdentityVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accountID, err := v.Authenticate(BearerToken(r))
			if err != nil {
				WriteError(w, err)
				return
			}
			noteAccountID(r.Context(), accountID)
			next.ServeHTTP(w, r.WithContext(WithAccountID(r.Context(), accountID)))
		})
	}
}

// WithVaultAccess требует vault-токен того же аккаунта, что и токен личности.
// Ставится после WithIdentity.
func WithVaultAccess(v VaultVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accountID, ok := GetAccountIDFromContext(r.Context())
			if !ok {
				WriteError(w, apperr.ErrUnauthenticated)
				return
			}
			vaultSubject, err := v.CheckVaultAccess(r.Header.Get(VaultTokenHeader))
			if err != nil {
				sugar.Infow("vault access denied", "account_id", accountID, "code", apperr.From(err).Code)
				WriteError(w, err)
				return
			}
			if vaultSubject != accountID {
				sugar.Warnw("vault token subject mismatch", "account_id", accountID)
				WriteError(w, apperr.ErrSubjectMismatch)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithAccountID кладёт id аккаунта в контекст
func WithAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, accountIDKey, accountID)
}

// GetAccountIDFromContext возвращает id аккаунта, установленный WithIdentity
func GetAccountIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(accountIDKey).(string)
	return id, ok && id != ""
}
