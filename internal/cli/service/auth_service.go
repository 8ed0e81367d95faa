// Package service — юзкейсы CLI поверх HTTP API и локального состояния.
package service

import (
	"PassVault/internal/cli/api"
	"PassVault/internal/cli/crypto"
	"PassVault/internal/cli/repo"
	fsrepo "PassVault/internal/cli/repo/fs"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
)

// keyCheckPlain шифруется выведенным ключом при разблокировке, чтобы потом проверять мастер-пароль локально.
const keyCheckPlain = "passvault-key-check"

var (
	// ErrWrongMasterPassword — мастер-пароль не совпадает с тем, которым хранилище было разблокировано.
	ErrWrongMasterPassword = errors.New("master password does not match the unlocked vault")
	// ErrNotLoggedIn — нет сохранённой сессии.
	ErrNotLoggedIn = errors.New("not logged in, run `login` first")
	// ErrVaultLocked — нет vault-токена.
	ErrVaultLocked = errors.New("vault is locked, run `unlock` first")
)

// AuthService — вход, второй фактор и разблокировка хранилища.
type AuthService struct {
	API   *api.Client
	Store repo.SessionStore
}

// NewAuthService создаёт AuthService.
func NewAuthService(c *api.Client, s repo.SessionStore) *AuthService {
	return &AuthService{API: c, Store: s}
}

type tokenResponse struct {
	Token       string `json:"token"`
	AccountID   string `json:"accountId"`
	Requires2FA bool   `json:"requires2FA"`
}

// Signup регистрирует аккаунт и сохраняет сессию.
func (s *AuthService) Signup(ctx context.Context, email, password, master string) error {
	var res tokenResponse
	err := s.API.Do(ctx, http.MethodPost, "/api/auth/signup", api.Auth{}, map[string]string{
		"email": email, "password": password, "masterPassword": master,
	}, &res)
	if err != nil {
		return err
	}
	return s.Store.SaveSession(repo.Session{AccountID: res.AccountID, Email: normEmail(email), Token: res.Token})
}

// Login выполняет вход. Если включён второй фактор, возвращает true и запоминает ожидающий аккаунт.
func (s *AuthService) Login(ctx context.Context, email, password string) (bool, error) {
	var res tokenResponse
	err := s.API.Do(ctx, http.MethodPost, "/api/auth/login", api.Auth{}, map[string]string{
		"email": email, "password": password,
	}, &res)
	if err != nil {
		return false, err
	}
	// новый вход делает старый vault-токен чужим
	if err := s.Store.Clear(); err != nil {
		return false, err
	}
	if res.Requires2FA {
		return true, s.Store.SavePending2FA(res.AccountID, normEmail(email))
	}
	return false, s.Store.SaveSession(repo.Session{AccountID: res.AccountID, Email: normEmail(email), Token: res.Token})
}

// Login2FA завершает вход кодом второго фактора.
func (s *AuthService) Login2FA(ctx context.Context, code string) error {
	accountID, email, err := s.Store.LoadPending2FA()
	if err != nil {
		return err
	}
	var res tokenResponse
	err = s.API.Do(ctx, http.MethodPost, "/api/two-factor/verify-login", api.Auth{}, map[string]string{
		"accountId": accountID, "code": strings.TrimSpace(code),
	}, &res)
	if err != nil {
		return err
	}
	return s.Store.SaveSession(repo.Session{AccountID: res.AccountID, Email: email, Token: res.Token})
}

// Session возвращает текущую сессию.
func (s *AuthService) Session() (repo.Session, error) {
	sess, err := s.Store.LoadSession()
	if errors.Is(err, fsrepo.ErrNoSession) {
		return repo.Session{}, ErrNotLoggedIn
	}
	return sess, err
}

// Unlock проверяет мастер-пароль на сервере и сохраняет vault-токен.
func (s *AuthService) Unlock(ctx context.Context, master string) (time.Time, error) {
	sess, err := s.Session()
	if err != nil {
		return time.Time{}, err
	}
	var res struct {
		VaultToken string `json:"vaultToken"`
		ExpiresAt  string `json:"expiresAt"`
	}
	err = s.API.Do(ctx, http.MethodPost, "/api/auth/verify-master-password", api.Auth{Token: sess.Token}, map[string]string{
		"accountId": sess.AccountID, "masterPassword": master,
	}, &res)
	if err != nil {
		return time.Time{}, err
	}

	key, err := s.deriveKey(master)
	if err != nil {
		return time.Time{}, err
	}
	check, err := crypto.EncryptString(keyCheckPlain, key)
	if err != nil {
		return time.Time{}, err
	}
	b, err := json.Marshal(check)
	if err != nil {
		return time.Time{}, err
	}
	if err := s.Store.SaveKeyCheck(b); err != nil {
		return time.Time{}, err
	}
	if err := s.Store.SaveVaultToken(res.VaultToken); err != nil {
		return time.Time{}, err
	}
	exp, _ := time.Parse(time.RFC3339, res.ExpiresAt)
	return exp, nil
}

// Key выводит ключ шифрования из мастер-пароля и сверяет его с ключом, которым хранилище было разблокировано.
func (s *AuthService) Key(master string) ([]byte, error) {
	raw, err := s.Store.LoadKeyCheck()
	if err != nil {
		return nil, ErrVaultLocked
	}
	var check crypto.EncryptedData
	if err := json.Unmarshal(raw, &check); err != nil {
		return nil, ErrVaultLocked
	}
	key, err := s.deriveKey(master)
	if err != nil {
		return nil, err
	}
	if plain, err := crypto.DecryptString(check, key); err != nil || plain != keyCheckPlain {
		return nil, ErrWrongMasterPassword
	}
	return key, nil
}

func (s *AuthService) deriveKey(master string) ([]byte, error) {
	salt, err := s.Store.Salt()
	if err != nil {
		return nil, err
	}
	return crypto.DeriveKey(master, salt), nil
}

// Lock забывает vault-токен. Сессия личности остаётся.
func (s *AuthService) Lock() error {
	return s.Store.ClearVaultToken()
}

// Logout удаляет всё локальное состояние, кроме соли установки.
func (s *AuthService) Logout() error {
	return s.Store.Clear()
}

// Status — состояние клиента.
type Status struct {
	LoggedIn      bool
	Email         string
	AccountID     string
	VaultUnlocked bool
	Pending2FA    bool
}

// Status сообщает, вошёл ли пользователь и действует ли vault-токен.
// Недействительный vault-токен удаляется.
func (s *AuthService) Status(ctx context.Context) (Status, error) {
	sess, err := s.Session()
	if errors.Is(err, ErrNotLoggedIn) {
		_, _, perr := s.Store.LoadPending2FA()
		return Status{Pending2FA: perr == nil}, nil
	}
	if err != nil {
		return Status{}, err
	}
	st := Status{LoggedIn: true, Email: sess.Email, AccountID: sess.AccountID}

	vt, err := s.Store.LoadVaultToken()
	if err != nil {
		return st, nil
	}
	var res struct {
		VaultUnlocked bool   `json:"vaultUnlocked"`
		AccountID     string `json:"accountId"`
	}
	err = s.API.Do(ctx, http.MethodPost, "/api/auth/check-vault-access", api.Auth{VaultToken: vt}, nil, &res)
	if err != nil {
		var ae *api.APIError
		if errors.As(err, &ae) && ae.Status == http.StatusUnauthorized {
			return st, s.Store.ClearVaultToken()
		}
		return st, err
	}
	st.VaultUnlocked = res.VaultUnlocked && res.AccountID == sess.AccountID
	return st, nil
}

// auth возвращает оба токена для запросов к хранилищу.
func (s *AuthService) auth(needVault bool) (api.Auth, error) {
	sess, err := s.Session()
	if err != nil {
		return api.Auth{}, err
	}
	a := api.Auth{Token: sess.Token}
	if !needVault {
		return a, nil
	}
	vt, err := s.Store.LoadVaultToken()
	if err != nil {
		return api.Auth{}, ErrVaultLocked
	}
	a.VaultToken = vt
	return a, nil
}

// call выполняет запрос и забывает vault-токен, если сервер его отверг.
func (s *AuthService) call(ctx context.Context, method, path string, needVault bool, in, out any) error {
	a, err := s.auth(needVault)
	if err != nil {
		return err
	}
	err = s.API.Do(ctx, method, path, a, in, out)
	if needVault && api.IsVaultAuthError(err) {
		_ = s.Store.ClearVaultToken()
	}
	return err
}

func normEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
