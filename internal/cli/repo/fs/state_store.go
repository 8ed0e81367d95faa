package fs

import (
	"PassVault/internal/cli/crypto"
	"PassVault/internal/cli/repo"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrNoSession — клиент не вошёл.
	ErrNoSession = errors.New("not logged in")
	// ErrNoVaultToken — хранилище не разблокировано.
	ErrNoVaultToken = errors.New("vault is locked")
	// ErrNoPending2FA — нет входа, ожидающего второго фактора.
	ErrNoPending2FA = errors.New("no login awaiting a 2FA code")
)

const (
	tokenFile      = "auth_token"
	vaultTokenFile = "vault_token"
	sessionFile    = "session.json"
	pendingFile    = "pending_2fa.json"
	saltFile       = "salt"
	keyCheckFile   = "key_check"
)

// StateStore — файловое хранилище состояния CLI в каталоге Dir.
type StateStore struct {
	Dir string
}

var _ repo.SessionStore = (*StateStore)(nil)

// NewStateStore создаёт хранилище в каталоге dir.
func NewStateStore(dir string) *StateStore {
	return &StateStore{Dir: dir}
}

func (s *StateStore) path(name string) (string, error) {
	if s.Dir == "" {
		return "", errors.New("empty client state dir")
	}
	if err := os.MkdirAll(s.Dir, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(s.Dir, name), nil
}

func (s *StateStore) write(name string, data []byte) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o600)
}

// read читает файл и обрезает завершающие пробелы и переводы строк.
// Отсутствующий или пустой файл — notFound.
func (s *StateStore) read(name string, notFound error) ([]byte, error) {
	p, err := s.path(name)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, notFound
	}
	if err != nil {
		return nil, err
	}
	b = []byte(strings.TrimRight(string(b), " \t\r\n"))
	if len(b) == 0 {
		return nil, notFound
	}
	return b, nil
}

func (s *StateStore) remove(names ...string) error {
	for _, name := range names {
		p, err := s.path(name)
		if err != nil {
			return err
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

func (s *StateStore) SaveSession(sess repo.Session) error {
	if sess.Token == "" || sess.AccountID == "" {
		return errors.New("empty session")
	}
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	if err := s.write(sessionFile, b); err != nil {
		return err
	}
	if err := s.write(tokenFile, []byte(sess.Token)); err != nil {
		return err
	}
	return s.remove(pendingFile)
}

func (s *StateStore) LoadSession() (repo.Session, error) {
	tok, err := s.read(tokenFile, ErrNoSession)
	if err != nil {
		return repo.Session{}, err
	}
	var sess repo.Session
	b, err := s.read(sessionFile, ErrNoSession)
	if err != nil {
		return repo.Session{}, err
	}
	if err := json.Unmarshal(b, &sess); err != nil {
		return repo.Session{}, fmt.Errorf("corrupt session file: %w", err)
	}
	sess.Token = string(tok)
	return sess, nil
}

func (s *StateStore) Clear() error {
	return s.remove(tokenFile, sessionFile, vaultTokenFile, pendingFile, keyCheckFile)
}

func (s *StateStore) SaveVaultToken(token string) error {
	if token == "" {
		return errors.New("empty vault token")
	}
	return s.write(vaultTokenFile, []byte(token))
}

func (s *StateStore) LoadVaultToken() (string, error) {
	b, err := s.read(vaultTokenFile, ErrNoVaultToken)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *StateStore) ClearVaultToken() error {
	return s.remove(vaultTokenFile)
}

type pending2FA struct {
	AccountID string `json:"accountId"`
	Email     string `json:"email"`
}

func (s *StateStore) SavePending2FA(accountID, email string) error {
	if accountID == "" {
		return errors.New("empty account id")
	}
	b, err := json.Marshal(pending2FA{AccountID: accountID, Email: email})
	if err != nil {
		return err
	}
	return s.write(pendingFile, b)
}

func (s *StateStore) LoadPending2FA() (string, string, error) {
	b, err := s.read(pendingFile, ErrNoPending2FA)
	if err != nil {
		return "", "", err
	}
	var p pending2FA
	if err := json.Unmarshal(b, &p); err != nil || p.AccountID == "" {
		return "", "", ErrNoPending2FA
	}
	return p.AccountID, p.Email, nil
}

// Salt возвращает соль установки. Соль не секретна и никогда не уходит на сервер.
func (s *StateStore) Salt() ([]byte, error) {
	b, err := s.read(saltFile, os.ErrNotExist)
	if err == nil {
		salt, herr := hex.DecodeString(string(b))
		if herr != nil || len(salt) != crypto.SaltLen {
			return nil, errors.New("corrupt salt file")
		}
		return salt, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	salt, err := crypto.GenerateSalt()
	if err != nil {
		return nil, err
	}
	if err := s.write(saltFile, []byte(hex.EncodeToString(salt))); err != nil {
		return nil, err
	}
	return salt, nil
}

func (s *StateStore) SaveKeyCheck(data []byte) error {
	return s.write(keyCheckFile, data)
}

func (s *StateStore) LoadKeyCheck() ([]byte, error) {
	return s.read(keyCheckFile, ErrNoVaultToken)
}
