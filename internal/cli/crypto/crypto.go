// Package crypto — клиентское шифрование записей. Ключ выводится из мастер-пароля
// и соли установки и нигде не сохраняется; сервер получает только шифртекст и nonce.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/argon2"
)

const (
	// keyLen — длина ключа для AES‑256 (в байтах).
	keyLen = 32
	// SaltLen — длина соли установки.
	SaltLen = 16

	// параметры Argon2id
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

var (
	// ErrDecrypt — шифртекст не расшифровывается этим ключом: неверный ключ, повреждённые данные или nonce.
	ErrDecrypt = errors.New("decryption failed")
	// ErrInvalidKey — ключ не подходит для AES-256.
	ErrInvalidKey = errors.New("invalid key length")
)

// EncryptedData — шифртекст и nonce в base64, в том виде, в каком они уходят на сервер.
type EncryptedData struct {
	Ciphertext string `json:"ciphertext"`
	Nonce      string `json:"nonce"`
}

// GenerateSalt возвращает случайную соль установки.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// DeriveKey выводит ключ из мастер-пароля и соли (Argon2id). Одинаковые входы дают одинаковый ключ.
func DeriveKey(masterPassword string, salt []byte) []byte {
	return argon2.IDKey([]byte(masterPassword), salt, argonTime, argonMemory, argonThreads, keyLen)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != keyLen {
		return nil, ErrInvalidKey
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Encrypt шифрует данные plain с помощью AES‑GCM и заданного ключа.
// Возвращает шифртекст и случайный nonce.
func Encrypt(plain []byte, key []byte) ([]byte, []byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, nil, err
	}
	out := gcm.Seal(nil, nonce, plain, nil)
	return out, nonce, nil
}

// Decrypt расшифровывает шифртекст с использованием AES‑GCM, ключа и nonce.
// Любая ошибка проверки тега — ErrDecrypt.
func Decrypt(ciphertext, nonce, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != gcm.NonceSize() {
		return nil, ErrDecrypt
	}
	plain, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plain, nil
}

// EncryptString шифрует строку и кодирует результат в base64.
func EncryptString(plain string, key []byte) (EncryptedData, error) {
	ct, nonce, err := Encrypt([]byte(plain), key)
	if err != nil {
		return EncryptedData{}, err
	}
	return EncryptedData{
		Ciphertext: base64.StdEncoding.EncodeToString(ct),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
	}, nil
}

// DecryptString — обратная операция к EncryptString.
func DecryptString(data EncryptedData, key []byte) (string, error) {
	ct, err := base64.StdEncoding.DecodeString(data.Ciphertext)
	if err != nil {
		return "", ErrDecrypt
	}
	nonce, err := base64.StdEncoding.DecodeString(data.Nonce)
	if err != nil {
		return "", ErrDecrypt
	}
	plain, err := Decrypt(ct, nonce, key)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
