package crypto

import (
	"errors"
	"testing"
)

// Доп.кейс: Encrypt с ключом неправильной длины
func TestEncrypt_InvalidKeyLen(t *testing.T) {
	_, _, err := Encrypt([]byte("data"), []byte("short"))
	if !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey in Encrypt, got %v", err)
	}
}

// Доп.кейс: Decrypt с ключом неправильной длины
func TestDecrypt_InvalidKeyLen(t *testing.T) {
	if _, err := Decrypt([]byte{1, 2, 3}, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, []byte("short")); err == nil {
		t.Fatalf("expected error for invalid key length in Decrypt")
	}
}

// Доп.кейс: повреждённый base64 в EncryptedData
func TestDecryptString_BadBase64(t *testing.T) {
	key := DeriveKey("masterpass1", make([]byte, SaltLen))
	if _, err := DecryptString(EncryptedData{Ciphertext: "%%%", Nonce: "AAAA"}, key); !errors.Is(err, ErrDecrypt) {
		t.Fatalf("expected ErrDecrypt for bad ciphertext encoding, got %v", err)
	}
	if _, err := DecryptString(EncryptedData{Ciphertext: "AAAA", Nonce: "%%%"}, key); !errors.Is(err, ErrDecrypt) {
		t.Fatalf("expected ErrDecrypt for bad nonce encoding, got %v", err)
	}
}

// Доп.кейс: изменённый шифртекст не проходит проверку тега
func TestDecrypt_TamperedCiphertext(t *testing.T) {
	key := DeriveKey("masterpass1", make([]byte, SaltLen))
	ct, nonce, err := Encrypt([]byte("secret"), key)
	if err != nil {
		t.Fatal(err)
	}
	ct[0] ^= 0xff
	if _, err := Decrypt(ct, nonce, key); !errors.Is(err, ErrDecrypt) {
		t.Fatalf("tampered ciphertext must fail with ErrDecrypt, got %v", err)
	}
}
