// Package hashing — односторонние хеши паролей аккаунта и мастер-паролей.
package hashing

import (
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost — рабочий фактор bcrypt по умолчанию.
const DefaultCost = 12

// Hasher хеширует секреты bcrypt с заданным рабочим фактором.
// Соль генерируется bcrypt и хранится внутри дайджеста.
type Hasher struct {
	cost int
}

// NewHasher создаёт Hasher. Cost вне допустимого диапазона заменяется на DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Cost возвращает рабочий фактор.
func (h *Hasher) Cost() int { return h.cost }

// Hash возвращает дайджест секрета.
func (h *Hasher) Hash(secret string) (string, error) {
	b, err := bcrypt.GenerateFromPassword(prehash(secret), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify сравнивает секрет с дайджестом. Повреждённый дайджест даёт false.
func (h *Hasher) Verify(secret, digest string) bool {
	if digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), prehash(secret)) == nil
}

// bcrypt читает только первые 72 байта, поэтому секрет любой длины сводим к 44 байтам.
func prehash(secret string) []byte {
	sum := sha256.Sum256([]byte(secret))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}
