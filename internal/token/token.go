// Package token выпускает и проверяет подписанные токены-возможности с ограниченным сроком жизни.
// Токены самодостаточны: сервер не хранит их и не может отозвать до истечения срока.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrExpired          = errors.New("token expired")
	ErrMalformed        = errors.New("token malformed")
	ErrSignatureInvalid = errors.New("token signature invalid")
)

// Capability — проверенное содержимое токена.
type Capability struct {
	Subject   string
	Claims    ClaimSet
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type jwtClaims struct {
	jwt.RegisteredClaims
	Scope []string `json:"scope"`
}

// Manager подписывает токены HS256.
type Manager struct {
	secret []byte
	now    func() time.Time
}

// NewManager создаёт менеджер токенов с ключом подписи secret.
func NewManager(secret string) *Manager {
	return &Manager{secret: []byte(secret), now: time.Now}
}

// WithClock подменяет источник времени.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Issue выпускает токен для subject с набором прав claims на срок ttl.
func (m *Manager) Issue(subject string, claims ClaimSet, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("empty token subject")
	}
	if claims == 0 {
		return "", errors.New("empty claim set")
	}
	now := m.now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Scope: claims.Names(),
	})
	s, err := t.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

// Verify проверяет подпись и срок токена и возвращает его содержимое.
func (m *Manager) Verify(tokenString string) (Capability, error) {
	claims := &jwtClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return Capability{}, ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return Capability{}, ErrSignatureInvalid
	default:
		return Capability{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if claims.Subject == "" {
		return Capability{}, fmt.Errorf("%w: missing subject", ErrMalformed)
	}
	set, err := parseClaimSet(claims.Scope)
	if err != nil || set == 0 {
		return Capability{}, fmt.Errorf("%w: bad scope", ErrMalformed)
	}

	c := Capability{
		Subject:   claims.Subject,
		Claims:    set,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		c.IssuedAt = claims.IssuedAt.Time
	}
	return c, nil
}
