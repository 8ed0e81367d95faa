package token

import (
	"fmt"
	"strings"
)

// Claim — право, которое удостоверяет токен.
type Claim uint8

const (
	// ClaimIdentity — запрос от аутентифицированного аккаунта.
	ClaimIdentity Claim = 1 << iota
	// ClaimVaultAccess — мастер-пароль подтверждён для этого аккаунта.
	ClaimVaultAccess
)

var claimNames = map[Claim]string{
	ClaimIdentity:    "identity",
	ClaimVaultAccess: "vault",
}

func (c Claim) String() string {
	if n, ok := claimNames[c]; ok {
		return n
	}
	return fmt.Sprintf("claim(%d)", uint8(c))
}

func parseClaim(s string) (Claim, bool) {
	for c, n := range claimNames {
		if n == s {
			return c, true
		}
	}
	return 0, false
}

// ClaimSet — набор прав токена.
type ClaimSet uint8

const (
	// IdentityClaims — набор прав токена личности.
	IdentityClaims = ClaimSet(ClaimIdentity)
	// VaultAccessClaims — набор прав токена доступа к хранилищу.
	VaultAccessClaims = ClaimSet(ClaimIdentity | ClaimVaultAccess)
)

// Has сообщает, входит ли право в набор.
func (s ClaimSet) Has(c Claim) bool { return s&ClaimSet(c) != 0 }

// Names возвращает имена прав в стабильном порядке.
func (s ClaimSet) Names() []string {
	var out []string
	for _, c := range []Claim{ClaimIdentity, ClaimVaultAccess} {
		if s.Has(c) {
			out = append(out, c.String())
		}
	}
	return out
}

func (s ClaimSet) String() string { return strings.Join(s.Names(), ",") }

func parseClaimSet(names []string) (ClaimSet, error) {
	var s ClaimSet
	for _, n := range names {
		c, ok := parseClaim(n)
		if !ok {
			return 0, fmt.Errorf("unknown claim %q", n)
		}
		s |= ClaimSet(c)
	}
	return s, nil
}
