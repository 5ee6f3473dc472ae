// Package token issues and decodes the signed session tokens handed to API
// clients. Tokens are HS256 JWTs; claims are readable by anyone holding the
// token and only forgery is prevented.
package token

import (
	"fmt"
	"time"
)

// TempTTL is the fixed lifetime of a profile-completion token.
const TempTTL = 30 * time.Minute

// Kind discriminates the three token variants. A token's kind is decided at
// issuance and decoded once into Token.Kind.
type Kind int

const (
	KindAccess Kind = iota + 1
	KindRefresh
	KindTemp
)

func (k Kind) String() string {
	switch k {
	case KindAccess:
		return "access"
	case KindRefresh:
		return "refresh"
	case KindTemp:
		return "temp"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func parseKind(s string) (Kind, bool) {
	switch s {
	case "access":
		return KindAccess, true
	case "refresh":
		return KindRefresh, true
	case "temp":
		return KindTemp, true
	}
	return 0, false
}

// Token is the verified content of a signed token.
type Token struct {
	ID          string
	Kind        Kind
	Subject     string
	UserID      int64
	Email       string
	Name        string
	CountryCode string
	PhoneNumber string
	Role        string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

func (t *Token) IsTemporary() bool {
	return t.Kind == KindTemp
}

// Expired reports whether the expiry instant lies strictly before now.
func (t *Token) Expired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}
