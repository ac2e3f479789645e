package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// TokenType discriminates the three token lineages. Which TTL applies
// is a pure function of the type.
type TokenType string

const (
	TokenRefresh TokenType = "refresh"
	TokenReset   TokenType = "reset"
	TokenVerify  TokenType = "verify"
)

const (
	RefreshTokenTTL = 7 * 24 * time.Hour
	ResetTokenTTL   = 1 * time.Hour
	VerifyTokenTTL  = 24 * time.Hour
)

// TTL returns the lifetime for tokens of this type. The windows shrink
// as the operation the token authorizes gets more sensitive.
func (t TokenType) TTL() time.Duration {
	switch t {
	case TokenRefresh:
		return RefreshTokenTTL
	case TokenReset:
		return ResetTokenTTL
	case TokenVerify:
		return VerifyTokenTTL
	}
	return 0
}

// Valid reports whether t is one of the known token types.
func (t TokenType) Valid() bool {
	return t == TokenRefresh || t == TokenReset || t == TokenVerify
}

// Token is a persisted opaque credential. The value is stored raw:
// the value itself is the bearer credential, the ledger never hashes it.
// Records with Expires <= now are invalid for all purposes even if not
// yet deleted; repositories filter them at query time.
type Token struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    bson.ObjectID `bson:"userId"        json:"userId"`
	Value     string        `bson:"token"         json:"-"`
	Type      TokenType     `bson:"type"          json:"type"`
	Expires   time.Time     `bson:"expires"       json:"expires"`
	CreatedAt time.Time     `bson:"createdAt"     json:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"     json:"updatedAt"`
}
