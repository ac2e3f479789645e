package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/ErlanBelekov/rbac-admin/internal/domain"
	"github.com/ErlanBelekov/rbac-admin/internal/metrics"
	"github.com/ErlanBelekov/rbac-admin/internal/repository"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// TokenLedger owns the persisted token lineages: opaque reset/verify
// credentials and server-side refresh records. Values are stored raw:
// the value itself is the bearer credential.
type TokenLedger struct {
	tokens repository.TokenRepository
	now    func() time.Time
}

func NewTokenLedger(tokens repository.TokenRepository) *TokenLedger {
	return &TokenLedger{tokens: tokens, now: time.Now}
}

// Issue generates a 32-byte random value, persists it with the TTL of
// its type, and returns the raw value.
func (l *TokenLedger) Issue(ctx context.Context, userID bson.ObjectID, typ domain.TokenType) (string, error) {
	raw := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	value := hex.EncodeToString(raw)

	if err := l.Save(ctx, userID, typ, value); err != nil {
		return "", err
	}
	return value, nil
}

// Save persists an externally minted value (the signed refresh JWTs)
// under the type's TTL.
func (l *TokenLedger) Save(ctx context.Context, userID bson.ObjectID, typ domain.TokenType, value string) error {
	if !typ.Valid() {
		return fmt.Errorf("unknown token type %q", typ)
	}

	err := l.tokens.Insert(ctx, &domain.Token{
		UserID:  userID,
		Value:   value,
		Type:    typ,
		Expires: l.now().Add(typ.TTL()),
	})
	if err != nil {
		return fmt.Errorf("store %s token: %w", typ, err)
	}

	metrics.TokensIssuedTotal.WithLabelValues(string(typ)).Inc()
	return nil
}

// Consume claims the token atomically: lookup and deletion are a single
// storage operation, so a value can be consumed at most once. Expired
// records are treated as absent.
func (l *TokenLedger) Consume(ctx context.Context, value string, typ domain.TokenType) (bson.ObjectID, error) {
	token, err := l.tokens.ConsumeValid(ctx, value, typ, l.now())
	if err != nil {
		metrics.TokensConsumedTotal.WithLabelValues(string(typ), "rejected").Inc()
		return bson.ObjectID{}, err
	}

	metrics.TokensConsumedTotal.WithLabelValues(string(typ), "accepted").Inc()
	return token.UserID, nil
}

// Revoke deletes a token unconditionally. Revoking an unknown value is
// a no-op, which makes logout idempotent.
func (l *TokenLedger) Revoke(ctx context.Context, value string) error {
	return l.tokens.DeleteByValue(ctx, value)
}
