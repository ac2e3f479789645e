package repository

import (
	"context"
	"time"

	"github.com/ErlanBelekov/rbac-admin/internal/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type TokenRepository interface {
	Insert(ctx context.Context, token *domain.Token) error
	// ConsumeValid atomically looks up and deletes the token matching
	// value and type with expires > now. Returns domain.ErrTokenInvalid
	// when no such live token exists, so a second consumption of the
	// same value always fails.
	ConsumeValid(ctx context.Context, value string, typ domain.TokenType, now time.Time) (*domain.Token, error)
	// DeleteByValue removes a token unconditionally. Deleting an absent
	// value is not an error.
	DeleteByValue(ctx context.Context, value string) error
	DeleteByUser(ctx context.Context, userID bson.ObjectID) error
}
