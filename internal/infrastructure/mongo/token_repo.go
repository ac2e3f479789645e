package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/rbac-admin/internal/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

const tokenCollection = "tokens"

type TokenRepository struct {
	db *mongo.Database
}

func NewTokenRepository(conn *Conn) *TokenRepository {
	return &TokenRepository{db: conn.Database()}
}

func (r *TokenRepository) Insert(ctx context.Context, token *domain.Token) error {
	now := time.Now()
	token.CreatedAt = now
	token.UpdatedAt = now

	res, err := r.db.Collection(tokenCollection).InsertOne(ctx, token)
	if err != nil {
		return fmt.Errorf("insert token: %w", err)
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		token.ID = id
	}
	return nil
}

// ConsumeValid relies on FindOneAndDelete being atomic per document:
// there is no window in which two callers can both claim the same token.
func (r *TokenRepository) ConsumeValid(ctx context.Context, value string, typ domain.TokenType, now time.Time) (*domain.Token, error) {
	filter := bson.M{
		"token":   value,
		"type":    typ,
		"expires": bson.M{"$gt": now},
	}

	var token domain.Token
	err := r.db.Collection(tokenCollection).FindOneAndDelete(ctx, filter).Decode(&token)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, fmt.Errorf("consume token: %w", err)
	}
	return &token, nil
}

func (r *TokenRepository) DeleteByValue(ctx context.Context, value string) error {
	if _, err := r.db.Collection(tokenCollection).DeleteOne(ctx, bson.M{"token": value}); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

func (r *TokenRepository) DeleteByUser(ctx context.Context, userID bson.ObjectID) error {
	if _, err := r.db.Collection(tokenCollection).DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		return fmt.Errorf("delete user tokens: %w", err)
	}
	return nil
}
