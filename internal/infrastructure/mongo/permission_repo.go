package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/rbac-admin/internal/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const permissionCollection = "permissions"

type PermissionRepository struct {
	db *mongo.Database
}

func NewPermissionRepository(conn *Conn) *PermissionRepository {
	return &PermissionRepository{db: conn.Database()}
}

func (r *PermissionRepository) Create(ctx context.Context, permission *domain.Permission) (*domain.Permission, error) {
	now := time.Now()
	permission.CreatedAt = now
	permission.UpdatedAt = now

	res, err := r.db.Collection(permissionCollection).InsertOne(ctx, permission)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrNameTaken
		}
		return nil, fmt.Errorf("insert permission: %w", err)
	}

	id, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return nil, errors.New("inserted permission ID is not an ObjectID")
	}
	permission.ID = id
	return permission, nil
}

func (r *PermissionRepository) FindByID(ctx context.Context, id bson.ObjectID) (*domain.Permission, error) {
	var permission domain.Permission
	err := r.db.Collection(permissionCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&permission)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPermissionNotFound
		}
		return nil, fmt.Errorf("find permission: %w", err)
	}
	return &permission, nil
}

func (r *PermissionRepository) FindByIDs(ctx context.Context, ids []bson.ObjectID) ([]*domain.Permission, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := r.db.Collection(permissionCollection).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find permissions: %w", err)
	}
	defer cursor.Close(ctx)

	var permissions []*domain.Permission
	if err := cursor.All(ctx, &permissions); err != nil {
		return nil, fmt.Errorf("decode permissions: %w", err)
	}
	return permissions, nil
}

func (r *PermissionRepository) List(ctx context.Context, skip, limit int64) ([]*domain.Permission, int64, error) {
	total, err := r.db.Collection(permissionCollection).CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count permissions: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.db.Collection(permissionCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list permissions: %w", err)
	}
	defer cursor.Close(ctx)

	var permissions []*domain.Permission
	if err := cursor.All(ctx, &permissions); err != nil {
		return nil, 0, fmt.Errorf("decode permissions: %w", err)
	}
	return permissions, total, nil
}

func (r *PermissionRepository) UpdateName(ctx context.Context, id bson.ObjectID, name string) (*domain.Permission, error) {
	var permission domain.Permission
	err := r.db.Collection(permissionCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"name": name, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&permission)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPermissionNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrNameTaken
		}
		return nil, fmt.Errorf("update permission: %w", err)
	}
	return &permission, nil
}

func (r *PermissionRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := r.db.Collection(permissionCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete permission: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPermissionNotFound
	}
	return nil
}
