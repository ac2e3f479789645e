package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/rbac-admin/internal/domain"
	"github.com/ErlanBelekov/rbac-admin/internal/repository"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const roleCollection = "roles"

type RoleRepository struct {
	db *mongo.Database
}

func NewRoleRepository(conn *Conn) *RoleRepository {
	return &RoleRepository{db: conn.Database()}
}

func (r *RoleRepository) Create(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	now := time.Now()
	role.CreatedAt = now
	role.UpdatedAt = now
	if role.PermissionIDs == nil {
		role.PermissionIDs = []bson.ObjectID{}
	}

	res, err := r.db.Collection(roleCollection).InsertOne(ctx, role)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrNameTaken
		}
		return nil, fmt.Errorf("insert role: %w", err)
	}

	id, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return nil, errors.New("inserted role ID is not an ObjectID")
	}
	role.ID = id
	return role, nil
}

func (r *RoleRepository) FindByID(ctx context.Context, id bson.ObjectID) (*domain.Role, error) {
	var role domain.Role
	err := r.db.Collection(roleCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&role)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return &role, nil
}

func (r *RoleRepository) FindByIDs(ctx context.Context, ids []bson.ObjectID) ([]*domain.Role, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := r.db.Collection(roleCollection).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find roles: %w", err)
	}
	defer cursor.Close(ctx)

	var roles []*domain.Role
	if err := cursor.All(ctx, &roles); err != nil {
		return nil, fmt.Errorf("decode roles: %w", err)
	}
	return roles, nil
}

func (r *RoleRepository) List(ctx context.Context, skip, limit int64) ([]*domain.Role, int64, error) {
	total, err := r.db.Collection(roleCollection).CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count roles: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.db.Collection(roleCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list roles: %w", err)
	}
	defer cursor.Close(ctx)

	var roles []*domain.Role
	if err := cursor.All(ctx, &roles); err != nil {
		return nil, 0, fmt.Errorf("decode roles: %w", err)
	}
	return roles, total, nil
}

func (r *RoleRepository) Update(ctx context.Context, id bson.ObjectID, params repository.UpdateRoleParams) (*domain.Role, error) {
	set := bson.M{}
	if params.Name != nil {
		set["name"] = *params.Name
	}
	if params.PermissionIDs != nil {
		set["permissions"] = *params.PermissionIDs
	}
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}
	set["updatedAt"] = time.Now()

	var role domain.Role
	err := r.db.Collection(roleCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&role)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoleNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrNameTaken
		}
		return nil, fmt.Errorf("update role: %w", err)
	}
	return &role, nil
}

func (r *RoleRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := r.db.Collection(roleCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrRoleNotFound
	}
	return nil
}
