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

const userCollection = "users"

type UserRepository struct {
	db *mongo.Database
}

func NewUserRepository(conn *Conn) *UserRepository {
	return &UserRepository{db: conn.Database()}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.RoleIDs == nil {
		user.RoleIDs = []bson.ObjectID{}
	}

	res, err := r.db.Collection(userCollection).InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return nil, errors.New("inserted user ID is not an ObjectID")
	}
	user.ID = id
	return user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id bson.ObjectID) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var user domain.User
	err := r.db.Collection(userCollection).FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context, params repository.ListUsersParams) ([]*domain.User, int64, error) {
	filter := bson.M{}
	if params.Search != "" {
		filter["email"] = bson.M{"$regex": params.Search, "$options": "i"}
	}

	total, err := r.db.Collection(userCollection).CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	sortBy := params.SortBy
	if sortBy == "" {
		sortBy = "createdAt"
	}
	order := 1
	if params.SortDesc {
		order = -1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortBy, Value: order}}).
		SetSkip(params.Skip).
		SetLimit(params.Limit)

	cursor, err := r.db.Collection(userCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*domain.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, fmt.Errorf("decode users: %w", err)
	}
	return users, total, nil
}

func (r *UserRepository) Update(ctx context.Context, id bson.ObjectID, params repository.UpdateUserParams) (*domain.User, error) {
	set := bson.M{}
	if params.Email != nil {
		set["email"] = *params.Email
	}
	if params.Password != nil {
		set["password"] = *params.Password
	}
	if params.IsVerified != nil {
		set["isVerified"] = *params.IsVerified
	}
	if params.RoleIDs != nil {
		set["roles"] = *params.RoleIDs
	}
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}
	set["updatedAt"] = time.Now()

	var user domain.User
	err := r.db.Collection(userCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := r.db.Collection(userCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
