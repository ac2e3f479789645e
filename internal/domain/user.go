package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User is the stored form of an account. Role membership is kept
// normalized as ObjectID references; UserView carries the read-time
// expansion.
type User struct {
	ID         bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	Email      string          `bson:"email"         json:"email"`
	Password   string          `bson:"password"      json:"-"`
	IsVerified bool            `bson:"isVerified"    json:"isVerified"`
	RoleIDs    []bson.ObjectID `bson:"roles"         json:"-"`
	CreatedAt  time.Time       `bson:"createdAt"     json:"createdAt"`
	UpdatedAt  time.Time       `bson:"updatedAt"     json:"updatedAt"`
}

// UserView is a user with its role references expanded into documents.
type UserView struct {
	User
	Roles []RoleView `json:"roles"`
}
