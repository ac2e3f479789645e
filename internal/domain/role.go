package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Role groups permissions under a unique name.
type Role struct {
	ID            bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name          string          `bson:"name"          json:"name"`
	PermissionIDs []bson.ObjectID `bson:"permissions"   json:"-"`
	CreatedAt     time.Time       `bson:"createdAt"     json:"createdAt"`
	UpdatedAt     time.Time       `bson:"updatedAt"     json:"updatedAt"`
}

// RoleView is a role with its permission references expanded.
type RoleView struct {
	Role
	Permissions []Permission `json:"permissions"`
}
