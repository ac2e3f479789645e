package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Permission is a leaf capability, named with a dot namespace
// such as "user.read" or "role.update".
type Permission struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string        `bson:"name"          json:"name"`
	CreatedAt time.Time     `bson:"createdAt"     json:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"     json:"updatedAt"`
}
