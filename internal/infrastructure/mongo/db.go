package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Conn bundles the client and the application database.
type Conn struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a client, pings the deployment, and ensures the unique
// indexes the data model relies on (email, role name, permission name).
func Connect(ctx context.Context, uri, dbName string) (*Conn, error) {
	client, err := mongo.Connect(options.Client().
		ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetMaxPoolSize(25).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(30 * time.Minute))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	conn := &Conn{client: client, db: client.Database(dbName)}
	if err := conn.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return conn, nil
}

// Database returns the application database handle for the repositories.
func (c *Conn) Database() *mongo.Database { return c.db }

// Ping satisfies health.Pinger.
func (c *Conn) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the underlying client.
func (c *Conn) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

func (c *Conn) ensureIndexes(ctx context.Context) error {
	unique := func(field string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
	}

	for coll, model := range map[string]mongo.IndexModel{
		userCollection:       unique("email"),
		roleCollection:       unique("name"),
		permissionCollection: unique("name"),
	} {
		if _, err := c.db.Collection(coll).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create %s index: %w", coll, err)
		}
	}

	// Token lookups are by raw value; expired docs are filtered at query
	// time, not swept.
	tokenIdx := mongo.IndexModel{Keys: bson.D{{Key: "token", Value: 1}}}
	if _, err := c.db.Collection(tokenCollection).Indexes().CreateOne(ctx, tokenIdx); err != nil {
		return fmt.Errorf("create %s index: %w", tokenCollection, err)
	}
	return nil
}
