// seed populates the local dev database with the permission catalog,
// an admin and a viewer role, and a handful of accounts to log in with.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	appmongo "github.com/ErlanBelekov/rbac-admin/internal/infrastructure/mongo"
	"github.com/ErlanBelekov/rbac-admin/internal/security"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "Admin1234"
)

var permissionNames = []string{
	"user.read", "user.create", "user.update", "user.delete",
	"user.activate", "user.deactivate", "user.assignRole",
	"role.read", "role.create", "role.update", "role.delete",
	"role.attachPermission", "role.detachPermission",
	"permission.read", "permission.create", "permission.update", "permission.delete",
	"audit.read",
	"settings.read", "settings.update",
}

func main() {
	ctx := context.Background()

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		log.Fatal("MONGO_URI is not set — run: direnv allow")
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "rbac"
	}

	conn, err := appmongo.Connect(ctx, uri, dbName)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer conn.Close(ctx)

	db := conn.Database()
	now := time.Now().UTC()

	// Upsert the permission catalog. Re-runs leave existing documents
	// untouched, which keeps their ObjectIDs stable.
	permIDs := make(map[string]bson.ObjectID, len(permissionNames))
	for _, name := range permissionNames {
		id, err := upsertByName(ctx, db.Collection("permissions"), name, bson.M{
			"name":      name,
			"createdAt": now,
			"updatedAt": now,
		})
		if err != nil {
			log.Fatalf("upsert permission %s: %v", name, err)
		}
		permIDs[name] = id
	}

	// admin holds every permission, viewer only the read ones
	var adminPerms, viewerPerms []bson.ObjectID
	for _, name := range permissionNames {
		adminPerms = append(adminPerms, permIDs[name])
		if strings.HasSuffix(name, ".read") {
			viewerPerms = append(viewerPerms, permIDs[name])
		}
	}

	adminRoleID, err := upsertByName(ctx, db.Collection("roles"), "admin", bson.M{
		"name":        "admin",
		"permissions": adminPerms,
		"createdAt":   now,
		"updatedAt":   now,
	})
	if err != nil {
		log.Fatalf("upsert role admin: %v", err)
	}
	viewerRoleID, err := upsertByName(ctx, db.Collection("roles"), "viewer", bson.M{
		"name":        "viewer",
		"permissions": viewerPerms,
		"createdAt":   now,
		"updatedAt":   now,
	})
	if err != nil {
		log.Fatalf("upsert role viewer: %v", err)
	}

	if err := upsertUser(ctx, db, adminEmail, adminPassword, adminRoleID); err != nil {
		log.Fatalf("upsert user %s: %v", adminEmail, err)
	}

	var viewerEmails []string
	for i := 1; i <= 5; i++ {
		email := fmt.Sprintf("user%d@example.com", i)
		password := fmt.Sprintf("User%dpass", i)
		if err := upsertUser(ctx, db, email, password, viewerRoleID); err != nil {
			log.Fatalf("upsert user %s: %v", email, err)
		}
		viewerEmails = append(viewerEmails, email)
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  Permissions:  %d\n", len(permissionNames))
	fmt.Printf("  Roles:        admin (all), viewer (read-only)\n")
	fmt.Printf("  Admin login:  %s / %s\n", adminEmail, adminPassword)
	fmt.Printf("  Viewers:      %s (password User<n>pass)\n", strings.Join(viewerEmails, ", "))
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Step 1 — log in as the admin:")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/api/auth/login \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", adminEmail, adminPassword)
	fmt.Println("    # → {\"accessToken\":\"eyJ...\"}")
	fmt.Println()
	fmt.Println("  Step 2 — call a gated endpoint:")
	fmt.Println()
	fmt.Println("    export JWT=eyJ...")
	fmt.Println("    curl -s http://localhost:8080/api/users -H \"Authorization: Bearer $JWT\"")
	fmt.Println()
	fmt.Println("  What to expect:")
	fmt.Println("    admin        →  200 on every /api route")
	fmt.Println("    user1..5     →  200 on GET routes, 403 on writes")
}

// upsertByName inserts the document if no document with that name
// exists yet and returns the id either way.
func upsertByName(ctx context.Context, coll *mongo.Collection, name string, doc bson.M) (bson.ObjectID, error) {
	var out struct {
		ID bson.ObjectID `bson:"_id"`
	}
	err := coll.FindOneAndUpdate(ctx,
		bson.M{"name": name},
		bson.M{"$setOnInsert": doc},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&out)
	if err != nil {
		return bson.ObjectID{}, err
	}
	return out.ID, nil
}

func upsertUser(ctx context.Context, db *mongo.Database, email, password string, roleID bson.ObjectID) error {
	hash, err := security.HashPassword(password)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = db.Collection("users").UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$setOnInsert": bson.M{
			"email":      email,
			"password":   hash,
			"isVerified": true,
			"roles":      []bson.ObjectID{roleID},
			"createdAt":  now,
			"updatedAt":  now,
		}},
		options.UpdateOne().SetUpsert(true),
	)
	return err
}
