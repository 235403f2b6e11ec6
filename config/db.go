// config/db.go
package config

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectDB establishes connection to MongoDB
func ConnectDB() *mongo.Client {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = os.Getenv("MONGODB_URI")
	}

	// Only use a local fallback in development
	if mongoURI == "" {
		env := os.Getenv("ENV")
		if env == "development" || env == "dev" {
			mongoURI = "mongodb://localhost:27017"
		} else {
			log.Fatal("MONGO_URI or MONGODB_URI environment variable is required for production")
		}
	}

	log.Printf("Connecting to MongoDB at: %s", maskMongoURI(mongoURI))

	clientOptions := options.Client().ApplyURI(mongoURI)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Fatal("MongoDB connection error:", err)
	}

	err = client.Ping(ctx, nil)
	if err != nil {
		log.Fatal("MongoDB ping error:", err)
	}

	log.Println("Connected to MongoDB")

	setupCollections(client)

	return client
}

// DatabaseName returns the configured database name
func DatabaseName() string {
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "courtia"
	}
	return dbName
}

// setupCollections ensures all necessary collections and indexes exist
func setupCollections(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := client.Database(DatabaseName())

	collections := []string{"users", "organizations", "products", "prospects", "sales", "advisorCommissions"}
	for _, collName := range collections {
		db.CreateCollection(ctx, collName)
	}

	// Email index for users collection
	userColl := db.Collection("users")
	emailIndexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := userColl.Indexes().CreateOne(ctx, emailIndexModel); err != nil {
		log.Printf("Error creating email index: %v", err)
	}

	// Tenant scoping indexes
	for _, collName := range []string{"products", "prospects"} {
		coll := db.Collection(collName)
		orgIndexModel := mongo.IndexModel{
			Keys: bson.D{{Key: "organizationId", Value: 1}},
		}
		if _, err := coll.Indexes().CreateOne(ctx, orgIndexModel); err != nil {
			log.Printf("Error creating organizationId index for %s: %v", collName, err)
		}
	}

	// Reporting indexes on the financial collections
	for _, collName := range []string{"sales", "advisorCommissions"} {
		coll := db.Collection(collName)
		reportIndexModel := mongo.IndexModel{
			Keys: bson.D{{Key: "organizationId", Value: 1}, {Key: "createdAt", Value: 1}},
		}
		if _, err := coll.Indexes().CreateOne(ctx, reportIndexModel); err != nil {
			log.Printf("Error creating reporting index for %s: %v", collName, err)
		}
	}

	// Commission rows are looked up by their sale during audits
	saleIDIndexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "saleId", Value: 1}},
	}
	if _, err := db.Collection("advisorCommissions").Indexes().CreateOne(ctx, saleIDIndexModel); err != nil {
		log.Printf("Error creating saleId index: %v", err)
	}

	// Unique (prospectId, idempotencyKey) makes caller retries of sale
	// recording safe; partial so sales without a key are unconstrained
	idempotencyIndexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "prospectId", Value: 1}, {Key: "idempotencyKey", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"idempotencyKey": bson.M{"$exists": true}}),
	}
	if _, err := db.Collection("sales").Indexes().CreateOne(ctx, idempotencyIndexModel); err != nil {
		log.Printf("Error creating idempotency index: %v", err)
	}

	log.Println("Database collections and indexes setup complete")
}

// maskMongoURI masks the password in MongoDB URI for logging
func maskMongoURI(uri string) string {
	if idx := strings.Index(uri, "@"); idx > 0 {
		if colonIdx := strings.LastIndex(uri[:idx], ":"); colonIdx > 0 {
			return uri[:colonIdx+1] + "***" + uri[idx:]
		}
	}
	return uri
}
