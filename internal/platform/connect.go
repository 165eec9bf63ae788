// Package platform holds the shared service initializers: environment
// loading, MongoDB and Redis connections, and collection indexes.
package platform

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NewMongoDatabase connects to MongoDB and returns the client and database
// handle. Connection failures are fatal: no service can run without storage.
func NewMongoDatabase() (*mongo.Client, *mongo.Database) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(MongoURI()))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}

	db := client.Database(MongoDBName())
	if err := ensureIndexes(db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	log.Println("MongoDB connected successfully")
	return client, db
}

// NewRedisClient initializes and returns a Redis client.
func NewRedisClient() *redis.Client {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: RedisURL(),
	})

	log.Println("Redis client initialized")
	return rdb
}

func ensureIndexes(db *mongo.Database) error {
	ctx := context.Background()

	_, err := db.Collection("storyboard_jobs").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("scenes").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "job_id", Value: 1}, {Key: "scene_number", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "job_id", Value: 1}}},
	})
	return err
}

// Env getters with defaults.

func MongoURI() string {
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		return uri
	}
	return "mongodb://localhost:27017"
}

func MongoDBName() string {
	if db := os.Getenv("MONGODB_DATABASE"); db != "" {
		return db
	}
	return "storyboard_automation"
}

func RedisURL() string {
	if url := os.Getenv("REDIS_URL"); url != "" {
		return url
	}
	return "localhost:6379"
}

func Port(def string) string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return def
}

func AssetsDir() string {
	if dir := os.Getenv("ASSETS_DIR"); dir != "" {
		return dir
	}
	return "./assets"
}

func ExportsDir() string {
	if dir := os.Getenv("EXPORTS_DIR"); dir != "" {
		return dir
	}
	return "./exports"
}

func GeminiAPIKey() string {
	return os.Getenv("GEMINI_API_KEY")
}

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}
