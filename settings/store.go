// Package settings is the persistent configuration store. The browser tool
// kept API keys, model selection and defaults in local storage; here the same
// state lives in a Mongo collection behind an explicit get/set/delete/list
// interface, injected into callers instead of read as ambient globals.
package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storyboard_automation/models"
)

// Well-known keys.
const (
	KeyAIProvider       = "ai_provider"
	KeyDefaultVoice     = "default_voice"
	KeySegmentationMode = "segmentation_mode"
	KeyMaxScenes        = "max_scenes"
)

// ErrNotFound is returned by Get for a missing key.
var ErrNotFound = errors.New("setting not found")

// Store reads and writes settings in the "settings" collection.
type Store struct {
	col *mongo.Collection
}

// NewStore creates a settings store on the given database.
func NewStore(db *mongo.Database) *Store {
	return &Store{col: db.Collection("settings")}
}

// EnsureIndexes creates the unique key index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Get returns the value for key, or ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var setting models.Setting
	err := s.col.FindOne(ctx, bson.M{"key": key}).Decode(&setting)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return "", fmt.Errorf("database error: %w", err)
	}
	return setting.Value, nil
}

// GetDefault returns the value for key, falling back to def when the key is
// missing or the lookup fails.
func (s *Store) GetDefault(ctx context.Context, key, def string) string {
	value, err := s.Get(ctx, key)
	if err != nil {
		return def
	}
	return value
}

// Set upserts a key/value pair.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.col.UpdateOne(
		ctx,
		bson.M{"key": key},
		bson.M{"$set": bson.M{"value": value, "updated_at": time.Now()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("saving setting %s: %w", key, err)
	}
	return nil
}

// Delete removes a key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.col.DeleteOne(ctx, bson.M{"key": key}); err != nil {
		return fmt.Errorf("deleting setting %s: %w", key, err)
	}
	return nil
}

// List returns all settings sorted by key.
func (s *Store) List(ctx context.Context) ([]models.Setting, error) {
	cursor, err := s.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "key", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("listing settings: %w", err)
	}
	defer cursor.Close(ctx)

	var all []models.Setting
	if err := cursor.All(ctx, &all); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	return all, nil
}
