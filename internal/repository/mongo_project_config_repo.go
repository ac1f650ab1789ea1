package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"genesis-api/internal/domain"
)

type MongoProjectConfigRepository struct {
	coll *mongo.Collection
}

func NewMongoProjectConfigRepository(db *mongo.Database) *MongoProjectConfigRepository {
	return &MongoProjectConfigRepository{coll: db.Collection(projectConfigCollection)}
}

func (r *MongoProjectConfigRepository) EnsureDefault(ctx context.Context, def domain.ProjectConfig) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": domain.ProjectConfigID},
		bson.M{"$setOnInsert": def},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		// Dos arranques simultáneos pueden chocar en el upsert; el documento ya existe.
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, mongoError(err)
	}
	return res.UpsertedCount == 1, nil
}

func (r *MongoProjectConfigRepository) Get(ctx context.Context) (domain.ProjectConfig, error) {
	var cfg domain.ProjectConfig
	if err := r.coll.FindOne(ctx, bson.M{"_id": domain.ProjectConfigID}).Decode(&cfg); err != nil {
		return domain.ProjectConfig{}, mongoError(err)
	}
	return cfg, nil
}

func (r *MongoProjectConfigRepository) UpdateField(ctx context.Context, key string, value json.RawMessage, updatedAt time.Time) (domain.ProjectConfig, error) {
	var decoded any
	if err := json.Unmarshal(value, &decoded); err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("decode config value: %w", err)
	}
	update := bson.M{"$set": bson.M{key: decoded, "updatedAt": updatedAt}}

	var cfg domain.ProjectConfig
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": domain.ProjectConfigID}, update, afterUpdate()).Decode(&cfg)
	if err != nil {
		return domain.ProjectConfig{}, mongoError(err)
	}
	return cfg, nil
}
