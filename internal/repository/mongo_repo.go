package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection         = "users"
	customersCollection     = "customers"
	postsCollection         = "posts"
	projectConfigCollection = "projectconfigs"
)

// EnsureMongoIndexes crea los índices que la capa de servicio asume (email único).
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_email_unique"),
	})
	if err != nil {
		return fmt.Errorf("create users email index: %w", err)
	}
	return nil
}

func mongoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func afterUpdate() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

// setIf agrega key al $set solo cuando el puntero no es nil.
func setIf[T any](set bson.D, key string, v *T) bson.D {
	if v == nil {
		return set
	}
	return append(set, bson.E{Key: key, Value: *v})
}
