package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"genesis-api/internal/domain"
)

// MongoUserRepository implementa UserRepository sobre la colección users.
type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(usersCollection)}
}

func (r *MongoUserRepository) Create(ctx context.Context, user domain.User) error {
	_, err := r.coll.InsertOne(ctx, user)
	return mongoError(err)
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (domain.User, error) {
	var u domain.User
	if err := r.coll.FindOne(ctx, filter).Decode(&u); err != nil {
		return domain.User{}, mongoError(err)
	}
	return u, nil
}

func (r *MongoUserRepository) UpdateMFACode(ctx context.Context, id, codeHash string, expiresAt time.Time) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{
		"mfaCode":        codeHash,
		"mfaCodeExpires": expiresAt,
		"updatedAt":      time.Now().UTC(),
	}})
}

func (r *MongoUserRepository) ConsumeMFACode(ctx context.Context, id, codeHash string, now time.Time) (domain.User, error) {
	filter := bson.M{
		"_id":            id,
		"mfaCode":        codeHash,
		"mfaCodeExpires": bson.M{"$gt": now},
	}
	update := bson.M{
		"$set":   bson.M{"isVerified": true, "updatedAt": now},
		"$unset": bson.M{"mfaCode": "", "mfaCodeExpires": ""},
	}
	var u domain.User
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, afterUpdate()).Decode(&u); err != nil {
		return domain.User{}, mongoError(err)
	}
	return u, nil
}

func (r *MongoUserRepository) RecordAccessToken(ctx context.Context, id, token string, expiresAt time.Time) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{
		"accessToken":        token,
		"accessTokenExpires": expiresAt,
		"isTokenRevoked":     false,
		"updatedAt":          time.Now().UTC(),
	}})
}

func (r *MongoUserRepository) RevokeAccessToken(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, bson.M{
		"$set":   bson.M{"isTokenRevoked": true, "updatedAt": time.Now().UTC()},
		"$unset": bson.M{"accessToken": "", "accessTokenExpires": ""},
	})
}

func (r *MongoUserRepository) SetRole(ctx context.Context, id string, role domain.Role) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{"role": string(role), "updatedAt": time.Now().UTC()}})
}

func (r *MongoUserRepository) updateByID(ctx context.Context, id string, update bson.M) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return mongoError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
