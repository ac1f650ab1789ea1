package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"genesis-api/internal/domain"
)

func TestMongoUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create duplicate email", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := NewMongoUserRepository(mt.DB).Create(ctx, domain.User{ID: "u-1", Email: "a@b.com"})
		assert.ErrorIs(mt, err, ErrDuplicate)
	})

	mt.Run("get by email", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "u-1"},
			{Key: "email", Value: "a@b.com"},
			{Key: "password", Value: "$2a$10$hash"},
			{Key: "role", Value: "admin"},
			{Key: "isVerified", Value: true},
		}))

		u, err := NewMongoUserRepository(mt.DB).GetByEmail(ctx, "a@b.com")
		require.NoError(mt, err)
		assert.Equal(mt, "u-1", u.ID)
		assert.Equal(mt, domain.RoleAdmin, u.Role)
		assert.Equal(mt, "$2a$10$hash", u.PasswordHash)
	})

	mt.Run("get by id missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.users", mtest.FirstBatch))

		_, err := NewMongoUserRepository(mt.DB).GetByID(ctx, "missing")
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("consume code without match", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := NewMongoUserRepository(mt.DB).ConsumeMFACode(ctx, "u-1", "salt:hash", time.Now())
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("consume code returns verified user", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: "u-1"},
			{Key: "email", Value: "a@b.com"},
			{Key: "role", Value: "user"},
			{Key: "isVerified", Value: true},
		}}))

		u, err := NewMongoUserRepository(mt.DB).ConsumeMFACode(ctx, "u-1", "salt:hash", time.Now())
		require.NoError(mt, err)
		assert.True(mt, u.IsVerified)
		assert.Empty(mt, u.MFACode)
	})

	mt.Run("set role on unknown user", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := NewMongoUserRepository(mt.DB).SetRole(ctx, "missing", domain.RoleAdmin)
		assert.ErrorIs(mt, err, ErrNotFound)
	})
}

func TestMongoResourceRepositories(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("list customers", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.customers", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "c-1"}, {Key: "companyName", Value: "Acme"}, {Key: "status", Value: "completed"}},
			bson.D{{Key: "_id", Value: "c-2"}, {Key: "companyName", Value: "Globex"}, {Key: "status", Value: "on-hold"}},
		))

		got, err := NewMongoCustomerRepository(mt.DB).List(ctx)
		require.NoError(mt, err)
		require.Len(mt, got, 2)
		assert.Equal(mt, domain.CustomerCompleted, got[0].Status)
		assert.Equal(mt, "Globex", got[1].CompanyName)
	})

	mt.Run("delete missing customer", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := NewMongoCustomerRepository(mt.DB).Delete(ctx, "missing")
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("update missing post", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		title := "New"
		_, err := NewMongoPostRepository(mt.DB).Update(ctx, "missing", domain.PostPatch{Title: &title}, time.Now())
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("update post", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: "p-1"},
			{Key: "title", Value: "New"},
			{Key: "isPublished", Value: true},
			{Key: "tags", Value: bson.A{"go", "api"}},
		}}))

		title := "New"
		got, err := NewMongoPostRepository(mt.DB).Update(ctx, "p-1", domain.PostPatch{Title: &title}, time.Now())
		require.NoError(mt, err)
		assert.Equal(mt, "New", got.Title)
		assert.Equal(mt, []string{"go", "api"}, got.Tags)
	})
}

func TestMongoProjectConfigRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("ensure default upserts", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
			bson.E{Key: "upserted", Value: bson.A{bson.D{{Key: "index", Value: 0}, {Key: "_id", Value: domain.ProjectConfigID}}}},
		))

		created, err := NewMongoProjectConfigRepository(mt.DB).EnsureDefault(ctx, domain.DefaultProjectConfig(true))
		require.NoError(mt, err)
		assert.True(mt, created)
	})

	mt.Run("ensure default keeps existing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 0}))

		created, err := NewMongoProjectConfigRepository(mt.DB).EnsureDefault(ctx, domain.DefaultProjectConfig(true))
		require.NoError(mt, err)
		assert.False(mt, created)
	})

	mt.Run("update field", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: domain.ProjectConfigID},
			{Key: "appName", Value: "Renamed"},
			{Key: "appLogoUrl", Value: nil},
		}}))

		got, err := NewMongoProjectConfigRepository(mt.DB).UpdateField(ctx, "appName", json.RawMessage(`"Renamed"`), time.Now())
		require.NoError(mt, err)
		assert.Equal(mt, "Renamed", got.AppName)
		assert.Nil(mt, got.AppLogoURL)
	})

	mt.Run("update field rejects invalid json", func(mt *mtest.T) {
		_, err := NewMongoProjectConfigRepository(mt.DB).UpdateField(ctx, "appName", json.RawMessage(`{`), time.Now())
		assert.Error(mt, err)
	})
}
