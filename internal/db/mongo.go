package db

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"genesis-api/internal/config"
)

// NewMongoClient conecta al cluster y espera un ping primario antes de devolver el cliente.
func NewMongoClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetMaxPoolSize(cfg.MongoPoolSize).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	attempt := 0
	err = retry.Do(ctx, connectBackoff(cfg.ConnectAttempts), func(ctx context.Context) error {
		attempt++
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			logger.Warn("mongo not ready", zap.Int("attempt", attempt), zap.Error(err))
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}
