package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"genesis-api/internal/config"
	"genesis-api/internal/db"
	"genesis-api/internal/repository"
)

// Store agrupa los repositorios de un backend y su ciclo de vida.
type Store struct {
	Users         repository.UserRepository
	Customers     repository.CustomerRepository
	Posts         repository.PostRepository
	ProjectConfig repository.ProjectConfigRepository

	ping  func(ctx context.Context) error
	close func()
}

// Ping verifica que el backend siga respondiendo.
func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

func (s *Store) Close() {
	s.close()
}

// Open conecta al backend elegido por STORE_DRIVER y aplica migraciones o índices.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		pool, err := db.NewPool(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := db.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
			logger.Info("postgres migrations applied")
		}
		return NewPostgres(pool), nil
	case config.StoreMongo:
		client, err := db.NewMongoClient(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		database := client.Database(cfg.DBName)
		if err := repository.EnsureMongoIndexes(ctx, database); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return NewMongo(client, database), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func NewPostgres(pool *pgxpool.Pool) *Store {
	return &Store{
		Users:         repository.NewPgUserRepository(pool),
		Customers:     repository.NewPgCustomerRepository(pool),
		Posts:         repository.NewPgPostRepository(pool),
		ProjectConfig: repository.NewPgProjectConfigRepository(pool),
		ping:          func(ctx context.Context) error { return db.Ping(ctx, pool) },
		close:         pool.Close,
	}
}

func NewMongo(client *mongo.Client, database *mongo.Database) *Store {
	return &Store{
		Users:         repository.NewMongoUserRepository(database),
		Customers:     repository.NewMongoCustomerRepository(database),
		Posts:         repository.NewMongoPostRepository(database),
		ProjectConfig: repository.NewMongoProjectConfigRepository(database),
		ping:          func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) },
		close:         func() { _ = client.Disconnect(context.Background()) },
	}
}
