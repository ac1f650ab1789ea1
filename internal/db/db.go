package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"genesis-api/internal/config"
)

// connectBackoff arma el backoff exponencial usado al abrir conexiones en el arranque.
func connectBackoff(attempts uint64) retry.Backoff {
	if attempts == 0 {
		attempts = 1
	}
	b := retry.NewExponential(500 * time.Millisecond)
	b = retry.WithCappedDuration(5*time.Second, b)
	return retry.WithMaxRetries(attempts-1, b)
}

// NewPool construye el pool y espera a que Postgres responda, reintentando con backoff.
func NewPool(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 1
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 30 * time.Second
	poolCfg.ConnConfig.ConnectTimeout = 5 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	attempt := 0
	err = retry.Do(ctx, connectBackoff(cfg.ConnectAttempts), func(ctx context.Context) error {
		attempt++
		if err := pool.Ping(ctx); err != nil {
			logger.Warn("postgres not ready", zap.Int("attempt", attempt), zap.Error(err))
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return pool, nil
}

// Ping verifica conectividad con la base de datos.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	return pool.Ping(ctx)
}
