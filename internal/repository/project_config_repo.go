package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"genesis-api/internal/domain"
)

// ProjectConfigRepository guarda el documento singleton de configuración.
type ProjectConfigRepository interface {
	// EnsureDefault inserta def solo si no existe documento; devuelve true si lo creó.
	EnsureDefault(ctx context.Context, def domain.ProjectConfig) (bool, error)
	Get(ctx context.Context) (domain.ProjectConfig, error)
	// UpdateField reemplaza una clave de primer nivel con el valor JSON dado.
	UpdateField(ctx context.Context, key string, value json.RawMessage, updatedAt time.Time) (domain.ProjectConfig, error)
}

type PgProjectConfigRepository struct {
	pool PgxPool
}

func NewPgProjectConfigRepository(pool PgxPool) *PgProjectConfigRepository {
	return &PgProjectConfigRepository{pool: pool}
}

func (r *PgProjectConfigRepository) EnsureDefault(ctx context.Context, def domain.ProjectConfig) (bool, error) {
	const query = `
		INSERT INTO project_config (id, document, created_at, updated_at)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`
	doc, err := marshalConfigDocument(def)
	if err != nil {
		return false, err
	}
	tag, err := r.pool.Exec(ctx, query, doc, def.CreatedAt, def.UpdatedAt)
	if err != nil {
		return false, pgError(err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PgProjectConfigRepository) Get(ctx context.Context) (domain.ProjectConfig, error) {
	const query = `SELECT document, created_at, updated_at FROM project_config WHERE id = 1`
	return scanProjectConfig(r.pool.QueryRow(ctx, query))
}

func (r *PgProjectConfigRepository) UpdateField(ctx context.Context, key string, value json.RawMessage, updatedAt time.Time) (domain.ProjectConfig, error) {
	const query = `
		UPDATE project_config
		SET document = jsonb_set(document, ARRAY[$1::text], $2::jsonb, true), updated_at = $3
		WHERE id = 1
		RETURNING document, created_at, updated_at
	`
	return scanProjectConfig(r.pool.QueryRow(ctx, query, key, string(value), updatedAt))
}

// marshalConfigDocument serializa el documento sin los timestamps, que viven en columnas propias.
func marshalConfigDocument(cfg domain.ProjectConfig) (string, error) {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshal project config: %w", err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("marshal project config: %w", err)
	}
	delete(doc, "createdAt")
	delete(doc, "updatedAt")
	out, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal project config: %w", err)
	}
	return string(out), nil
}

func scanProjectConfig(row rowScanner) (domain.ProjectConfig, error) {
	var (
		doc       []byte
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&doc, &createdAt, &updatedAt); err != nil {
		return domain.ProjectConfig{}, pgError(err)
	}
	var cfg domain.ProjectConfig
	if err := json.Unmarshal(doc, &cfg); err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("decode project config: %w", err)
	}
	cfg.CreatedAt = createdAt
	cfg.UpdatedAt = updatedAt
	return cfg, nil
}
