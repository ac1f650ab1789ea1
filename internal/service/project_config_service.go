package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"

	"go.uber.org/zap"

	"genesis-api/internal/apperr"
	"genesis-api/internal/domain"
	"genesis-api/internal/repository"
)

const msgConfigNotFound = "Project configuration not found"

// ProjectConfigService administra el documento singleton de configuracion.
type ProjectConfigService struct {
	logger      *zap.Logger
	repo        repository.ProjectConfigRepository
	mockAPIMode bool
	now         func() time.Time
}

// NewProjectConfigService recibe mockAPIMode = entorno distinto de produccion.
func NewProjectConfigService(logger *zap.Logger, repo repository.ProjectConfigRepository, mockAPIMode bool) *ProjectConfigService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectConfigService{
		logger:      logger,
		repo:        repo,
		mockAPIMode: mockAPIMode,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// EnsureDefault siembra el documento si no existe; llamarlo varias veces es seguro.
func (s *ProjectConfigService) EnsureDefault(ctx context.Context) error {
	def := domain.DefaultProjectConfig(s.mockAPIMode)
	now := s.now()
	def.CreatedAt = now
	def.UpdatedAt = now

	created, err := s.repo.EnsureDefault(ctx, def)
	if err != nil {
		return fmt.Errorf("ensure default project config: %w", err)
	}
	if created {
		s.logger.Info("default project config created")
	}
	return nil
}

func (s *ProjectConfigService) Get(ctx context.Context) (domain.ProjectConfig, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ProjectConfig{}, apperr.NotFound(msgConfigNotFound)
		}
		return domain.ProjectConfig{}, fmt.Errorf("get project config: %w", err)
	}
	return cfg, nil
}

// Update reemplaza una sola clave. El valor debe decodificar en el tipo del campo.
func (s *ProjectConfigService) Update(ctx context.Context, key string, value json.RawMessage) (domain.ProjectConfig, error) {
	canonical, err := validateConfigValue(key, value)
	if err != nil {
		return domain.ProjectConfig{}, err
	}

	cfg, err := s.repo.UpdateField(ctx, key, canonical, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ProjectConfig{}, apperr.NotFound(msgConfigNotFound)
		}
		return domain.ProjectConfig{}, fmt.Errorf("update project config: %w", err)
	}
	s.logger.Info("project config updated", zap.String("key", key))
	return cfg, nil
}

func validateConfigValue(key string, value json.RawMessage) (json.RawMessage, error) {
	field, ok := domain.LookupProjectConfigField(key)
	if !ok {
		return nil, apperr.Validation(fmt.Sprintf("Invalid configuration key: %s", key))
	}
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 {
		return nil, apperr.Validation("value should not be empty")
	}
	if bytes.Equal(trimmed, []byte("null")) {
		if !field.Nullable {
			return nil, apperr.Validation(fmt.Sprintf("%s must not be null", key))
		}
		return json.RawMessage("null"), nil
	}

	target := reflect.New(field.Type)
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target.Interface()); err != nil {
		return nil, apperr.Validation(fmt.Sprintf("%s must be a valid %s", key, describeType(field.Type)))
	}
	if dec.More() {
		return nil, apperr.Validation(fmt.Sprintf("%s must be a single JSON value", key))
	}

	canonical, err := json.Marshal(target.Elem().Interface())
	if err != nil {
		return nil, fmt.Errorf("encode config value: %w", err)
	}
	return canonical, nil
}

func describeType(t reflect.Type) string {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice:
		if t.Elem().Kind() == reflect.String {
			return "array of strings"
		}
		return "array of objects"
	default:
		return t.String()
	}
}
