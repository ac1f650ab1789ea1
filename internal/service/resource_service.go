package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"genesis-api/internal/apperr"
	"genesis-api/internal/domain"
	"genesis-api/internal/repository"
)

// CustomerService implementa el CRUD de clientes.
type CustomerService struct {
	logger *zap.Logger
	repo   repository.CustomerRepository
	now    func() time.Time
}

func NewCustomerService(logger *zap.Logger, repo repository.CustomerRepository) *CustomerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerService{logger: logger, repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func customerNotFound(id string) error {
	return apperr.NotFound("Customer with ID %q not found", id)
}

func validCustomerStatus(s domain.CustomerStatus) bool {
	switch s {
	case domain.CustomerInProgress, domain.CustomerCompleted, domain.CustomerOnHold, domain.CustomerCancelled:
		return true
	}
	return false
}

// Create asigna id, timestamps y el estado por defecto.
func (s *CustomerService) Create(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	if c.Status == "" {
		c.Status = domain.CustomerInProgress
	}
	if !validCustomerStatus(c.Status) {
		return domain.Customer{}, apperr.Validation("status must be one of the following values: in-progress, completed, on-hold, cancelled")
	}
	now := s.now()
	c.ID = uuid.NewString()
	c.CreatedAt = now
	c.UpdatedAt = now

	if err := s.repo.Create(ctx, c); err != nil {
		return domain.Customer{}, fmt.Errorf("create customer: %w", err)
	}
	s.logger.Info("customer created", zap.String("customer_id", c.ID))
	return c, nil
}

func (s *CustomerService) List(ctx context.Context) ([]domain.Customer, error) {
	customers, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

func (s *CustomerService) Get(ctx context.Context, id string) (domain.Customer, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Customer{}, customerNotFound(id)
		}
		return domain.Customer{}, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

func (s *CustomerService) Update(ctx context.Context, id string, patch domain.CustomerPatch) (domain.Customer, error) {
	if patch.Status != nil && !validCustomerStatus(*patch.Status) {
		return domain.Customer{}, apperr.Validation("status must be one of the following values: in-progress, completed, on-hold, cancelled")
	}
	c, err := s.repo.Update(ctx, id, patch, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Customer{}, customerNotFound(id)
		}
		return domain.Customer{}, fmt.Errorf("update customer: %w", err)
	}
	return c, nil
}

func (s *CustomerService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return customerNotFound(id)
		}
		return fmt.Errorf("delete customer: %w", err)
	}
	s.logger.Info("customer deleted", zap.String("customer_id", id))
	return nil
}

// PostService implementa el CRUD de publicaciones.
type PostService struct {
	logger *zap.Logger
	repo   repository.PostRepository
	now    func() time.Time
}

func NewPostService(logger *zap.Logger, repo repository.PostRepository) *PostService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostService{logger: logger, repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

type CreatePostInput struct {
	Title       string
	Content     string
	IsPublished *bool
	Tags        []string
}

func postNotFound(id string) error {
	return apperr.NotFound("Post with ID %q not found", id)
}

// Create publica por defecto y deja tags vacio si no vienen.
func (s *PostService) Create(ctx context.Context, input CreatePostInput) (domain.Post, error) {
	published := true
	if input.IsPublished != nil {
		published = *input.IsPublished
	}
	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}
	now := s.now()
	p := domain.Post{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Content:     input.Content,
		IsPublished: published,
		Tags:        tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return domain.Post{}, fmt.Errorf("create post: %w", err)
	}
	return p, nil
}

func (s *PostService) List(ctx context.Context) ([]domain.Post, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (s *PostService) Get(ctx context.Context, id string) (domain.Post, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Post{}, postNotFound(id)
		}
		return domain.Post{}, fmt.Errorf("get post: %w", err)
	}
	return p, nil
}

func (s *PostService) Update(ctx context.Context, id string, patch domain.PostPatch) (domain.Post, error) {
	p, err := s.repo.Update(ctx, id, patch, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Post{}, postNotFound(id)
		}
		return domain.Post{}, fmt.Errorf("update post: %w", err)
	}
	return p, nil
}

func (s *PostService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return postNotFound(id)
		}
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}
