package http

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"genesis-api/internal/domain"
	"genesis-api/internal/repository"
)

type mockUserRepo struct {
	mu           sync.Mutex
	usersByID    map[string]domain.User
	usersByEmail map[string]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:    make(map[string]domain.User),
		usersByEmail: make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.usersByEmail[user.Email]; exists {
		return repository.ErrDuplicate
	}
	m.usersByID[user.ID] = user
	m.usersByEmail[user.Email] = user.ID
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, repository.ErrNotFound
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	m.mu.Lock()
	id, ok := m.usersByEmail[email]
	m.mu.Unlock()
	if !ok {
		return domain.User{}, repository.ErrNotFound
	}
	return m.GetByID(ctx, id)
}

func (m *mockUserRepo) UpdateMFACode(_ context.Context, id, codeHash string, expiresAt time.Time) error {
	return m.update(id, func(u *domain.User) {
		u.MFACode = codeHash
		u.MFACodeExpires = &expiresAt
	})
}

func (m *mockUserRepo) ConsumeMFACode(_ context.Context, id, codeHash string, now time.Time) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.usersByID[id]
	if !ok || user.MFACode != codeHash || !user.HasPendingMFA(now) {
		return domain.User{}, repository.ErrNotFound
	}
	user.MFACode = ""
	user.MFACodeExpires = nil
	user.IsVerified = true
	m.usersByID[id] = user
	return user, nil
}

func (m *mockUserRepo) RecordAccessToken(_ context.Context, id, token string, expiresAt time.Time) error {
	return m.update(id, func(u *domain.User) {
		u.AccessToken = token
		u.AccessTokenExpires = &expiresAt
		u.IsTokenRevoked = false
	})
}

func (m *mockUserRepo) RevokeAccessToken(_ context.Context, id string) error {
	return m.update(id, func(u *domain.User) {
		u.IsTokenRevoked = true
		u.AccessToken = ""
		u.AccessTokenExpires = nil
	})
}

func (m *mockUserRepo) SetRole(_ context.Context, id string, role domain.Role) error {
	return m.update(id, func(u *domain.User) { u.Role = role })
}

func (m *mockUserRepo) update(id string, fn func(u *domain.User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.usersByID[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(&user)
	m.usersByID[id] = user
	return nil
}

type mockEmailSender struct {
	mu       sync.Mutex
	lastTo   string
	lastCode string
}

func (m *mockEmailSender) SendMFACode(_ context.Context, toEmail string, code string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastTo = toEmail
	m.lastCode = code
	return nil
}

func (m *mockEmailSender) code() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastCode
}

type mockCustomerRepo struct {
	items map[string]domain.Customer
}

func (m *mockCustomerRepo) Create(_ context.Context, c domain.Customer) error {
	m.items[c.ID] = c
	return nil
}

func (m *mockCustomerRepo) List(_ context.Context) ([]domain.Customer, error) {
	out := make([]domain.Customer, 0, len(m.items))
	for _, c := range m.items {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockCustomerRepo) GetByID(_ context.Context, id string) (domain.Customer, error) {
	c, ok := m.items[id]
	if !ok {
		return domain.Customer{}, repository.ErrNotFound
	}
	return c, nil
}

func (m *mockCustomerRepo) Update(_ context.Context, id string, p domain.CustomerPatch, updatedAt time.Time) (domain.Customer, error) {
	c, ok := m.items[id]
	if !ok {
		return domain.Customer{}, repository.ErrNotFound
	}
	if p.CompanyName != nil {
		c.CompanyName = *p.CompanyName
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	c.UpdatedAt = updatedAt
	m.items[id] = c
	return c, nil
}

func (m *mockCustomerRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

type mockPostRepo struct {
	items map[string]domain.Post
}

func (m *mockPostRepo) Create(_ context.Context, p domain.Post) error {
	m.items[p.ID] = p
	return nil
}

func (m *mockPostRepo) List(_ context.Context) ([]domain.Post, error) {
	out := make([]domain.Post, 0, len(m.items))
	for _, p := range m.items {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockPostRepo) GetByID(_ context.Context, id string) (domain.Post, error) {
	p, ok := m.items[id]
	if !ok {
		return domain.Post{}, repository.ErrNotFound
	}
	return p, nil
}

func (m *mockPostRepo) Update(_ context.Context, id string, patch domain.PostPatch, updatedAt time.Time) (domain.Post, error) {
	p, ok := m.items[id]
	if !ok {
		return domain.Post{}, repository.ErrNotFound
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Tags != nil {
		p.Tags = *patch.Tags
	}
	p.UpdatedAt = updatedAt
	m.items[id] = p
	return p, nil
}

func (m *mockPostRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

type mockConfigRepo struct {
	doc *domain.ProjectConfig
}

func (m *mockConfigRepo) EnsureDefault(_ context.Context, def domain.ProjectConfig) (bool, error) {
	if m.doc != nil {
		return false, nil
	}
	m.doc = &def
	return true, nil
}

func (m *mockConfigRepo) Get(_ context.Context) (domain.ProjectConfig, error) {
	if m.doc == nil {
		return domain.ProjectConfig{}, repository.ErrNotFound
	}
	return *m.doc, nil
}

func (m *mockConfigRepo) UpdateField(_ context.Context, key string, value json.RawMessage, updatedAt time.Time) (domain.ProjectConfig, error) {
	if m.doc == nil {
		return domain.ProjectConfig{}, repository.ErrNotFound
	}
	raw, err := json.Marshal(m.doc)
	if err != nil {
		return domain.ProjectConfig{}, err
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.ProjectConfig{}, err
	}
	doc[key] = value
	if raw, err = json.Marshal(doc); err != nil {
		return domain.ProjectConfig{}, err
	}
	var updated domain.ProjectConfig
	if err := json.Unmarshal(raw, &updated); err != nil {
		return domain.ProjectConfig{}, err
	}
	updated.UpdatedAt = updatedAt
	m.doc = &updated
	return updated, nil
}

type mockPinger struct {
	err error
}

func (m mockPinger) Ping(_ context.Context) error {
	return m.err
}

type mockLimiter struct {
	allow bool
}

func (m *mockLimiter) Allow(_ string) bool {
	return m.allow
}

var errStoreDown = errors.New("store down")
