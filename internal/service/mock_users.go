package service

import (
	"crypto/subtle"

	"genesis-api/internal/domain"
)

// MockMFACode es el codigo fijo que aceptan los perfiles de prueba.
const MockMFACode = "123456"

// MockUser es un perfil fijo que no pasa por el store; solo fuera de produccion.
type MockUser struct {
	domain.User
	Password string
}

func (m MockUser) passwordMatches(password string) bool {
	return subtle.ConstantTimeCompare([]byte(m.Password), []byte(password)) == 1
}

func defaultMockUsers() []MockUser {
	return []MockUser{
		{
			User: domain.User{
				ID:          "dummy-admin-001",
				Email:       "admin@dummy.com",
				DisplayName: "Dummy Admin",
				Role:        domain.RoleAdmin,
				PhotoURL:    "https://picsum.photos/seed/admin001/40/40",
				IsVerified:  true,
			},
			Password: "password123",
		},
		{
			User: domain.User{
				ID:          "dummy-user-002",
				Email:       "user@dummy.com",
				DisplayName: "Dummy User",
				Role:        domain.RoleUser,
				PhotoURL:    "https://picsum.photos/seed/user002/40/40",
				IsVerified:  true,
			},
			Password: "password123",
		},
	}
}

type mockDirectory struct {
	byEmail map[string]MockUser
	byID    map[string]MockUser
}

func newMockDirectory(users []MockUser) *mockDirectory {
	d := &mockDirectory{
		byEmail: make(map[string]MockUser, len(users)),
		byID:    make(map[string]MockUser, len(users)),
	}
	for _, u := range users {
		d.byEmail[normalizeEmail(u.Email)] = u
		d.byID[u.ID] = u
	}
	return d
}

func (d *mockDirectory) byEmailAddr(email string) (MockUser, bool) {
	if d == nil {
		return MockUser{}, false
	}
	u, ok := d.byEmail[email]
	return u, ok
}

func (d *mockDirectory) byUserID(id string) (MockUser, bool) {
	if d == nil {
		return MockUser{}, false
	}
	u, ok := d.byID[id]
	return u, ok
}
