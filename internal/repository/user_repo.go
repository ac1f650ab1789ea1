package repository

import (
	"context"
	"time"

	"genesis-api/internal/domain"
)

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	UpdateMFACode(ctx context.Context, id, codeHash string, expiresAt time.Time) error
	// ConsumeMFACode borra el código y marca el usuario verificado solo si
	// codeHash sigue pendiente y no expiró en now. Devuelve ErrNotFound si no.
	ConsumeMFACode(ctx context.Context, id, codeHash string, now time.Time) (domain.User, error)
	RecordAccessToken(ctx context.Context, id, token string, expiresAt time.Time) error
	RevokeAccessToken(ctx context.Context, id string) error
	SetRole(ctx context.Context, id string, role domain.Role) error
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool PgxPool
}

func NewPgUserRepository(pool PgxPool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

const userColumns = `
	id, email, password_hash, role, is_verified, mfa_code, mfa_code_expires,
	access_token, access_token_expires, is_token_revoked,
	display_name, photo_url, phone_number, created_at, updated_at`

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	const query = `
		INSERT INTO users (id, email, password_hash, role, is_verified, mfa_code, mfa_code_expires,
			display_name, photo_url, phone_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		user.IsVerified,
		nullString(user.MFACode),
		user.MFACodeExpires,
		user.DisplayName,
		user.PhotoURL,
		user.PhoneNumber,
		user.CreatedAt,
		user.UpdatedAt,
	)
	return pgError(err)
}

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *PgUserRepository) UpdateMFACode(ctx context.Context, id, codeHash string, expiresAt time.Time) error {
	const query = `
		UPDATE users
		SET mfa_code = $2, mfa_code_expires = $3, updated_at = $4
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, codeHash, expiresAt, time.Now().UTC())
	if err != nil {
		return pgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgUserRepository) ConsumeMFACode(ctx context.Context, id, codeHash string, now time.Time) (domain.User, error) {
	query := `
		UPDATE users
		SET mfa_code = NULL, mfa_code_expires = NULL, is_verified = TRUE, updated_at = $4
		WHERE id = $1 AND mfa_code = $2 AND mfa_code_expires > $3
		RETURNING` + userColumns
	return scanUser(r.pool.QueryRow(ctx, query, id, codeHash, now, now))
}

func (r *PgUserRepository) RecordAccessToken(ctx context.Context, id, token string, expiresAt time.Time) error {
	const query = `
		UPDATE users
		SET access_token = $2, access_token_expires = $3, is_token_revoked = FALSE, updated_at = $4
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, token, expiresAt, time.Now().UTC())
	if err != nil {
		return pgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgUserRepository) RevokeAccessToken(ctx context.Context, id string) error {
	const query = `
		UPDATE users
		SET is_token_revoked = TRUE, access_token = NULL, access_token_expires = NULL, updated_at = $2
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, time.Now().UTC())
	if err != nil {
		return pgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgUserRepository) SetRole(ctx context.Context, id string, role domain.Role) error {
	const query = `UPDATE users SET role = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, string(role), time.Now().UTC())
	if err != nil {
		return pgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u           domain.User
		role        string
		mfaCode     *string
		accessToken *string
	)
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&role,
		&u.IsVerified,
		&mfaCode,
		&u.MFACodeExpires,
		&accessToken,
		&u.AccessTokenExpires,
		&u.IsTokenRevoked,
		&u.DisplayName,
		&u.PhotoURL,
		&u.PhoneNumber,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, pgError(err)
	}
	u.Role = domain.Role(role)
	if mfaCode != nil {
		u.MFACode = *mfaCode
	}
	if accessToken != nil {
		u.AccessToken = *accessToken
	}
	return u, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
