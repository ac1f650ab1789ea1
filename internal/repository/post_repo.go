package repository

import (
	"context"
	"time"

	"genesis-api/internal/domain"
)

type PostRepository interface {
	Create(ctx context.Context, p domain.Post) error
	List(ctx context.Context) ([]domain.Post, error)
	GetByID(ctx context.Context, id string) (domain.Post, error)
	Update(ctx context.Context, id string, patch domain.PostPatch, updatedAt time.Time) (domain.Post, error)
	Delete(ctx context.Context, id string) error
}

type PgPostRepository struct {
	pool PgxPool
}

func NewPgPostRepository(pool PgxPool) *PgPostRepository {
	return &PgPostRepository{pool: pool}
}

const postColumns = ` id, title, content, is_published, tags, created_at, updated_at`

func (r *PgPostRepository) Create(ctx context.Context, p domain.Post) error {
	const query = `
		INSERT INTO posts (id, title, content, is_published, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	_, err := r.pool.Exec(ctx, query, p.ID, p.Title, p.Content, p.IsPublished, tags, p.CreatedAt, p.UpdatedAt)
	return pgError(err)
}

func (r *PgPostRepository) List(ctx context.Context) ([]domain.Post, error) {
	query := `SELECT` + postColumns + ` FROM posts ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, pgError(err)
	}
	defer rows.Close()

	posts := make([]domain.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, pgError(err)
	}
	return posts, nil
}

func (r *PgPostRepository) GetByID(ctx context.Context, id string) (domain.Post, error) {
	query := `SELECT` + postColumns + ` FROM posts WHERE id = $1`
	return scanPost(r.pool.QueryRow(ctx, query, id))
}

func (r *PgPostRepository) Update(ctx context.Context, id string, p domain.PostPatch, updatedAt time.Time) (domain.Post, error) {
	query := `
		UPDATE posts SET
			title = COALESCE($2, title),
			content = COALESCE($3, content),
			is_published = COALESCE($4, is_published),
			tags = COALESCE($5, tags),
			updated_at = $6
		WHERE id = $1
		RETURNING` + postColumns
	var tags []string
	if p.Tags != nil {
		tags = *p.Tags
		if tags == nil {
			tags = []string{}
		}
	}
	row := r.pool.QueryRow(ctx, query, id, p.Title, p.Content, p.IsPublished, tags, updatedAt)
	return scanPost(row)
}

func (r *PgPostRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return pgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPost(row rowScanner) (domain.Post, error) {
	var p domain.Post
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.IsPublished, &p.Tags, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return domain.Post{}, pgError(err)
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return p, nil
}
