package repository

import (
	"context"
	"fmt"

	"murmur/internal/domain/post"
	murmur_errors "murmur/pkg/errors"

	"github.com/jackc/pgx/v5"
)

// postColumns must match the Scan order in scanPost.
const postColumns = `id, title, content, published, author_id, created_at`

type PostgresPostRepository struct {
	db DBTX
}

func NewPostRepository(db DBTX) PostRepository {
	return &PostgresPostRepository{db: db}
}

func (r *PostgresPostRepository) Create(ctx context.Context, p *post.Post) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO posts (title, content, published, author_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+postColumns,
		p.Title, p.Content, p.Published, p.AuthorID,
	).Scan(&p.ID, &p.Title, &p.Content, &p.Published, &p.AuthorID, &p.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("author %d does not exist: %w", p.AuthorID, murmur_errors.ErrInvalidInput)
		}
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (r *PostgresPostRepository) GetAllPosts(ctx context.Context) ([]post.Post, error) {
	rows, err := r.db.Query(ctx, `SELECT `+postColumns+` FROM posts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	posts, err := pgx.CollectRows(rows, scanPost)
	if err != nil {
		return nil, fmt.Errorf("failed to scan posts: %w", err)
	}
	return posts, nil
}

func (r *PostgresPostRepository) GetPostByID(ctx context.Context, id int64) (post.Post, error) {
	rows, err := r.db.Query(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	if err != nil {
		return post.Post{}, fmt.Errorf("failed to get post: %w", err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanPost)
	if err != nil {
		if isNoRows(err) {
			return post.Post{}, murmur_errors.ErrNotFound
		}
		return post.Post{}, fmt.Errorf("failed to scan post: %w", err)
	}
	return p, nil
}

func scanPost(row pgx.CollectableRow) (post.Post, error) {
	var p post.Post
	err := row.Scan(&p.ID, &p.Title, &p.Content, &p.Published, &p.AuthorID, &p.CreatedAt)
	return p, err
}
