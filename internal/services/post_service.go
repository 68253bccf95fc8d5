package services

import (
	"context"
	"database/sql"
	"strings"

	"murmur/internal/domain/post"
	"murmur/internal/repository"
)

type PostService struct {
	repo repository.PostRepository
}

func NewPostService(repo repository.PostRepository) *PostService {
	return &PostService{repo: repo}
}

type CreatePostInput struct {
	Title     string
	Content   string
	Published bool
	AuthorID  int64
}

func (s *PostService) List(ctx context.Context) ([]post.Post, error) {
	return s.repo.GetAllPosts(ctx)
}

func (s *PostService) GetByID(ctx context.Context, id int64) (post.Post, error) {
	return s.repo.GetPostByID(ctx, id)
}

func (s *PostService) Create(ctx context.Context, input CreatePostInput) (post.Post, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || input.AuthorID <= 0 {
		return post.Post{}, invalidInput("title and authorId required")
	}

	p := post.Post{
		Title:     title,
		Content:   sql.NullString{String: input.Content, Valid: input.Content != ""},
		Published: input.Published,
		AuthorID:  input.AuthorID,
	}
	if err := s.repo.Create(ctx, &p); err != nil {
		return post.Post{}, err
	}
	return p, nil
}
