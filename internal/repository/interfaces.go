package repository

import (
	"context"

	"murmur/internal/domain/post"
	"murmur/internal/domain/user"
)

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetAllUsers(ctx context.Context) ([]user.User, error)
	GetUserByID(ctx context.Context, id int64) (user.User, error)
}

type PostRepository interface {
	Create(ctx context.Context, p *post.Post) error
	GetAllPosts(ctx context.Context) ([]post.Post, error)
	GetPostByID(ctx context.Context, id int64) (post.Post, error)
}
