package services

import (
	"context"
	"fmt"

	"murmur/internal/domain/post"
	"murmur/internal/domain/user"
	murmur_errors "murmur/pkg/errors"
)

type fakeUserRepo struct {
	users  []user.User
	nextID int64
}

func (r *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return fmt.Errorf("user with email %q: %w", u.Email, murmur_errors.ErrAlreadyExists)
		}
	}
	r.nextID++
	u.ID = r.nextID
	r.users = append(r.users, *u)
	return nil
}

func (r *fakeUserRepo) GetAllUsers(context.Context) ([]user.User, error) {
	return r.users, nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id int64) (user.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, murmur_errors.ErrNotFound
}

type fakePostRepo struct {
	posts   []post.Post
	authors map[int64]bool
	nextID  int64
}

func (r *fakePostRepo) Create(_ context.Context, p *post.Post) error {
	if !r.authors[p.AuthorID] {
		return fmt.Errorf("author %d does not exist: %w", p.AuthorID, murmur_errors.ErrInvalidInput)
	}
	r.nextID++
	p.ID = r.nextID
	r.posts = append(r.posts, *p)
	return nil
}

func (r *fakePostRepo) GetAllPosts(context.Context) ([]post.Post, error) {
	return r.posts, nil
}

func (r *fakePostRepo) GetPostByID(_ context.Context, id int64) (post.Post, error) {
	for _, p := range r.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return post.Post{}, murmur_errors.ErrNotFound
}
