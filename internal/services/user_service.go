package services

import (
	"context"
	"database/sql"
	"strings"

	"murmur/internal/domain/user"
	"murmur/internal/repository"
)

type UserService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) List(ctx context.Context) ([]user.User, error) {
	return s.repo.GetAllUsers(ctx)
}

func (s *UserService) GetByID(ctx context.Context, id int64) (user.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// Create stores a new user. Email is required; an empty name is stored as NULL.
func (s *UserService) Create(ctx context.Context, email, name string) (user.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return user.User{}, invalidInput("email required")
	}

	name = strings.TrimSpace(name)
	u := user.User{
		Email: email,
		Name:  sql.NullString{String: name, Valid: name != ""},
	}
	if err := s.repo.Create(ctx, &u); err != nil {
		return user.User{}, err
	}
	return u, nil
}
