package httpdto

import (
	"time"

	"murmur/internal/domain/user"
)

// CreateUserRequest is used for POST /api/users
type CreateUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type UserDTO struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func FromUser(u user.User) UserDTO {
	dto := UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
	if u.Name.Valid {
		name := u.Name.String
		dto.Name = &name
	}
	return dto
}

func FromUserSlice(users []user.User) []UserDTO {
	out := make([]UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, FromUser(u))
	}
	return out
}
