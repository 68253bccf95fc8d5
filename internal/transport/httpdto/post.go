package httpdto

import (
	"time"

	"murmur/internal/domain/post"
)

// CreatePostRequest is used for POST /api/posts
type CreatePostRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content,omitempty"`
	Published bool   `json:"published,omitempty"`
	AuthorID  int64  `json:"authorId"`
}

type PostDTO struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   *string   `json:"content"`
	Published bool      `json:"published"`
	AuthorID  int64     `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
}

func FromPost(p post.Post) PostDTO {
	dto := PostDTO{
		ID:        p.ID,
		Title:     p.Title,
		Published: p.Published,
		AuthorID:  p.AuthorID,
		CreatedAt: p.CreatedAt,
	}
	if p.Content.Valid {
		content := p.Content.String
		dto.Content = &content
	}
	return dto
}

func FromPostSlice(posts []post.Post) []PostDTO {
	out := make([]PostDTO, 0, len(posts))
	for _, p := range posts {
		out = append(out, FromPost(p))
	}
	return out
}
