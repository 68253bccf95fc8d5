package post

import (
	"database/sql"
	"time"
)

// Post represents the posts table
type Post struct {
	ID        int64
	Title     string
	Content   sql.NullString
	Published bool
	AuthorID  int64
	CreatedAt time.Time
}

func (Post) TableName() string {
	return "posts"
}
