package user

import (
	"database/sql"
	"time"
)

// User represents the users table
type User struct {
	ID        int64
	Email     string
	Name      sql.NullString
	CreatedAt time.Time
}

func (User) TableName() string {
	return "users"
}
