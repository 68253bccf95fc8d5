package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// SeedConfig holds configuration for seeding the database
type SeedConfig struct {
	UserCount    int
	PostsPerUser int
	EmailDomain  string
}

// DefaultSeedConfig returns default seed configuration
func DefaultSeedConfig() *SeedConfig {
	return &SeedConfig{
		UserCount:    3,
		PostsPerUser: 2,
		EmailDomain:  "murmur.dev",
	}
}

// SeedResult holds the result of the seeding operation
type SeedResult struct {
	Users int
	Posts int
}

// SeedDevelopment inserts sample users and posts. Re-running it is safe:
// existing users are kept and get no additional posts.
func SeedDevelopment(ctx context.Context, pool *pgxpool.Pool, cfg *SeedConfig) (*SeedResult, error) {
	if cfg == nil {
		cfg = DefaultSeedConfig()
	}

	result := &SeedResult{}
	log().Info("starting database seeding", zap.Int("users", cfg.UserCount))

	err := WithTx(ctx, pool, func(tx pgx.Tx) error {
		for i := 1; i <= cfg.UserCount; i++ {
			email := fmt.Sprintf("user%d@%s", i, cfg.EmailDomain)
			name := fmt.Sprintf("Test User %d", i)

			var id int64
			err := tx.QueryRow(ctx, `
				INSERT INTO users (email, name) VALUES ($1, $2)
				ON CONFLICT (email) DO NOTHING
				RETURNING id`, email, name).Scan(&id)
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to seed user %s: %w", email, err)
			}
			result.Users++

			for j := 1; j <= cfg.PostsPerUser; j++ {
				_, err := tx.Exec(ctx, `
					INSERT INTO posts (title, content, published, author_id)
					VALUES ($1, $2, $3, $4)`,
					fmt.Sprintf("%s post %d", name, j),
					"Seeded content",
					j%2 == 1,
					id,
				)
				if err != nil {
					return fmt.Errorf("failed to seed post for %s: %w", email, err)
				}
				result.Posts++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log().Info("database seeding completed", zap.Int("users", result.Users), zap.Int("posts", result.Posts))
	return result, nil
}

// TruncateAll empties every application table and resets identities.
func TruncateAll(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, "TRUNCATE TABLE "+strings.Join(reversed(Tables), ", ")+" RESTART IDENTITY CASCADE")
	if err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	return nil
}

func reversed(in []string) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}
