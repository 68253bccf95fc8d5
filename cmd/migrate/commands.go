package main

import (
	"context"
	"fmt"

	"murmur/config"
	"murmur/pkg/database"
	"murmur/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var (
	databaseURL string
	pool        *pgxpool.Pool
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "migrate",
		Short:        "murmur database CLI",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			logger.SetGlobalLogger(logger.New(cfg.AppMode))
			if databaseURL == "" {
				databaseURL = cfg.DatabaseURL
			}

			p, err := database.Connect(cmd.Context(), databaseURL)
			if err != nil {
				return err
			}
			pool = p
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if pool != nil {
				pool.Close()
			}
			if l := logger.GetGlobalLogger(); l != nil {
				l.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&databaseURL, "database-url", "", "postgres URL (default from DATABASE_URL / DB_* env)")
	root.AddCommand(upCmd(), downCmd(), statusCmd(), seedDevCmd(), truncateCmd())
	root.SetContext(context.Background())
	return root
}

func upCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := database.RunMigrations(cmd.Context(), pool); err != nil {
				return err
			}
			cmd.Println("migrations applied")
			return nil
		},
	}
}

func downCmd() *cobra.Command {
	var target int32
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll migrations back to a version (default: drop everything)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := database.RollbackMigrations(cmd.Context(), pool, target); err != nil {
				return err
			}
			cmd.Printf("rolled back to version %d\n", target)
			return nil
		},
	}
	cmd.Flags().Int32Var(&target, "to", 0, "target schema version")
	return cmd
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show connection and schema status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := database.HealthCheck(ctx, pool); err != nil {
				return fmt.Errorf("database connection failed: %w", err)
			}
			cmd.Println("database connection: OK")

			status, err := database.Status(ctx, pool)
			if err != nil {
				return err
			}
			cmd.Printf("schema version: %d/%d (%d pending)\n", status.Current, status.Latest, status.Pending())

			for _, table := range database.Tables {
				exists, err := database.TableExists(ctx, pool, table)
				if err != nil {
					cmd.Printf("  %-8s error: %v\n", table, err)
					continue
				}
				cmd.Printf("  %-8s exists=%t\n", table, exists)
			}
			return nil
		},
	}
}

func seedDevCmd() *cobra.Command {
	seedCfg := database.DefaultSeedConfig()
	cmd := &cobra.Command{
		Use:   "seed-dev",
		Short: "Seed sample users and posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := database.SeedDevelopment(cmd.Context(), pool, seedCfg)
			if err != nil {
				return err
			}
			cmd.Printf("seeded %d users, %d posts\n", result.Users, result.Posts)
			return nil
		},
	}
	cmd.Flags().IntVar(&seedCfg.UserCount, "users", seedCfg.UserCount, "number of users")
	cmd.Flags().IntVar(&seedCfg.PostsPerUser, "posts", seedCfg.PostsPerUser, "posts per new user")
	cmd.Flags().StringVar(&seedCfg.EmailDomain, "domain", seedCfg.EmailDomain, "email domain for seeded users")
	return cmd
}

func truncateCmd() *cobra.Command {
	var confirm bool
	cmd := &cobra.Command{
		Use:   "truncate",
		Short: "Delete all rows from every table (DANGEROUS)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return fmt.Errorf("refusing to truncate without --yes")
			}
			if err := database.TruncateAll(cmd.Context(), pool); err != nil {
				return err
			}
			cmd.Println("all tables truncated")
			return nil
		},
	}
	cmd.Flags().BoolVar(&confirm, "yes", false, "confirm truncation")
	return cmd
}
