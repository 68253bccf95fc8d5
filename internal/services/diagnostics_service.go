package services

import (
	"context"
	"fmt"
	"time"

	murmur_errors "murmur/pkg/errors"

	"github.com/jackc/pgx/v5"
)

// RowQuerier is satisfied by *pgxpool.Pool.
type RowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ConnectionCounter reports the number of live relay connections.
type ConnectionCounter interface {
	Count() int
}

type DiagnosticsService struct {
	db    RowQuerier
	relay ConnectionCounter
}

func NewDiagnosticsService(db RowQuerier, relay ConnectionCounter) *DiagnosticsService {
	return &DiagnosticsService{db: db, relay: relay}
}

// DatabaseTime asks the database for its current time.
func (s *DiagnosticsService) DatabaseTime(ctx context.Context) (time.Time, error) {
	if s.db == nil {
		return time.Time{}, murmur_errors.ErrServiceUnavailable
	}
	var now time.Time
	if err := s.db.QueryRow(ctx, "SELECT NOW()").Scan(&now); err != nil {
		return time.Time{}, fmt.Errorf("database time query failed: %w", err)
	}
	return now, nil
}

func (s *DiagnosticsService) Connections() int {
	if s.relay == nil {
		return 0
	}
	return s.relay.Count()
}
