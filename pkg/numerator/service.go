package numerator

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// Querier is the minimal database surface the numerator needs.
// Satisfied by pgxpool.Pool, pgx.Conn and pgx.Tx, so the caller decides
// whether numbering happens inside its transaction.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Service generates numbers with UPSERT ... RETURNING on a sequence
// table, guaranteeing gap-free sequential numbers per key.
type Service struct {
	querier Querier
}

// NewService creates a database-backed number generator.
func NewService(querier Querier) *Service {
	return &Service{querier: querier}
}

// Next implements Generator.
func (s *Service) Next(ctx context.Context, cfg Config, period time.Time) (string, error) {
	key := cfg.Key(period)

	var num int64
	err := s.querier.QueryRow(ctx, `
		INSERT INTO doc_sequences (key, current_val)
		VALUES ($1, 1)
		ON CONFLICT (key) DO UPDATE SET current_val = doc_sequences.current_val + 1
		RETURNING current_val
	`, key).Scan(&num)
	if err != nil {
		return "", fmt.Errorf("next number for %s: %w", key, err)
	}

	return cfg.Format(period, num), nil
}

var _ Generator = (*Service)(nil)
