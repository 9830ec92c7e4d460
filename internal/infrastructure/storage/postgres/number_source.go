package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// NumberSource adapts the transaction manager to the numerator's
// querier, so number generation joins the caller's transaction when one
// is carried by the context.
type NumberSource struct {
	txm *TxManager
}

// NewNumberSource creates a transaction-aware numerator querier.
func NewNumberSource(txm *TxManager) *NumberSource {
	return &NumberSource{txm: txm}
}

func (s *NumberSource) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return s.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...)
}
