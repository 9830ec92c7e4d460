package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"stocktally/internal/core/apperror"
)

// PostgreSQL error codes surfaced as typed business errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// mapError translates pgx errors into AppError so storage-level
// constraint violations (duplicate SKU or sale number, restricted
// deletes) reach callers as typed failures.
func mapError(err error, entity string) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperror.NewDuplicate(entity, constraintField(pgErr.ConstraintName), "").
				WithCause(err)
		case pgForeignKeyViolation:
			return apperror.NewConflict(entity + " is referenced by other records").
				WithDetail("constraint", pgErr.ConstraintName).
				WithCause(err)
		}
	}

	return err
}

// constraintField extracts a readable field name from an index name
// like "products_sku_key".
func constraintField(constraint string) string {
	if constraint == "" {
		return "field"
	}
	return constraint
}
