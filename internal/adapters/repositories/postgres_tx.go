package repositories

import (
	"context"
	"database/sql"
	"errors"
	"tour-guide-service/internal/platform/logging"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// rollback is deferred after BeginTx. After a successful Commit it is a no-op;
// otherwise a failing rollback is logged and never replaces the original error.
func rollback(ctx context.Context, tx *sql.Tx, op string) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		logging.Ctx(ctx).Error().Err(err).Str("op", op).Msg("transaction rollback failed")
	}
}

// pgCode returns the SQLSTATE of a Postgres error, or "" for other errors.
func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
