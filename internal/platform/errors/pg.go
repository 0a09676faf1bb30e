package errors

import (
	"context"
	stderrs "errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE classes FromPG distinguishes
const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
	pgCannotConnectNow     = "57P03"
	pgAdminShutdown        = "57P01"
)

// FromPG wraps a postgres failure with a code the API can answer with:
// unique violations are conflicts, lock contention and server restarts are
// unavailable, everything else is a db error. nil stays nil
func FromPG(err error, msg string) error {
	if err == nil {
		return nil
	}
	if stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return Wrap(err, ErrorCodeUnavailable, msg)
	}
	var pgErr *pgconn.PgError
	if !stderrs.As(err, &pgErr) {
		return Wrap(err, ErrorCodeDB, msg)
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return WithField(Wrap(err, ErrorCodeConflict, msg), pgErr.ColumnName)
	case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable, pgCannotConnectNow, pgAdminShutdown:
		return Wrap(err, ErrorCodeUnavailable, msg)
	default:
		return Wrap(err, ErrorCodeDB, msg)
	}
}

// SQLState returns the postgres error code in err's chain, "" when there is none
func SQLState(err error) string {
	var pgErr *pgconn.PgError
	if stderrs.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
