package postgres

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/discoteque/discoteque-api/internal/core/domain"
)

var errClosed = errors.New("postgres: unit of work is closed")

// mapError turns integrity constraint violations into PersistenceError and
// leaves every other error untouched.
func mapError(table string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		if pgErr.TableName != "" {
			table = pgErr.TableName
		}
		return &domain.PersistenceError{Table: table, Constraint: pgErr.ConstraintName, Err: err}
	}
	return err
}
