package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// errNoRowsAffected marks an update or delete whose target row vanished
// between load and commit.
var errNoRowsAffected = errors.New("no rows affected")

// isConstraintViolation reports whether err comes from a storage
// integrity constraint (SQLSTATE class 23) or a lost row.
func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, errNoRowsAffected) ||
		errors.Is(err, gorm.ErrDuplicatedKey) ||
		errors.Is(err, gorm.ErrForeignKeyViolated) ||
		errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "23")
	}

	// sqlite reports NOT NULL and CHECK failures only through the message
	return strings.Contains(strings.ToLower(err.Error()), "constraint failed")
}
