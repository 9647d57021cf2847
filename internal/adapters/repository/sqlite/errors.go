package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vncsmyrnk/election/internal/core/domain"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

func errorCode(err error) int {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code()
	}
	return 0
}

// Connections without extended result codes only report SQLITE_CONSTRAINT,
// so the message decides in that case.
func isConstraint(err error, extended int, marker string) bool {
	code := errorCode(err)
	if code == extended {
		return true
	}
	return code == sqlite3.SQLITE_CONSTRAINT && strings.Contains(err.Error(), marker)
}

func isUniqueViolation(err error) bool {
	return isConstraint(err, sqlite3.SQLITE_CONSTRAINT_UNIQUE, "UNIQUE constraint failed") ||
		isConstraint(err, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, "PRIMARY KEY constraint failed")
}

func isForeignKeyViolation(err error) bool {
	return isConstraint(err, sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY, "FOREIGN KEY constraint failed")
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrUnavailable, op, err)
}
