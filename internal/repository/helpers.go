package repository

import (
	"database/sql"
	"fmt"
)

// expectAffected turns a zero-row write into sql.ErrNoRows so services can map it to NOT_FOUND.
func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
