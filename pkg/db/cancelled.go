package db

import (
	"database/sql"
	"errors"

	"github.com/nosborn/idcodec/pkg/ident"
)

// IsCancelled reports whether the account is cancelled. Accounts that don't
// exist count as cancelled.
func IsCancelled(code ident.Code) (bool, error) {
	var status string
	err := QueryRow("SELECT status FROM accounts WHERE code = ?", int64(code)).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return true, nil
		}
		return false, err
	}
	return status == "X", nil
}
