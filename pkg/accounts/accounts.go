// Package accounts is the account registry. Accounts are keyed by the
// identity code of their name, so the same integer the client sends on the
// wire is the primary key on disk.
package accounts

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/nosborn/idcodec/pkg/base37"
	"github.com/nosborn/idcodec/pkg/db"
	"github.com/nosborn/idcodec/pkg/ident"
	"github.com/nosborn/idcodec/pkg/names"
)

const (
	MaxPasswordTries = 20
	PasswordSize     = 72 // bcrypt limit
)

var (
	ErrBadName   = errors.New("unusable name")
	ErrNameTaken = errors.New("name already registered")
	ErrNotFound  = errors.New("account not found")
)

type Status string

const (
	Active    Status = "A"
	Suspended Status = "S"
	Cancelled Status = "X"
)

type Account struct {
	Code    ident.Code
	Name    string // display form
	Status  Status
	Created string
}

// CodeOf returns the identity code name is registered under.
func CodeOf(name string) (ident.Code, error) {
	norm := names.Normalize(name)
	if norm == "" {
		return 0, fmt.Errorf("%q: %w", name, ErrBadName)
	}
	return base37.Encode(norm)
}

// Register creates an account for name and returns its identity code. The
// name is normalized first, so "Mod_Ash" and "mod ash" are the same account.
func Register(name, password, answer string) (ident.Code, error) {
	code, err := CodeOf(name)
	if err != nil {
		return 0, err
	}

	var exists int
	err = db.QueryRow("SELECT COUNT(*) FROM accounts WHERE code = ?", int64(code)).Scan(&exists)
	if err != nil {
		return 0, err
	}
	if exists != 0 {
		return 0, fmt.Errorf("%q: %w", name, ErrNameTaken)
	}

	encrypt, err := PasswordHash(password)
	if err != nil {
		return 0, err
	}

	const query = `
		INSERT INTO accounts (code, name, encrypt, recovery)
		VALUES (?, ?, ?, ?)`
	if _, err := db.Exec(query, int64(code), DisplayName(code), encrypt, recoveryValue(answer)); err != nil {
		_ = db.Rollback()
		return 0, err
	}
	if err := db.Commit(); err != nil {
		log.Printf("accounts.Register: db.Commit() failed: %v", err)
		return 0, err
	}

	log.Printf("Registered %s as %d", DisplayName(code), code)
	return code, nil
}

// Lookup returns the account stored under code.
func Lookup(code ident.Code) (Account, error) {
	a := Account{Code: code}
	var status string
	err := db.QueryRow("SELECT name, status, created FROM accounts WHERE code = ?", int64(code)).
		Scan(&a.Name, &status, &a.Created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Account{}, fmt.Errorf("%d: %w", code, ErrNotFound)
		}
		return Account{}, err
	}
	a.Status = Status(status)
	return a, nil
}

// DisplayName is the name shown to other players for code, with trailing
// blanks removed. Codes that can't be decoded come back as ident.NullName.
func DisplayName(code ident.Code) string {
	name, err := base37.Decode(code)
	if err != nil {
		return ident.NullName
	}
	return strings.TrimRight(name, " ")
}

// SetStatus changes the status of an account.
func SetStatus(code ident.Code, status Status) error {
	result, err := db.Exec("UPDATE accounts SET status = ? WHERE code = ?", string(status), int64(code))
	if err != nil {
		return err
	}
	if rows, err := result.RowsAffected(); err != nil || rows != 1 {
		_ = db.Rollback()
		return fmt.Errorf("%d: %w", code, ErrNotFound)
	}
	return db.Commit()
}
