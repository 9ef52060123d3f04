package accounts

import (
	"database/sql"
	"errors"
	"log"
	"math"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/nosborn/idcodec/pkg/db"
	"github.com/nosborn/idcodec/pkg/ident"
	"github.com/nosborn/idcodec/pkg/names"
	"github.com/nosborn/idcodec/pkg/rules"
)

type LoginResult int

const (
	LoginOK        LoginResult = iota // Valid login
	LoginError                        // Catch-all internal error
	LoginIncorrect                    // Name or password wrong
	LoginSuspended                    // Account has been suspended
	LoginLockedOut                    // Rules not yet accepted
)

type Session struct {
	Code    ident.Code
	Name    string
	SLogin  string
	ULogin  string
	SucIP   string
	UnsucIP string
}

var hashCost = bcrypt.DefaultCost

// PasswordHash returns the bcrypt hash stored for password.
func PasswordHash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login checks name and password and, on LoginOK, fills in session. A nil
// session is allowed when the caller only wants the result.
func Login(name, password, addr string, session *Session) LoginResult {
	if name == "" || password == "" {
		log.Print("Bad parameters to accounts.Login")
		return LoginError
	}

	name = strings.TrimSpace(name)
	password = strings.TrimSpace(password)
	if name == "" || password == "" {
		return LoginIncorrect
	}

	if len(name) > ident.MaxNameLen || len(password) > PasswordSize {
		log.Printf("Bad parameters to accounts.Login for %s", names.Format(name, 32))
		return LoginError
	}

	code, err := CodeOf(name)
	if err != nil {
		log.Printf("No usable name in %q", names.Key(name))
		return LoginIncorrect
	}

	var (
		encrypt   string
		status    string
		nunsuclog int
		slogin    sql.NullString
		ulogin    sql.NullString
		sucip     sql.NullString
		unsucip   sql.NullString
	)

	const query = `
		SELECT encrypt, status, nunsuclog, slogin, ulogin, sucip, unsucip
		FROM accounts
		WHERE code = ?`
	err = db.QueryRow(query, int64(code)).Scan(&encrypt, &status, &nunsuclog, &slogin, &ulogin, &sucip, &unsucip)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LoginIncorrect
		}
		log.Printf("accounts.Login: %v", err)
		return LoginError
	}

	switch Status(status) {
	case Active:
	case Suspended: // reject after the password check
	case Cancelled:
		return LoginIncorrect
	default:
		return LoginError
	}

	if bcrypt.CompareHashAndPassword([]byte(encrypt), []byte(password)) != nil {
		log.Printf("Wrong password for %s", DisplayName(code))

		if nunsuclog < math.MaxInt16 {
			nunsuclog++
		}

		const query = `
			UPDATE accounts
			SET ulogin = CURRENT_TIMESTAMP, nunsuclog = ?, unsucip = ?
			WHERE code = ?`
		if !execOne(query, nunsuclog, addr, int64(code)) {
			return LoginError
		}
		if err := db.Commit(); err != nil {
			return LoginError
		}
		return LoginIncorrect
	}

	if Status(status) != Active {
		return LoginSuspended
	}

	// Getting it right now doesn't excuse earlier guessing.
	if nunsuclog >= MaxPasswordTries {
		log.Printf("Too many password failures for %s", DisplayName(code))
		return LoginIncorrect
	}

	if rules.IsLockedOut(code) {
		return LoginLockedOut
	}

	const update = `
		UPDATE accounts
		SET slogin = CURRENT_TIMESTAMP, sucip = ?, nunsuclog = 0
		WHERE code = ?`
	if !execOne(update, addr, int64(code)) {
		return LoginError
	}
	if err := db.Commit(); err != nil {
		return LoginError
	}

	if session == nil {
		return LoginOK
	}
	session.Code = code
	session.Name = DisplayName(code)
	session.SucIP = sucip.String
	session.UnsucIP = unsucip.String
	session.SLogin = orNever(slogin)
	session.ULogin = orNever(ulogin)

	return LoginOK
}

func execOne(query string, args ...any) bool {
	result, err := db.Exec(query, args...)
	if err != nil {
		log.Printf("accounts: %v", err)
		return false
	}
	if rows, err := result.RowsAffected(); err != nil || rows != 1 {
		log.Printf("accounts: expected to update 1 row, updated %d rows", rows)
		return false
	}
	return true
}

func orNever(s sql.NullString) string {
	if s.Valid {
		return s.String
	}
	return "NEVER"
}
