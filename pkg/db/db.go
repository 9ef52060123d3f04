// Package db holds the single SQLite connection the account registry runs on.
//
// All statements run inside an automatic transaction: Connect opens one, and
// Commit and Rollback finish the current one and immediately start the next.
// There is one connection per process and the package is not safe for
// concurrent use.
package db

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

var ErrNotConnected = errors.New("not connected")

//go:embed schema.sql
var schema string

var (
	db   *sql.DB
	conn *sql.Conn
	tx   *sql.Tx
)

// Commit commits the current transaction and starts a new one.
func Commit() error {
	if tx == nil {
		return ErrNotConnected
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	tx = nil
	return startTransaction()
}

// Connect opens the database file at path. Only one connection can be open at
// a time.
func Connect(path string, readOnly bool) error {
	if db != nil {
		return fmt.Errorf("already open")
	}

	dsnParams := []string{
		"_pragma=busy_timeout(5000)",
		"_pragma=foreign_keys(1)",
		"_pragma=journal_mode(WAL)",
		"_time_format=sqlite",
	}
	if readOnly {
		dsnParams = append(dsnParams, "_pragma=query_only(1)")
	}

	dsn := fmt.Sprintf("file:%s?%s", path, strings.Join(dsnParams, "&"))
	var err error
	db, err = sql.Open("sqlite", dsn)
	if err != nil {
		db = nil
		return err
	}

	conn, err = db.Conn(context.Background())
	if err != nil {
		_ = db.Close()
		db = nil
		return err
	}

	return startTransaction()
}

// CreateSchema creates the registry tables if they don't exist yet and
// commits.
func CreateSchema() error {
	if tx == nil {
		return ErrNotConnected
	}
	if _, err := tx.Exec(schema); err != nil {
		return err
	}
	return Commit()
}

// Disconnect commits the current transaction and closes the connection. A new
// Connect may follow.
func Disconnect() error {
	if db == nil {
		return nil
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	tx = nil
	if err := conn.Close(); err != nil {
		return err
	}
	conn = nil
	if err := db.Close(); err != nil {
		return err
	}
	db = nil
	return nil
}

// Exec executes a statement within the current transaction.
func Exec(query string, args ...any) (sql.Result, error) {
	if tx == nil {
		return nil, ErrNotConnected
	}
	return tx.Exec(query, args...)
}

// Exit abandons the connection, rolling back whatever is open. Errors are
// ignored; this is for process termination and test cleanup.
func Exit() error {
	if tx != nil {
		_ = tx.Rollback()
		tx = nil
	}
	if conn != nil {
		_ = conn.Close()
	}
	if db != nil {
		_ = db.Close()
	}
	conn, db = nil, nil
	return nil
}

// QueryRow runs a query that returns at most one row within the current
// transaction. A *sql.Row can't carry ErrNotConnected, so calling it before
// Connect panics with it instead.
func QueryRow(query string, args ...any) *sql.Row {
	if tx == nil {
		panic(fmt.Errorf("db.QueryRow: %w", ErrNotConnected))
	}
	return tx.QueryRow(query, args...)
}

// Rollback rolls back the current transaction and starts a new one.
func Rollback() error {
	if tx == nil {
		return ErrNotConnected
	}
	if err := tx.Rollback(); err != nil {
		return err
	}
	tx = nil
	return startTransaction()
}

func startTransaction() error {
	var err error
	tx, err = conn.BeginTx(context.Background(), nil)
	return err
}
