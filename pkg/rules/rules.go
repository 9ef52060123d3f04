// Package rules tracks accounts that have been locked out pending acceptance
// of the rules. A lockout is an empty file named after the identity code.
package rules

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/nosborn/idcodec/pkg/goodies"
	"github.com/nosborn/idcodec/pkg/ident"
)

var homeDir = goodies.HomeDir

func IsLockedOut(code ident.Code) bool {
	err := unix.Access(RulesLockFile(code), unix.F_OK)
	return err == nil
}

func RulesLockFile(code ident.Code) string {
	if !code.Valid() {
		panic(fmt.Sprintf("code %d out of range [1, %d]", code, ident.MaxCode))
	}

	return filepath.Join(homeDir(), "lock", code.String())
}

// LockOut creates the lock file for code.
func LockOut(code ident.Code) error {
	path := RulesLockFile(code)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}

// Release removes the lock file for code. Releasing an account that isn't
// locked out is not an error.
func Release(code ident.Code) error {
	err := os.Remove(RulesLockFile(code))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
