package accounts

import (
	"log"

	"github.com/nosborn/idcodec/pkg/db"
	"github.com/nosborn/idcodec/pkg/fingerprint"
	"github.com/nosborn/idcodec/pkg/ident"
)

type RecoverResult int

const (
	RecoverOK        RecoverResult = iota // Answer matches
	RecoverError                          // Catch-all internal error
	RecoverIncorrect                      // Unknown name or wrong answer
	RecoverNotSet                         // No recovery answer on file
)

// Only the fingerprint of the answer is stored, in the bit pattern of the
// unsigned value.
func recoveryValue(answer string) int64 {
	return int64(fingerprint.Recovery(answer))
}

// SetRecovery replaces the recovery answer of an account.
func SetRecovery(code ident.Code, answer string) error {
	if !execOne("UPDATE accounts SET recovery = ? WHERE code = ?", recoveryValue(answer), int64(code)) {
		_ = db.Rollback()
		return ErrNotFound
	}
	return db.Commit()
}

// Recover checks answer against the recovery answer on file for name.
// Answers are compared by fingerprint, so case, blanks and punctuation don't
// matter.
func Recover(name, answer string) RecoverResult {
	code, err := CodeOf(name)
	if err != nil {
		return RecoverIncorrect
	}

	cancelled, err := db.IsCancelled(code)
	if err != nil {
		log.Printf("accounts.Recover: %v", err)
		return RecoverError
	}
	if cancelled {
		return RecoverIncorrect
	}

	var stored int64
	if err := db.QueryRow("SELECT recovery FROM accounts WHERE code = ?", int64(code)).Scan(&stored); err != nil {
		log.Printf("accounts.Recover: %v", err)
		return RecoverError
	}

	if stored == 0 {
		return RecoverNotSet
	}
	if stored != recoveryValue(answer) {
		log.Printf("Wrong recovery answer for %s", DisplayName(code))
		return RecoverIncorrect
	}
	return RecoverOK
}
