package ident

import "strconv"

// Code is an account identity packed into a single integer. It is a base-37
// number with one digit per character slot: 0 is a blank, 1-26 are the letters
// a-z and 27-36 are the digits 0-9. The most significant digit holds the first
// character of the name.
type Code uint64

const (
	Radix      = 37
	MaxNameLen = 12

	// The largest code a name of MaxNameLen characters can produce. Anything
	// above this has more digits than a name has slots.
	MaxCode Code = 6582952005840035280 // 37^12 - 1
)

// NullName is what the boundary decoder returns for a code it can't decode.
const NullName = "null"

func (c Code) Valid() bool {
	return c > 0 && c <= MaxCode
}

func (c Code) String() string {
	return strconv.FormatUint(uint64(c), 10)
}

// Parse reads a decimal identity code as it appears on the wire or in a lock
// file name.
func Parse(s string) (Code, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return Code(n), nil
}
