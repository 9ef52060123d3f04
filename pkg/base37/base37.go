// Package base37 packs short account names into a single 64-bit identity code
// and unpacks them again for display.
//
// Names are case-insensitive and limited to the letters a-z, the digits 0-9
// and blank. Each character becomes one base-37 digit, first character most
// significant, so a name of up to twelve characters always fits in a uint64.
// Decoding can't recover the original capitalization: a letter is uppercased
// when it starts the name or follows a blank, and lowercased otherwise.
package base37

import (
	"errors"
	"fmt"

	"github.com/nosborn/idcodec/pkg/diag"
	"github.com/nosborn/idcodec/pkg/ident"
)

var (
	ErrNameTooLong = errors.New("name too long")
	ErrInvalidCode = errors.New("invalid identity code")
)

// Codec converts between names and identity codes. The zero value is not
// usable; use New.
type Codec struct {
	log diag.Logger
}

type Option func(*Codec)

// WithLogger sets the sink validation failures and trace steps are reported
// to. A nil logger discards everything.
func WithLogger(l diag.Logger) Option {
	return func(c *Codec) {
		if l == nil {
			l = diag.Discard
		}
		c.log = l
	}
}

func New(opts ...Option) *Codec {
	c := &Codec{log: diag.Discard}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Encode returns the identity code for name. Names longer than
// ident.MaxNameLen bytes are rejected with ErrNameTooLong. Bytes outside the
// alphabet, blank included, count as digit 0, so an all-blank or empty name
// legitimately encodes to 0.
func (c *Codec) Encode(name string) (ident.Code, error) {
	if len(name) > ident.MaxNameLen {
		c.log.Errorf("Problem encoding base37 username: provided username (%s) was invalid", name)
		return 0, fmt.Errorf("encode %q: %w", name, ErrNameTooLong)
	}

	var code uint64
	for i := 0; i < len(name); i++ {
		code = code*ident.Radix + uint64(digit(toLower(name[i])))
		c.log.Debugf("hash step:%d", code)
	}
	c.log.Debugf("hash:%d", code)

	return ident.Code(code), nil
}

// Decode returns the display form of code. At most ident.MaxNameLen
// characters are produced; a code with more base-37 digits than that keeps
// only its least significant ones. Blanks are returned as-is, trimming is up
// to the caller.
func (c *Codec) Decode(code ident.Code) (string, error) {
	if code == 0 {
		c.log.Errorf("Problem decoding base37 encoded username: provided hash (%d) was invalid", code)
		return "", fmt.Errorf("decode %d: %w", code, ErrInvalidCode)
	}
	if code > ident.MaxCode {
		c.log.Warnf("Decoding %d: more than %d characters, keeping the last %d", code, ident.MaxNameLen, ident.MaxNameLen)
	}

	c.log.Debugf("Decoding:%d", code)

	var buf [ident.MaxNameLen]byte
	n := 0
	for code > 0 && n < ident.MaxNameLen {
		d := byte(code % ident.Radix)
		code /= ident.Radix
		buf[n] = char(d, code%ident.Radix == 0)
		c.log.Debugf("remainder:%d, next codepoint:%d", d, buf[n])
		n++
	}

	name := buf[:n]
	for i, j := 0, len(name)-1; i < j; i, j = i+1, j-1 {
		name[i], name[j] = name[j], name[i]
	}
	c.log.Debugf("result:%s", name)

	return string(name), nil
}

// EncodeUsername is Encode for callers that expect a bare integer: 0 stands
// in for failure.
func (c *Codec) EncodeUsername(name string) uint64 {
	code, err := c.Encode(name)
	if err != nil {
		return 0
	}
	return uint64(code)
}

// DecodeUsername is Decode for callers that expect a bare string: failure
// comes back as ident.NullName.
func (c *Codec) DecodeUsername(code uint64) string {
	name, err := c.Decode(ident.Code(code))
	if err != nil {
		return ident.NullName
	}
	return name
}

// digit maps a lowercase byte to its base-37 digit.
func digit(b byte) byte {
	switch {
	case b >= 'a' && b <= 'z':
		return 1 + b - 'a'
	case b >= '0' && b <= '9':
		return 27 + b - '0'
	}
	return 0
}

// char maps a base-37 digit back to a byte. Letters are uppercased when they
// start a word, which the caller tells us by looking at the next digit.
func char(d byte, wordStart bool) byte {
	switch {
	case d == 0:
		return ' '
	case d <= 26:
		if wordStart {
			return 'A' + d - 1
		}
		return 'a' + d - 1
	}
	return '0' + d - 27
}

func toLower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b | 32
	}
	return b
}
