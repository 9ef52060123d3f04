package base37

import (
	"github.com/nosborn/idcodec/pkg/diag"
	"github.com/nosborn/idcodec/pkg/ident"
)

var std = New(WithLogger(diag.NewStd(nil, false)))

// Encode encodes name using a codec that reports to the standard logger.
func Encode(name string) (ident.Code, error) {
	return std.Encode(name)
}

// Decode decodes code using a codec that reports to the standard logger.
func Decode(code ident.Code) (string, error) {
	return std.Decode(code)
}

func EncodeUsername(name string) uint64 {
	return std.EncodeUsername(name)
}

func DecodeUsername(code uint64) string {
	return std.DecodeUsername(code)
}
