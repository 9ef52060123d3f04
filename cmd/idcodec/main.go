// idcodec converts account names to identity codes and back, and prints the
// recovery and resource fingerprints of its arguments.
//
//	idcodec [--debug] encode NAME...
//	idcodec [--debug] decode CODE...
//	idcodec recovery ANSWER...
//	idcodec resource NAME...
//
// One result is printed per argument. Trace output goes to stderr with
// --debug or when IDCODEC_DEBUG is set.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/nosborn/idcodec/pkg/base37"
	"github.com/nosborn/idcodec/pkg/diag"
	"github.com/nosborn/idcodec/pkg/fingerprint"
	"github.com/nosborn/idcodec/pkg/ident"
)

const debugEnv = "IDCODEC_DEBUG"

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) ExitCode() int { return e.code }

func usageError(format string, args ...any) error {
	return &exitError{code: 2, err: fmt.Errorf(format, args...)}
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "idcodec: %v\n", err)
		var coder interface{ ExitCode() int }
		if errors.As(err, &coder) {
			os.Exit(coder.ExitCode())
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	var debug bool

	flagSet := pflag.NewFlagSet("idcodec", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.BoolVar(&debug, "debug", false, "trace every encoding step (also "+debugEnv+")")
	flagSet.SetInterspersed(false)

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return usageError("%v", err)
	}
	if !flagSet.Changed("debug") {
		debug, _ = strconv.ParseBool(os.Getenv(debugEnv))
	}

	args = flagSet.Args()
	if len(args) < 2 {
		return usageError("usage: idcodec [--debug] encode|decode|recovery|resource ARG...")
	}

	logger := diag.NewStd(log.New(stderr, "idcodec: ", 0), debug)
	codec := base37.New(base37.WithLogger(logger))

	var failed bool
	cmd, operands := args[0], args[1:]
	for _, arg := range operands {
		out, err := apply(codec, cmd, arg)
		if err != nil {
			var usage *exitError
			if errors.As(err, &usage) {
				return err
			}
			failed = true
			out = ident.NullName
		}
		fmt.Fprintln(stdout, out)
	}

	if failed {
		return &exitError{code: 1, err: errors.New("some arguments could not be converted")}
	}
	return nil
}

func apply(codec *base37.Codec, cmd, arg string) (string, error) {
	switch cmd {
	case "encode":
		code, err := codec.Encode(arg)
		if err != nil {
			return "", err
		}
		return code.String(), nil

	case "decode":
		code, err := ident.Parse(arg)
		if err != nil {
			return "", fmt.Errorf("%q is not a code: %w", arg, err)
		}
		return codec.Decode(code)

	case "recovery":
		return strconv.FormatUint(fingerprint.Recovery(arg), 10), nil

	case "resource":
		return strconv.FormatInt(int64(fingerprint.Resource(arg)), 10), nil
	}
	return "", usageError("unknown command %q", cmd)
}
