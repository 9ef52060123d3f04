// Package diag is the leveled diagnostic sink the codec reports to. The host
// decides where messages go and whether trace output is wanted; the codec only
// ever hands over formatted text.
package diag

import (
	"context"
	"fmt"
	"log"
	"log/slog"
)

// Logger accepts leveled diagnostic messages. Implementations must be safe for
// concurrent use.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Discard drops everything.
var Discard Logger = discard{}

type discard struct{}

func (discard) Debugf(string, ...any) {}
func (discard) Infof(string, ...any)  {}
func (discard) Warnf(string, ...any)  {}
func (discard) Errorf(string, ...any) {}

// Std writes to a standard library logger. Debug messages are only written
// when debug is set.
type Std struct {
	l     *log.Logger
	debug bool
}

// NewStd returns a Logger writing to l, or to the standard logger when l is
// nil.
func NewStd(l *log.Logger, debug bool) *Std {
	if l == nil {
		l = log.Default()
	}
	return &Std{l: l, debug: debug}
}

func (s *Std) Debugf(format string, args ...any) {
	if s.debug {
		s.l.Printf("DEBUG "+format, args...)
	}
}

func (s *Std) Infof(format string, args ...any) {
	s.l.Printf("INFO "+format, args...)
}

func (s *Std) Warnf(format string, args ...any) {
	s.l.Printf("WARN "+format, args...)
}

func (s *Std) Errorf(format string, args ...any) {
	s.l.Printf("ERROR "+format, args...)
}

// Slog forwards to a structured logger. Level filtering is left to the
// handler.
type Slog struct {
	l *slog.Logger
}

func NewSlog(l *slog.Logger) *Slog {
	if l == nil {
		l = slog.Default()
	}
	return &Slog{l: l}
}

func (s *Slog) Debugf(format string, args ...any) {
	s.logf(slog.LevelDebug, format, args...)
}

func (s *Slog) Infof(format string, args ...any) {
	s.logf(slog.LevelInfo, format, args...)
}

func (s *Slog) Warnf(format string, args ...any) {
	s.logf(slog.LevelWarn, format, args...)
}

func (s *Slog) Errorf(format string, args ...any) {
	s.logf(slog.LevelError, format, args...)
}

func (s *Slog) logf(level slog.Level, format string, args ...any) {
	ctx := context.Background()
	if !s.l.Enabled(ctx, level) {
		return
	}
	s.l.Log(ctx, level, fmt.Sprintf(format, args...))
}
