package org

import (
	"errors"
	"fmt"
)

var (
	ErrLex                   = errors.New("unknown line")
	ErrUnmatchedDirectiveEnd = errors.New("unmatched 'end' directive")
	ErrUnclosedDirective     = errors.New("unclosed directive")
	ErrInvalidDirective      = errors.New("invalid directive")
)

// ParseError is a fatal parse failure at a source line.
type ParseError struct {
	Err  error // one of the Err* sentinels
	Line int   // 1-based
	Msg  string
}

func (e *ParseError) Error() string {
	msg := e.Err.Error()
	if e.Msg != "" {
		msg += " " + e.Msg
	}
	return fmt.Sprintf("%s at line %d", msg, e.Line)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func newParseError(err error, line int, format string, args ...any) *ParseError {
	return &ParseError{Err: err, Line: line, Msg: fmt.Sprintf(format, args...)}
}
