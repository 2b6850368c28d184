// SPDX-License-Identifier: MPL-2.0

package pkgscript

import (
	"errors"
	"fmt"
)

var (
	// ErrLex is the sentinel error wrapped by LexError.
	ErrLex = errors.New("lex error")
	// ErrParse is the sentinel error wrapped by ParseError.
	ErrParse = errors.New("parse error")
)

type (
	// LexError reports text that cannot be tokenized.
	LexError struct {
		Pos TextPos
		Msg string
	}

	// ParseError reports a token that does not fit the grammar.
	// Token is empty when the error is at end of input.
	ParseError struct {
		Pos   TextPos
		Token string
		Msg   string
	}
)

// Error implements the error interface.
func (e *LexError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Unwrap returns ErrLex for errors.Is() compatibility.
func (e *LexError) Unwrap() error { return ErrLex }

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
	}
	return fmt.Sprintf("%s: %s (at %q)", e.Pos, e.Msg, e.Token)
}

// Unwrap returns ErrParse for errors.Is() compatibility.
func (e *ParseError) Unwrap() error { return ErrParse }

func unexpected(tok Token) *ParseError {
	return &ParseError{Pos: tok.Pos, Token: tok.String(), Msg: "unexpected " + tok.Kind.String()}
}

func parseErrorf(tok Token, format string, args ...any) *ParseError {
	return &ParseError{Pos: tok.Pos, Token: tok.String(), Msg: fmt.Sprintf(format, args...)}
}
