// SPDX-License-Identifier: MPL-2.0

package pkgscript

import (
	"fmt"
	"strconv"
)

const (
	// TokenNone is an empty token with no meaning.
	TokenNone TokenKind = iota
	// TokenWhitespace is a run of whitespace.
	TokenWhitespace
	// TokenSemicolon is ';'.
	TokenSemicolon
	// TokenColon is ':'.
	TokenColon
	// TokenComma is ','.
	TokenComma
	// TokenPipe is '|'.
	TokenPipe
	// TokenAt is '@'.
	TokenAt
	// TokenBang is '!'.
	TokenBang
	// TokenVariable is a '$name' reference; Text holds the name.
	TokenVariable
	// TokenCurly is '{' or '}'.
	TokenCurly
	// TokenSquare is '[' or ']'.
	TokenSquare
	// TokenParen is '(' or ')'.
	TokenParen
	// TokenAngle is '<' or '>'.
	TokenAngle
	// TokenComment is a '#' comment; Text holds the comment body.
	TokenComment
	// TokenIdent is a bare identifier.
	TokenIdent
	// TokenNum is an integer literal; Num holds the value.
	TokenNum
	// TokenStr is a string literal; Text holds the contents without quotes.
	TokenStr
)

const (
	// Left is an opening bracket.
	Left BracketSide = iota
	// Right is a closing bracket.
	Right
)

type (
	// TokenKind identifies the kind of a Token.
	TokenKind int

	// BracketSide says whether a bracket token opens or closes.
	BracketSide int

	// TextPos is a 1-based line and column in package text.
	TextPos struct {
		Line   int
		Column int
	}

	// Token is a lexed token and the position where it starts.
	Token struct {
		Kind TokenKind
		Side BracketSide
		Text string
		Num  int64
		Pos  TextPos
	}
)

// String renders the position as "line:column".
func (p TextPos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// String returns the kind name used in diagnostics.
func (k TokenKind) String() string {
	switch k {
	case TokenNone:
		return "none"
	case TokenWhitespace:
		return "whitespace"
	case TokenSemicolon:
		return "semicolon"
	case TokenColon:
		return "colon"
	case TokenComma:
		return "comma"
	case TokenPipe:
		return "pipe"
	case TokenAt:
		return "at"
	case TokenBang:
		return "bang"
	case TokenVariable:
		return "variable"
	case TokenCurly:
		return "curly bracket"
	case TokenSquare:
		return "square bracket"
	case TokenParen:
		return "parenthesis"
	case TokenAngle:
		return "angle bracket"
	case TokenComment:
		return "comment"
	case TokenIdent:
		return "identifier"
	case TokenNum:
		return "number"
	case TokenStr:
		return "string"
	default:
		return "token(" + strconv.Itoa(int(k)) + ")"
	}
}

// String reproduces the token as source text.
func (t Token) String() string {
	switch t.Kind {
	case TokenNone:
		return "none"
	case TokenWhitespace:
		return " "
	case TokenSemicolon:
		return ";"
	case TokenColon:
		return ":"
	case TokenComma:
		return ","
	case TokenPipe:
		return "|"
	case TokenAt:
		return "@"
	case TokenBang:
		return "!"
	case TokenVariable:
		return "$" + t.Text
	case TokenCurly:
		return t.bracket("{", "}")
	case TokenSquare:
		return t.bracket("[", "]")
	case TokenParen:
		return t.bracket("(", ")")
	case TokenAngle:
		return t.bracket("<", ">")
	case TokenComment:
		return "# " + t.Text
	case TokenIdent:
		return t.Text
	case TokenNum:
		return strconv.FormatInt(t.Num, 10)
	case TokenStr:
		return strconv.Quote(t.Text)
	default:
		return t.Kind.String()
	}
}

func (t Token) bracket(left, right string) string {
	if t.Side == Left {
		return left
	}
	return right
}

// IsIdent reports whether the token is the identifier name.
func (t Token) IsIdent(name string) bool {
	return t.Kind == TokenIdent && t.Text == name
}

// IsBracket reports whether the token is a bracket of the given kind and side.
func (t Token) IsBracket(kind TokenKind, side BracketSide) bool {
	return t.Kind == kind && t.Side == side
}

// Is reports whether the token has the given kind.
func (t Token) Is(kind TokenKind) bool {
	return t.Kind == kind
}

// structural reports whether the token matters to the parser.
func (t Token) structural() bool {
	switch t.Kind {
	case TokenNone, TokenWhitespace, TokenComment:
		return false
	default:
		return true
	}
}
