// SPDX-License-Identifier: MPL-2.0

package pkgscript

import (
	"strconv"
	"strings"
	"unicode"
)

// lexer holds the token in progress. active is false between tokens.
type lexer struct {
	tokens []Token
	cur    Token
	text   strings.Builder
	active bool
	escape bool
}

// Lex splits package text into tokens, including whitespace and comments.
// Use Reduce to drop the tokens that carry no structure.
//
// An unterminated string at the end of the input is returned as a string
// token holding whatever was read.
func Lex(text string) ([]Token, error) {
	l := &lexer{}
	pos := TextPos{Line: 1}

	for _, r := range text {
		pos.Column++
		if err := l.feed(r, pos); err != nil {
			return nil, err
		}
		if r == '\n' {
			pos.Line++
			pos.Column = 0
		}
	}

	if err := l.finish(); err != nil {
		return nil, err
	}
	return l.tokens, nil
}

// Reduce returns the structural tokens of a token stream in their original
// order, dropping whitespace, comments and empty tokens.
func Reduce(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.structural() {
			out = append(out, tok)
		}
	}
	return out
}

// feed consumes one rune. A rune that ends the current token is dispatched
// again against a fresh token.
func (l *lexer) feed(r rune, pos TextPos) error {
	for {
		again, err := l.step(r, pos)
		if err != nil || !again {
			return err
		}
	}
}

func (l *lexer) step(r rune, pos TextPos) (bool, error) {
	if !l.active {
		return false, l.start(r, pos)
	}

	switch l.cur.Kind {
	case TokenStr:
		switch {
		case l.escape:
			l.text.WriteRune(r)
			l.escape = false
		case r == '\\':
			l.escape = true
		case r == '"':
			l.emit()
		default:
			l.text.WriteRune(r)
		}
		return false, nil

	case TokenComment:
		if r == '\n' {
			l.emit()
			return true, nil
		}
		l.text.WriteRune(r)
		return false, nil

	case TokenVariable:
		if isIdentRune(r, l.text.Len() == 0) {
			l.text.WriteRune(r)
			return false, nil
		}
		if l.text.Len() == 0 {
			return false, &LexError{Pos: l.cur.Pos, Msg: "expected variable name after '$'"}
		}
		l.emit()
		return true, nil

	case TokenWhitespace:
		if unicode.IsSpace(r) {
			return false, nil
		}
		l.emit()
		return true, nil

	case TokenIdent:
		if isIdentRune(r, false) {
			l.text.WriteRune(r)
			return false, nil
		}
		l.emit()
		return true, nil

	case TokenNum:
		if isDigit(r) {
			l.text.WriteRune(r)
			return false, nil
		}
		if err := l.emitNum(); err != nil {
			return false, err
		}
		return true, nil
	}

	return false, &LexError{Pos: pos, Msg: "internal error: unexpected lexer state " + l.cur.Kind.String()}
}

func (l *lexer) start(r rune, pos TextPos) error {
	single := func(kind TokenKind, side BracketSide) {
		l.tokens = append(l.tokens, Token{Kind: kind, Side: side, Pos: pos})
	}

	switch r {
	case ';':
		single(TokenSemicolon, Left)
	case ':':
		single(TokenColon, Left)
	case ',':
		single(TokenComma, Left)
	case '|':
		single(TokenPipe, Left)
	case '@':
		single(TokenAt, Left)
	case '!':
		single(TokenBang, Left)
	case '{':
		single(TokenCurly, Left)
	case '}':
		single(TokenCurly, Right)
	case '[':
		single(TokenSquare, Left)
	case ']':
		single(TokenSquare, Right)
	case '(':
		single(TokenParen, Left)
	case ')':
		single(TokenParen, Right)
	case '<':
		single(TokenAngle, Left)
	case '>':
		single(TokenAngle, Right)
	case '"':
		l.begin(TokenStr, pos)
	case '#':
		l.begin(TokenComment, pos)
	case '$':
		l.begin(TokenVariable, pos)
	default:
		switch {
		case unicode.IsSpace(r):
			l.begin(TokenWhitespace, pos)
		case isDigit(r) || r == '-':
			l.begin(TokenNum, pos)
			l.text.WriteRune(r)
		case isIdentRune(r, true):
			l.begin(TokenIdent, pos)
			l.text.WriteRune(r)
		default:
			return &LexError{Pos: pos, Msg: "unexpected character " + strconv.QuoteRune(r)}
		}
	}
	return nil
}

func (l *lexer) begin(kind TokenKind, pos TextPos) {
	l.cur = Token{Kind: kind, Pos: pos}
	l.text.Reset()
	l.active = true
	l.escape = false
}

func (l *lexer) emit() {
	switch l.cur.Kind {
	case TokenStr, TokenComment, TokenVariable, TokenIdent:
		l.cur.Text = l.text.String()
	}
	l.tokens = append(l.tokens, l.cur)
	l.active = false
}

func (l *lexer) emitNum() error {
	digits := l.text.String()
	if digits == "-" {
		return &LexError{Pos: l.cur.Pos, Msg: "invalid number '-': expected a digit after '-'"}
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return &LexError{Pos: l.cur.Pos, Msg: "invalid number " + strconv.Quote(digits) + ": out of range"}
	}
	l.cur.Num = n
	l.emit()
	return nil
}

// finish flushes the token in progress at end of input.
func (l *lexer) finish() error {
	if !l.active {
		return nil
	}
	switch l.cur.Kind {
	case TokenNum:
		return l.emitNum()
	case TokenVariable:
		if l.text.Len() == 0 {
			return &LexError{Pos: l.cur.Pos, Msg: "expected variable name after '$'"}
		}
	}
	l.emit()
	return nil
}

func isIdentRune(r rune, first bool) bool {
	if first && unicode.IsDigit(r) {
		return false
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
