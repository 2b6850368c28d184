// SPDX-License-Identifier: MPL-2.0

package pkgscript

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
		{
			name:  "two semicolons",
			input: ";;",
			want: []Token{
				{Kind: TokenSemicolon, Pos: TextPos{1, 1}},
				{Kind: TokenSemicolon, Pos: TextPos{1, 2}},
			},
		},
		{
			name:  "negative number",
			input: "-10",
			want:  []Token{{Kind: TokenNum, Num: -10, Pos: TextPos{1, 1}}},
		},
		{
			name:  "identifier then number",
			input: "foo 42",
			want: []Token{
				{Kind: TokenIdent, Text: "foo", Pos: TextPos{1, 1}},
				{Kind: TokenWhitespace, Pos: TextPos{1, 4}},
				{Kind: TokenNum, Num: 42, Pos: TextPos{1, 5}},
			},
		},
		{
			name:  "comment ends at newline",
			input: "# hi\nname",
			want: []Token{
				{Kind: TokenComment, Text: " hi", Pos: TextPos{1, 1}},
				{Kind: TokenWhitespace, Pos: TextPos{1, 5}},
				{Kind: TokenIdent, Text: "name", Pos: TextPos{2, 1}},
			},
		},
		{
			name:  "string with escape",
			input: `"a\"b"`,
			want:  []Token{{Kind: TokenStr, Text: `a"b`, Pos: TextPos{1, 1}}},
		},
		{
			name:  "unterminated string is partial",
			input: `"abc`,
			want:  []Token{{Kind: TokenStr, Text: "abc", Pos: TextPos{1, 1}}},
		},
		{
			name:  "variable",
			input: "$loader;",
			want: []Token{
				{Kind: TokenVariable, Text: "loader", Pos: TextPos{1, 1}},
				{Kind: TokenSemicolon, Pos: TextPos{1, 8}},
			},
		},
		{
			name:  "brackets",
			input: "{[(<>)]}",
			want: []Token{
				{Kind: TokenCurly, Side: Left, Pos: TextPos{1, 1}},
				{Kind: TokenSquare, Side: Left, Pos: TextPos{1, 2}},
				{Kind: TokenParen, Side: Left, Pos: TextPos{1, 3}},
				{Kind: TokenAngle, Side: Left, Pos: TextPos{1, 4}},
				{Kind: TokenAngle, Side: Right, Pos: TextPos{1, 5}},
				{Kind: TokenParen, Side: Right, Pos: TextPos{1, 6}},
				{Kind: TokenSquare, Side: Right, Pos: TextPos{1, 7}},
				{Kind: TokenCurly, Side: Right, Pos: TextPos{1, 8}},
			},
		},
		{
			name:  "identifier with underscore and digits",
			input: "_a1 b_2",
			want: []Token{
				{Kind: TokenIdent, Text: "_a1", Pos: TextPos{1, 1}},
				{Kind: TokenWhitespace, Pos: TextPos{1, 4}},
				{Kind: TokenIdent, Text: "b_2", Pos: TextPos{1, 5}},
			},
		},
		{
			name:  "punctuation",
			input: "@:,|!",
			want: []Token{
				{Kind: TokenAt, Pos: TextPos{1, 1}},
				{Kind: TokenColon, Pos: TextPos{1, 2}},
				{Kind: TokenComma, Pos: TextPos{1, 3}},
				{Kind: TokenPipe, Pos: TextPos{1, 4}},
				{Kind: TokenBang, Pos: TextPos{1, 5}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Lex(tt.input)
			if err != nil {
				t.Fatalf("Lex(%q) error = %v", tt.input, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Lex(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestLexErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		pos   TextPos
	}{
		{"lone minus", "- 1", TextPos{1, 1}},
		{"minus at end", "x -", TextPos{1, 3}},
		{"empty variable", "$ x", TextPos{1, 1}},
		{"variable at end", "$", TextPos{1, 1}},
		{"unknown character", "name %", TextPos{1, 6}},
		{"decimal number", "1.20", TextPos{1, 2}},
		{"overflow", "99999999999999999999", TextPos{1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Lex(tt.input)
			if !errors.Is(err, ErrLex) {
				t.Fatalf("Lex(%q) error = %v, want ErrLex", tt.input, err)
			}
			var lexErr *LexError
			if !errors.As(err, &lexErr) {
				t.Fatalf("Lex(%q) error is not a *LexError", tt.input)
			}
			if lexErr.Pos != tt.pos {
				t.Errorf("Lex(%q) error position = %s, want %s", tt.input, lexErr.Pos, tt.pos)
			}
		})
	}
}

func TestReduce(t *testing.T) {
	t.Parallel()

	toks, err := Lex("require  # why\n\t\"a\" ;")
	if err != nil {
		t.Fatal(err)
	}
	toks = append(toks, Token{Kind: TokenNone})

	got := Reduce(toks)
	want := []Token{
		{Kind: TokenIdent, Text: "require", Pos: TextPos{1, 1}},
		{Kind: TokenStr, Text: "a", Pos: TextPos{2, 2}},
		{Kind: TokenSemicolon, Pos: TextPos{2, 6}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Reduce() mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenString(t *testing.T) {
	t.Parallel()

	toks, err := Lex(`@install { require "a" | $b; } -3`)
	if err != nil {
		t.Fatal(err)
	}

	var out string
	for _, tok := range toks {
		out += tok.String()
	}
	if want := `@install { require "a" | $b; } -3`; out != want {
		t.Errorf("token round trip = %q, want %q", out, want)
	}
}
