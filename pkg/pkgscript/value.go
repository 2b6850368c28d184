// SPDX-License-Identifier: MPL-2.0

package pkgscript

import "strconv"

const (
	// ValueNone is an absent value.
	ValueNone ValueKind = iota
	// ValueLiteral is literal text from a string, number or identifier.
	ValueLiteral
	// ValueVar is a reference to a variable, resolved at evaluation time.
	ValueVar
)

type (
	// ValueKind identifies the kind of a Value.
	ValueKind int

	// Value is an instruction or condition argument.
	Value struct {
		Kind ValueKind
		// Text is the literal text or the variable name.
		Text string
	}
)

// Literal returns a literal value.
func Literal(s string) Value { return Value{Kind: ValueLiteral, Text: s} }

// Var returns a variable reference.
func Var(name string) Value { return Value{Kind: ValueVar, Text: name} }

// IsSome reports whether the value is present.
func (v Value) IsSome() bool { return v.Kind != ValueNone }

// Resolve returns the value's text, looking variables up in vars.
// ok is false when a variable is not defined.
func (v Value) Resolve(vars map[string]string) (string, bool) {
	switch v.Kind {
	case ValueLiteral:
		return v.Text, true
	case ValueVar:
		s, ok := vars[v.Text]
		return s, ok
	default:
		return "", true
	}
}

// String renders the value as it would appear in a script.
func (v Value) String() string {
	switch v.Kind {
	case ValueLiteral:
		return strconv.Quote(v.Text)
	case ValueVar:
		return "$" + v.Text
	default:
		return "none"
	}
}

// valueFromToken converts an argument token into a Value.
func valueFromToken(tok Token) (Value, error) {
	switch tok.Kind {
	case TokenStr, TokenIdent:
		return Literal(tok.Text), nil
	case TokenNum:
		return Literal(strconv.FormatInt(tok.Num, 10)), nil
	case TokenVariable:
		return Var(tok.Text), nil
	default:
		return Value{}, unexpected(tok)
	}
}
