// SPDX-License-Identifier: MPL-2.0

package pkgscript

import (
	"github.com/mcpkg/mcpkg/pkg/types"
)

type parser struct {
	toks   []Token
	i      int
	parsed *Parsed
}

// Parse lexes and parses package script text.
func Parse(text string) (*Parsed, error) {
	toks, err := Lex(text)
	if err != nil {
		return nil, err
	}
	return ParseTokens(toks)
}

// ParseTokens parses a token stream produced by Lex. Non-structural tokens
// are ignored.
func ParseTokens(toks []Token) (*Parsed, error) {
	p := &parser{
		toks:   Reduce(toks),
		parsed: &Parsed{Routines: make(map[string]BlockID)},
	}

	for !p.atEnd() {
		at := p.next()
		if !at.Is(TokenAt) {
			return nil, parseErrorf(at, "expected routine header '@name'")
		}
		name, err := p.expect(TokenIdent, "routine name")
		if err != nil {
			return nil, err
		}
		if _, dup := p.parsed.Routines[name.Text]; dup {
			return nil, parseErrorf(name, "duplicate routine %q", name.Text)
		}
		id, err := p.block()
		if err != nil {
			return nil, err
		}
		p.parsed.Routines[name.Text] = id
	}

	return p.parsed, nil
}

func (p *parser) atEnd() bool { return p.i >= len(p.toks) }

func (p *parser) next() Token {
	tok := p.toks[p.i]
	p.i++
	return tok
}

func (p *parser) peek() (Token, bool) {
	if p.atEnd() {
		return Token{}, false
	}
	return p.toks[p.i], true
}

// endPos is the position reported for errors at end of input.
func (p *parser) endPos() TextPos {
	if len(p.toks) == 0 {
		return TextPos{Line: 1, Column: 1}
	}
	return p.toks[len(p.toks)-1].Pos
}

func (p *parser) eof(want string) *ParseError {
	return &ParseError{Pos: p.endPos(), Msg: "unexpected end of input, expected " + want}
}

func (p *parser) expect(kind TokenKind, want string) (Token, error) {
	if p.atEnd() {
		return Token{}, p.eof(want)
	}
	tok := p.next()
	if !tok.Is(kind) {
		return Token{}, parseErrorf(tok, "expected %s", want)
	}
	return tok, nil
}

func (p *parser) expectBracket(kind TokenKind, side BracketSide, want string) (Token, error) {
	tok, err := p.expect(kind, want)
	if err != nil {
		return Token{}, err
	}
	if tok.Side != side {
		return Token{}, parseErrorf(tok, "expected %s", want)
	}
	return tok, nil
}

// block parses "{ statement* }" into a new arena block.
func (p *parser) block() (BlockID, error) {
	if _, err := p.expectBracket(TokenCurly, Left, "'{'"); err != nil {
		return 0, err
	}

	id := BlockID(len(p.parsed.Blocks))
	p.parsed.Blocks = append(p.parsed.Blocks, Block{})

	var instrs []Instruction
	for {
		tok, ok := p.peek()
		if !ok {
			return 0, p.eof("'}'")
		}
		if tok.IsBracket(TokenCurly, Right) {
			p.next()
			break
		}
		instr, err := p.statement()
		if err != nil {
			return 0, err
		}
		instrs = append(instrs, instr)
	}

	p.parsed.Blocks[id].Instructions = instrs
	return id, nil
}

func (p *parser) statement() (Instruction, error) {
	kw := p.next()
	if !kw.Is(TokenIdent) {
		return nil, parseErrorf(kw, "expected instruction")
	}

	switch kw.Text {
	case "if":
		return p.ifStatement(kw)
	case "addon":
		return p.addonStatement(kw)
	}

	var args []Token
	for {
		tok, ok := p.peek()
		if !ok {
			return nil, p.eof("';'")
		}
		if tok.Is(TokenSemicolon) {
			p.next()
			break
		}
		if tok.Is(TokenCurly) {
			return nil, parseErrorf(tok, "expected ';' after %s instruction", kw.Text)
		}
		args = append(args, p.next())
	}

	return buildInstruction(kw, args)
}

func (p *parser) ifStatement(kw Token) (Instruction, error) {
	var cp ConditionParser
	for {
		tok, ok := p.peek()
		if !ok {
			return nil, p.eof("'{'")
		}
		if tok.IsBracket(TokenCurly, Left) {
			if cp.State() == ConditionEmpty {
				return nil, parseErrorf(tok, "missing condition after 'if'")
			}
			if !cp.Finished() {
				return nil, parseErrorf(tok, "incomplete condition")
			}
			break
		}
		if err := cp.Parse(p.next()); err != nil {
			return nil, err
		}
	}

	id, err := p.block()
	if err != nil {
		return nil, err
	}
	return &IfInstruction{At: At{kw.Pos}, Condition: cp.Condition(), Block: id}, nil
}

// addonStatement parses: addon <id> <kind> { key value; ... } [;]
func (p *parser) addonStatement(kw Token) (Instruction, error) {
	if p.atEnd() {
		return nil, p.eof("addon id")
	}
	id, err := valueFromToken(p.next())
	if err != nil {
		return nil, err
	}

	kindTok, err := p.expect(TokenIdent, "addon kind")
	if err != nil {
		return nil, err
	}
	kind, ok := types.ParseAddonKind(kindTok.Text)
	if !ok {
		return nil, parseErrorf(kindTok, "unknown addon kind %q", kindTok.Text)
	}

	if _, err := p.expectBracket(TokenCurly, Left, "'{'"); err != nil {
		return nil, err
	}

	addon := &AddonInstruction{At: At{kw.Pos}, ID: id, Kind: kind}
	seen := make(map[string]bool)
	for {
		tok, ok := p.peek()
		if !ok {
			return nil, p.eof("'}'")
		}
		if tok.IsBracket(TokenCurly, Right) {
			p.next()
			break
		}

		key, err := p.expect(TokenIdent, "addon field")
		if err != nil {
			return nil, err
		}
		if !addonFields[key.Text] {
			return nil, parseErrorf(key, "unknown addon field %q", key.Text)
		}
		if seen[key.Text] {
			return nil, parseErrorf(key, "duplicate addon field %q", key.Text)
		}
		seen[key.Text] = true

		if p.atEnd() {
			return nil, p.eof("addon field value")
		}
		val, err := valueFromToken(p.next())
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenSemicolon, "';'"); err != nil {
			return nil, err
		}

		switch key.Text {
		case "url":
			addon.URL = val
		case "path":
			addon.Path = val
		case "version":
			addon.Version = val
		case "file_name":
			addon.FileName = val
		case "sha256":
			addon.SHA256 = val
		case "sha512":
			addon.SHA512 = val
		}
	}

	if tok, ok := p.peek(); ok && tok.Is(TokenSemicolon) {
		p.next()
	}
	return addon, nil
}

func buildInstruction(kw Token, args []Token) (Instruction, error) {
	at := At{kw.Pos}

	if isList, ok := metaFields[kw.Text]; ok {
		values, err := fieldValues(kw, args, isList)
		if err != nil {
			return nil, err
		}
		return &MetaInstruction{At: at, Field: kw.Text, Values: values}, nil
	}
	if isList, ok := propertyFields[kw.Text]; ok {
		values, err := fieldValues(kw, args, isList)
		if err != nil {
			return nil, err
		}
		return &PropertyInstruction{At: at, Field: kw.Text, Values: values}, nil
	}

	switch kw.Text {
	case "set":
		if len(args) != 2 {
			return nil, parseErrorf(kw, "set takes a variable name and a value")
		}
		if !args[0].Is(TokenIdent) {
			return nil, parseErrorf(args[0], "expected variable name")
		}
		val, err := valueFromToken(args[1])
		if err != nil {
			return nil, err
		}
		return &SetInstruction{At: at, Var: args[0].Text, Value: val}, nil

	case "finish":
		if len(args) != 0 {
			return nil, unexpected(args[0])
		}
		return &FinishInstruction{At: at}, nil

	case "fail":
		switch len(args) {
		case 0:
			return &FailInstruction{At: at}, nil
		case 1:
			reason, err := valueFromToken(args[0])
			if err != nil {
				return nil, err
			}
			return &FailInstruction{At: at, Reason: reason}, nil
		default:
			return nil, unexpected(args[1])
		}

	case "require":
		groups, err := requireGroups(kw, args)
		if err != nil {
			return nil, err
		}
		return &RequireInstruction{At: at, Groups: groups}, nil

	case "refuse", "recommend", "bundle", "extend":
		pkg, err := singleValue(kw, args)
		if err != nil {
			return nil, err
		}
		switch kw.Text {
		case "refuse":
			return &RefuseInstruction{At: at, Package: pkg}, nil
		case "recommend":
			return &RecommendInstruction{At: at, Package: pkg}, nil
		case "bundle":
			return &BundleInstruction{At: at, Package: pkg}, nil
		default:
			return &ExtendInstruction{At: at, Package: pkg}, nil
		}

	case "compat":
		if len(args) != 2 {
			return nil, parseErrorf(kw, "compat takes a package and a compatibility package")
		}
		pkg, err := valueFromToken(args[0])
		if err != nil {
			return nil, err
		}
		compat, err := valueFromToken(args[1])
		if err != nil {
			return nil, err
		}
		return &CompatInstruction{At: at, Package: pkg, CompatPackage: compat}, nil

	case "notice":
		text, err := singleValue(kw, args)
		if err != nil {
			return nil, err
		}
		return &NoticeInstruction{At: at, Text: text}, nil

	case "cmd":
		values, err := listValues(kw, args)
		if err != nil {
			return nil, err
		}
		if len(values) == 0 {
			return nil, parseErrorf(kw, "cmd needs at least one argument")
		}
		return &CmdInstruction{At: at, Args: values}, nil
	}

	return nil, parseErrorf(kw, "unknown instruction %q", kw.Text)
}

func fieldValues(kw Token, args []Token, isList bool) ([]Value, error) {
	if isList {
		return listValues(kw, args)
	}
	v, err := singleValue(kw, args)
	if err != nil {
		return nil, err
	}
	return []Value{v}, nil
}

func singleValue(kw Token, args []Token) (Value, error) {
	if len(args) == 0 {
		return Value{}, parseErrorf(kw, "%s takes a value", kw.Text)
	}
	if len(args) > 1 {
		return Value{}, unexpected(args[1])
	}
	return valueFromToken(args[0])
}

// stripBrackets removes one surrounding pair of square brackets, if present.
func stripBrackets(kw Token, args []Token) ([]Token, error) {
	if len(args) == 0 || !args[0].IsBracket(TokenSquare, Left) {
		return args, nil
	}
	last := args[len(args)-1]
	if len(args) < 2 || !last.IsBracket(TokenSquare, Right) {
		return nil, parseErrorf(kw, "unclosed '[' in %s", kw.Text)
	}
	return args[1 : len(args)-1], nil
}

// listValues parses "a, b, c" or "[a, b, c]".
func listValues(kw Token, args []Token) ([]Value, error) {
	items, err := stripBrackets(kw, args)
	if err != nil {
		return nil, err
	}

	var values []Value
	expectValue := true
	for _, tok := range items {
		if expectValue {
			v, err := valueFromToken(tok)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
			expectValue = false
			continue
		}
		if !tok.Is(TokenComma) {
			return nil, parseErrorf(tok, "expected ',' between %s values", kw.Text)
		}
		expectValue = true
	}
	if expectValue && len(values) > 0 {
		return nil, parseErrorf(kw, "trailing ',' in %s", kw.Text)
	}
	return values, nil
}

// requireGroups parses "a | b, <c>" into [[a, b], [explicit c]].
func requireGroups(kw Token, args []Token) ([][]RequiredValue, error) {
	items, err := stripBrackets(kw, args)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, parseErrorf(kw, "require needs at least one package")
	}

	var (
		groups [][]RequiredValue
		group  []RequiredValue
	)
	for i := 0; i < len(items); i++ {
		tok := items[i]

		explicit := false
		if tok.IsBracket(TokenAngle, Left) {
			if i+2 >= len(items) || !items[i+2].IsBracket(TokenAngle, Right) {
				return nil, parseErrorf(tok, "expected '<package>'")
			}
			explicit = true
			i++
			tok = items[i]
		}
		v, err := valueFromToken(tok)
		if err != nil {
			return nil, err
		}
		if explicit {
			i++
		}
		group = append(group, RequiredValue{Value: v, Explicit: explicit})

		if i+1 >= len(items) {
			break
		}
		i++
		switch sep := items[i]; {
		case sep.Is(TokenPipe):
		case sep.Is(TokenComma):
			groups = append(groups, group)
			group = nil
		default:
			return nil, parseErrorf(sep, "expected '|' or ',' between dependencies")
		}
		if i+1 >= len(items) {
			return nil, parseErrorf(items[i], "expected a package after %q", items[i].String())
		}
	}
	groups = append(groups, group)
	return groups, nil
}
