// SPDX-License-Identifier: MPL-2.0

package pkgscript

import (
	"github.com/mcpkg/mcpkg/pkg/types"
)

const (
	// ConditionEmpty means no token has been consumed.
	ConditionEmpty ConditionState = iota
	// ConditionPartial means the condition still has an unfilled operand.
	ConditionPartial
	// ConditionComplete means the condition can be evaluated or combined with and/or.
	ConditionComplete
)

const (
	frameNot frameKind = iota
	frameAnd
	frameOr
)

type (
	// Condition is a complete boolean predicate tree. Every operand of a
	// Condition is set; partially built conditions only exist inside a
	// ConditionParser.
	Condition interface {
		condition()
	}

	// NotCondition negates Inner.
	NotCondition struct{ Inner Condition }

	// AndCondition holds when both operands hold.
	AndCondition struct{ Left, Right Condition }

	// OrCondition holds when either operand holds.
	OrCondition struct{ Left, Right Condition }

	// VersionCondition holds when the target version matches Pattern.
	VersionCondition struct{ Pattern Value }

	// SideCondition holds when evaluating for Side.
	SideCondition struct{ Side types.Side }

	// ModloaderCondition holds when the effective modloader belongs to Match.
	ModloaderCondition struct{ Match types.ModloaderMatch }

	// PluginLoaderCondition holds when the effective plugin loader belongs to Match.
	PluginLoaderCondition struct{ Match types.PluginLoaderMatch }

	// FeatureCondition holds when Feature is enabled.
	FeatureCondition struct{ Feature Value }

	// ValueCondition holds when both values resolve to the same text.
	ValueCondition struct{ Left, Right Value }

	// DefinedCondition holds when the variable Var has been set.
	DefinedCondition struct{ Var string }

	// OSCondition holds when running on OS.
	OSCondition struct{ OS types.OS }

	// StabilityCondition holds when the package is evaluated under Stability.
	StabilityCondition struct{ Stability types.Stability }

	// LanguageCondition holds when the profile language is Language.
	LanguageCondition struct{ Language types.Language }

	// ConditionState is the fill state of a ConditionParser.
	ConditionState int

	// ConditionParser builds a Condition one token at a time.
	//
	// Leaves take a keyword and their arguments. Once the condition is
	// complete, "and" or "or" makes the whole tree the left operand of a new
	// combinator, so chains associate to the left. "not" binds to the next
	// leaf or group. Parentheses group a sub-condition.
	ConditionParser struct {
		frames []frame
		leaf   *leafBuilder
		group  *ConditionParser
		done   Condition
	}

	frameKind int

	// frame is a combinator whose last operand is still being parsed.
	frame struct {
		kind frameKind
		left Condition
	}

	leafBuilder struct {
		keyword string
		left    Value
	}
)

func (NotCondition) condition()          {}
func (AndCondition) condition()          {}
func (OrCondition) condition()           {}
func (VersionCondition) condition()      {}
func (SideCondition) condition()         {}
func (ModloaderCondition) condition()    {}
func (PluginLoaderCondition) condition() {}
func (FeatureCondition) condition()      {}
func (ValueCondition) condition()        {}
func (DefinedCondition) condition()      {}
func (OSCondition) condition()           {}
func (StabilityCondition) condition()    {}
func (LanguageCondition) condition()     {}

// IsConditionKeyword reports whether name starts a condition leaf.
func IsConditionKeyword(name string) bool {
	switch name {
	case "version", "side", "modloader", "plugin_loader", "feature", "value",
		"defined", "os", "stability", "language":
		return true
	default:
		return false
	}
}

// State returns the fill state of the parser.
func (p *ConditionParser) State() ConditionState {
	switch {
	case p.done != nil:
		return ConditionComplete
	case len(p.frames) == 0 && p.leaf == nil && p.group == nil:
		return ConditionEmpty
	default:
		return ConditionPartial
	}
}

// Finished reports whether every operand has been filled.
func (p *ConditionParser) Finished() bool {
	return p.done != nil
}

// Condition returns the built condition, or nil if it is not finished.
func (p *ConditionParser) Condition() Condition {
	return p.done
}

// Parse consumes one structural token.
func (p *ConditionParser) Parse(tok Token) error {
	if p.done != nil {
		switch {
		case tok.IsIdent("and"):
			p.frames = []frame{{kind: frameAnd, left: p.done}}
		case tok.IsIdent("or"):
			p.frames = []frame{{kind: frameOr, left: p.done}}
		case tok.Is(TokenIdent):
			return parseErrorf(tok, "unknown condition combinator %q", tok.Text)
		default:
			return unexpected(tok)
		}
		p.done = nil
		return nil
	}

	if p.group != nil {
		if tok.IsBracket(TokenParen, Right) {
			if !p.group.Finished() {
				return parseErrorf(tok, "incomplete condition before ')'")
			}
			inner := p.group.done
			p.group = nil
			p.complete(inner)
			return nil
		}
		return p.group.Parse(tok)
	}

	if p.leaf != nil {
		cond, err := p.leaf.feed(tok)
		if err != nil {
			return err
		}
		if cond != nil {
			p.leaf = nil
			p.complete(cond)
		}
		return nil
	}

	switch {
	case tok.IsBracket(TokenParen, Left):
		p.group = &ConditionParser{}
	case tok.IsIdent("not"):
		p.frames = append(p.frames, frame{kind: frameNot})
	case tok.Is(TokenIdent) && IsConditionKeyword(tok.Text):
		p.leaf = &leafBuilder{keyword: tok.Text}
	case tok.Is(TokenIdent):
		return parseErrorf(tok, "unknown condition %q", tok.Text)
	default:
		return unexpected(tok)
	}
	return nil
}

// complete fills the innermost pending operand with c and folds every
// pending combinator around it.
func (p *ConditionParser) complete(c Condition) {
	for i := len(p.frames) - 1; i >= 0; i-- {
		f := p.frames[i]
		switch f.kind {
		case frameNot:
			c = NotCondition{Inner: c}
		case frameAnd:
			c = AndCondition{Left: f.left, Right: c}
		case frameOr:
			c = OrCondition{Left: f.left, Right: c}
		}
	}
	p.frames = nil
	p.done = c
}

// feed adds an argument to the leaf. It returns the leaf condition once
// every argument has been read.
func (b *leafBuilder) feed(tok Token) (Condition, error) {
	switch b.keyword {
	case "version", "feature":
		v, err := valueFromToken(tok)
		if err != nil {
			return nil, err
		}
		if b.keyword == "version" {
			return VersionCondition{Pattern: v}, nil
		}
		return FeatureCondition{Feature: v}, nil

	case "value":
		v, err := valueFromToken(tok)
		if err != nil {
			return nil, err
		}
		if !b.left.IsSome() {
			b.left = v
			return nil, nil
		}
		return ValueCondition{Left: b.left, Right: v}, nil

	case "defined":
		if !tok.Is(TokenIdent) {
			return nil, unexpected(tok)
		}
		return DefinedCondition{Var: tok.Text}, nil
	}

	if !tok.Is(TokenIdent) {
		return nil, unexpected(tok)
	}
	var (
		cond Condition
		ok   bool
	)
	switch b.keyword {
	case "side":
		var side types.Side
		side, ok = types.ParseSide(tok.Text)
		cond = SideCondition{Side: side}
	case "modloader":
		var m types.ModloaderMatch
		m, ok = types.ParseModloaderMatch(tok.Text)
		cond = ModloaderCondition{Match: m}
	case "plugin_loader":
		var m types.PluginLoaderMatch
		m, ok = types.ParsePluginLoaderMatch(tok.Text)
		cond = PluginLoaderCondition{Match: m}
	case "os":
		var os types.OS
		os, ok = types.ParseOS(tok.Text)
		cond = OSCondition{OS: os}
	case "stability":
		var s types.Stability
		s, ok = types.ParseStability(tok.Text)
		cond = StabilityCondition{Stability: s}
	case "language":
		var l types.Language
		l, ok = types.ParseLanguage(tok.Text)
		cond = LanguageCondition{Language: l}
	}
	if !ok {
		return nil, parseErrorf(tok, "unknown %s condition argument %q", b.keyword, tok.Text)
	}
	return cond, nil
}
