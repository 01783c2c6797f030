package css

import (
	"sort"
	"strconv"

	"github.com/lukehoban/minibrowser/internal/diag"
	"github.com/lukehoban/minibrowser/log"
)

// Stylesheet is an ordered list of Rules, in source order.
type Stylesheet struct {
	Rules []Rule
}

// Rule is a non-empty, ascending-specificity-sorted list of selectors
// sharing a declaration block.
type Rule struct {
	Selectors    []SimpleSelector
	Declarations []Declaration
}

// SimpleSelector matches an element by an optional tag name, an
// optional id, and zero or more classes. There are no combinators: the
// grammar has no descendant, child, or sibling selector forms.
type SimpleSelector struct {
	Tag     string
	ID      string
	Classes []string
}

// Specificity is the 3-tuple CSS 2.1 §6.4.3 cascade order key: whether
// an id was present, the class count, and whether a tag was present.
// Tuples compare lexicographically in that order.
type Specificity struct {
	HasID      int
	NumClasses int
	HasTag     int
}

// Less reports whether s sorts before other (lower specificity first).
func (s Specificity) Less(other Specificity) bool {
	if s.HasID != other.HasID {
		return s.HasID < other.HasID
	}
	if s.NumClasses != other.NumClasses {
		return s.NumClasses < other.NumClasses
	}
	return s.HasTag < other.HasTag
}

// Specificity computes the selector's cascade key.
func (s SimpleSelector) Specificity() Specificity {
	spec := Specificity{NumClasses: len(s.Classes)}
	if s.ID != "" {
		spec.HasID = 1
	}
	if s.Tag != "" {
		spec.HasTag = 1
	}
	return spec
}

// Declaration is a single property:value pair.
type Declaration struct {
	Name  string
	Value Value
}

// Parser turns CSS source into a Stylesheet. It is strict: any
// malformed construct halts parsing with a *diag.Error rather than
// recovering or skipping, and there is no @-rule support.
type Parser struct {
	tokenizer *Tokenizer
}

// NewParser creates a Parser over input.
func NewParser(input string) *Parser {
	return &Parser{tokenizer: NewTokenizer(input)}
}

// Parse tokenizes and parses input into a Stylesheet.
func Parse(input string) (*Stylesheet, error) {
	return NewParser(input).Parse()
}

// Parse consumes the whole input, returning the first fatal error
// encountered, if any.
func (p *Parser) Parse() (*Stylesheet, error) {
	sheet := &Stylesheet{}
	for {
		p.tokenizer.SkipWhitespace()
		if p.tokenizer.Peek().Type == EOFToken {
			break
		}
		rule, err := p.parseRule()
		if err != nil {
			return nil, err
		}
		sheet.Rules = append(sheet.Rules, *rule)
	}
	return sheet, nil
}

func (p *Parser) parseRule() (*Rule, error) {
	selectors, err := p.parseSelectorList()
	if err != nil {
		return nil, err
	}

	p.tokenizer.SkipWhitespace()
	open := p.tokenizer.Next()
	if open.Type != LeftBraceToken {
		return nil, diag.New(open.Offset, "expected '{', got %q", open.Value)
	}

	decls, err := p.parseDeclarations()
	if err != nil {
		return nil, err
	}

	p.tokenizer.SkipWhitespace()
	closeTok := p.tokenizer.Next()
	if closeTok.Type != RightBraceToken {
		return nil, diag.New(closeTok.Offset, "expected '}', got %q", closeTok.Value)
	}

	sortBySpecificity(selectors)
	return &Rule{Selectors: selectors, Declarations: decls}, nil
}

// sortBySpecificity orders selectors ascending by specificity, stably,
// so the cascade can later pick the first matching selector per rule.
func sortBySpecificity(selectors []SimpleSelector) {
	sort.SliceStable(selectors, func(i, j int) bool {
		return selectors[i].Specificity().Less(selectors[j].Specificity())
	})
}

func (p *Parser) parseSelectorList() ([]SimpleSelector, error) {
	var selectors []SimpleSelector
	for {
		p.tokenizer.SkipWhitespace()
		sel, err := p.parseSimpleSelector()
		if err != nil {
			return nil, err
		}
		selectors = append(selectors, sel)

		p.tokenizer.SkipWhitespace()
		if p.tokenizer.Peek().Type != CommaToken {
			break
		}
		p.tokenizer.Next()
	}
	return selectors, nil
}

// parseSimpleSelector consumes a run of Tag | '#' Id | '.' Class | '*'
// components with no whitespace between them; the run ends at the
// first token that is not one of those four forms, including
// whitespace. A repeated tag or id overwrites the earlier one, so
// "#a#b" keeps only "b". Input such as "div span" ends the selector
// after "div", and parseRule then rejects "span" where it expects '{'.
func (p *Parser) parseSimpleSelector() (SimpleSelector, error) {
	var sel SimpleSelector
	matched := false

	for {
		tok := p.tokenizer.Peek()
		switch tok.Type {
		case IdentToken:
			p.tokenizer.Next()
			sel.Tag = tok.Value
			matched = true
		case HashToken:
			p.tokenizer.Next()
			sel.ID = tok.Value
			matched = true
		case DotToken:
			p.tokenizer.Next()
			class := p.tokenizer.Next()
			if class.Type != IdentToken {
				return SimpleSelector{}, diag.New(class.Offset, "expected class name after '.', got %q", class.Value)
			}
			sel.Classes = append(sel.Classes, class.Value)
			matched = true
		case StarToken:
			p.tokenizer.Next()
			matched = true
		default:
			if !matched {
				return SimpleSelector{}, diag.New(tok.Offset, "expected selector, got %q", tok.Value)
			}
			return sel, nil
		}
	}
}

func (p *Parser) parseDeclarations() ([]Declaration, error) {
	var decls []Declaration
	for {
		p.tokenizer.SkipWhitespace()
		if p.tokenizer.Peek().Type == RightBraceToken {
			break
		}
		decl, err := p.parseDeclaration()
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)

		p.tokenizer.SkipWhitespace()
		if p.tokenizer.Peek().Type == SemicolonToken {
			p.tokenizer.Next()
		}
	}
	return decls, nil
}

func (p *Parser) parseDeclaration() (Declaration, error) {
	name := p.tokenizer.Next()
	if name.Type != IdentToken {
		return Declaration{}, diag.New(name.Offset, "expected property name, got %q", name.Value)
	}

	p.tokenizer.SkipWhitespace()
	colon := p.tokenizer.Next()
	if colon.Type != ColonToken {
		return Declaration{}, diag.New(colon.Offset, "expected ':', got %q", colon.Value)
	}

	p.tokenizer.SkipWhitespace()
	value, err := p.parseValue()
	if err != nil {
		return Declaration{}, err
	}

	return Declaration{Name: name.Value, Value: value}, nil
}

// parseValue dispatches on the next raw byte, matching the grammar's
// Value -> HexColor | Length | Keyword production: '#' always starts
// a color, a digit or leading '.' always starts a length, anything
// else must be a keyword.
func (p *Parser) parseValue() (Value, error) {
	b, ok := p.tokenizer.PeekByte()
	if !ok {
		return Value{}, diag.New(p.tokenizer.Pos(), "expected declaration value, got end of input")
	}

	if b == '#' {
		return ColorOf(p.tokenizer.ConsumeHexColor()), nil
	}
	if (b >= '0' && b <= '9') || b == '.' {
		return p.parseLength()
	}
	return p.parseKeyword()
}

func (p *Parser) parseLength() (Value, error) {
	num := p.tokenizer.Next()
	if num.Type != NumberToken {
		return Value{}, diag.New(num.Offset, "expected number, got %q", num.Value)
	}
	magnitude, err := strconv.ParseFloat(num.Value, 64)
	if err != nil {
		log.Debugf("unparseable length magnitude %q at offset %d, defaulting to 0", num.Value, num.Offset)
	}

	unit := p.tokenizer.Next()
	if unit.Type != IdentToken {
		return Value{}, diag.New(unit.Offset, "expected length unit, got %q", unit.Value)
	}
	if unit.Value != "px" {
		return Value{}, diag.New(unit.Offset, "unsupported length unit %q", unit.Value)
	}

	return LengthOf(magnitude), nil
}

func (p *Parser) parseKeyword() (Value, error) {
	tok := p.tokenizer.Next()
	if tok.Type != IdentToken {
		return Value{}, diag.New(tok.Offset, "expected keyword, got %q", tok.Value)
	}
	return KeywordOf(tok.Value), nil
}
